package delegation

import (
	"context"
	"sync"
	"time"

	"kustodia/pkg/domain"
	"kustodia/pkg/platform/sentinel"
)

type ledgerEntry struct {
	statuses map[domain.Address]domain.Status
	order    []domain.Address // first-seen order, append-only
}

type pairKey struct {
	consumer domain.Address
	provider domain.Address
}

// InMemory keeps the ledger and request records in process memory.
type InMemory struct {
	mu       sync.RWMutex
	ledgers  map[domain.Hash32]*ledgerEntry
	requests map[pairKey]Request
}

func NewInMemory() *InMemory {
	return &InMemory{
		ledgers:  make(map[domain.Hash32]*ledgerEntry),
		requests: make(map[pairKey]Request),
	}
}

func (s *InMemory) GetStatus(_ context.Context, nik domain.Hash32, creditor domain.Address) (domain.Status, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if entry, ok := s.ledgers[nik]; ok {
		if status, ok := entry.statuses[creditor]; ok {
			return status, nil
		}
	}
	return domain.StatusNone, nil
}

func (s *InMemory) UpsertStatus(_ context.Context, nik domain.Hash32, creditor domain.Address, status domain.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.ledgers[nik]
	if !ok {
		entry = &ledgerEntry{statuses: make(map[domain.Address]domain.Status)}
		s.ledgers[nik] = entry
	}
	if _, seen := entry.statuses[creditor]; !seen {
		entry.order = append(entry.order, creditor)
	}
	entry.statuses[creditor] = status
	return nil
}

func (s *InMemory) ListStatuses(_ context.Context, nik domain.Hash32) ([]CreditorStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.ledgers[nik]
	if !ok {
		return nil, nil
	}
	out := make([]CreditorStatus, 0, len(entry.order))
	for _, creditor := range entry.order {
		out = append(out, CreditorStatus{Creditor: creditor, Status: entry.statuses[creditor]})
	}
	return out, nil
}

func (s *InMemory) CreateRequest(_ context.Context, req Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := pairKey{consumer: req.Consumer, provider: req.Provider}
	if _, ok := s.requests[key]; ok {
		return sentinel.ErrConflict
	}
	s.requests[key] = req
	return nil
}

func (s *InMemory) FindRequest(_ context.Context, consumer, provider domain.Address) (Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if req, ok := s.requests[pairKey{consumer: consumer, provider: provider}]; ok {
		return req, nil
	}
	return Request{}, sentinel.ErrNotFound
}

func (s *InMemory) ResolveRequest(_ context.Context, consumer, provider domain.Address, status domain.Status, metadata string, resolvedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := pairKey{consumer: consumer, provider: provider}
	req, ok := s.requests[key]
	if !ok {
		return sentinel.ErrNotFound
	}
	req.Status = status
	req.ResolvedAt = &resolvedAt
	if metadata != "" {
		req.Metadata = metadata
	}
	s.requests[key] = req
	return nil
}
