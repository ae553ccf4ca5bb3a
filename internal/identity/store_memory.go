package identity

import (
	"context"
	"sync"

	"kustodia/pkg/domain"
	"kustodia/pkg/platform/sentinel"
)

// InMemory keeps the identity maps in process memory. It favors clarity over
// performance and backs unit tests as well as single-node deployments.
type InMemory struct {
	mu        sync.RWMutex
	creditors map[domain.Hash32]Creditor
	debtors   map[domain.Hash32]Debtor
}

func NewInMemory() *InMemory {
	return &InMemory{
		creditors: make(map[domain.Hash32]Creditor),
		debtors:   make(map[domain.Hash32]Debtor),
	}
}

func (s *InMemory) SaveCreditor(_ context.Context, c Creditor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.creditors[c.Code]; ok {
		return sentinel.ErrConflict
	}
	s.creditors[c.Code] = c
	return nil
}

func (s *InMemory) FindCreditor(_ context.Context, code domain.Hash32) (Creditor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if c, ok := s.creditors[code]; ok {
		return c, nil
	}
	return Creditor{}, sentinel.ErrNotFound
}

func (s *InMemory) DeleteCreditor(_ context.Context, code domain.Hash32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.creditors[code]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.creditors, code)
	return nil
}

func (s *InMemory) SaveDebtor(_ context.Context, d Debtor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.debtors[d.NIK]; ok {
		return sentinel.ErrConflict
	}
	s.debtors[d.NIK] = d
	return nil
}

func (s *InMemory) FindDebtor(_ context.Context, nik domain.Hash32) (Debtor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if d, ok := s.debtors[nik]; ok {
		return d, nil
	}
	return Debtor{}, sentinel.ErrNotFound
}

func (s *InMemory) DeleteDebtor(_ context.Context, nik domain.Hash32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.debtors[nik]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.debtors, nik)
	return nil
}
