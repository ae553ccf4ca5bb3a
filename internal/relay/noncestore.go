package relay

import (
	"context"
	"sync"

	"kustodia/pkg/domain"
	"kustodia/pkg/platform/sentinel"
)

// NonceStore tracks the per-signer monotonic counter. Increment advances the
// counter only when the stored value equals expected, returning
// sentinel.ErrStaleNonce otherwise; a signer never seen before holds zero.
type NonceStore interface {
	Get(ctx context.Context, signer domain.Address) (uint64, error)
	Increment(ctx context.Context, signer domain.Address, expected uint64) error
}

// InMemoryNonceStore backs unit tests and single-node deployments.
type InMemoryNonceStore struct {
	mu     sync.Mutex
	nonces map[domain.Address]uint64
}

func NewInMemoryNonceStore() *InMemoryNonceStore {
	return &InMemoryNonceStore{nonces: make(map[domain.Address]uint64)}
}

func (s *InMemoryNonceStore) Get(_ context.Context, signer domain.Address) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nonces[signer], nil
}

func (s *InMemoryNonceStore) Increment(_ context.Context, signer domain.Address, expected uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.nonces[signer] != expected {
		return sentinel.ErrStaleNonce
	}
	s.nonces[signer] = expected + 1
	return nil
}
