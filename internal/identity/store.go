package identity

import (
	"context"

	"kustodia/pkg/domain"
)

// Store persists the creditor and debtor identity maps. Implementations
// return sentinel.ErrConflict for duplicate identifiers and
// sentinel.ErrNotFound for absent ones; the service translates these into
// coded domain errors.
type Store interface {
	SaveCreditor(ctx context.Context, c Creditor) error
	FindCreditor(ctx context.Context, code domain.Hash32) (Creditor, error)
	DeleteCreditor(ctx context.Context, code domain.Hash32) error

	SaveDebtor(ctx context.Context, d Debtor) error
	FindDebtor(ctx context.Context, nik domain.Hash32) (Debtor, error)
	DeleteDebtor(ctx context.Context, nik domain.Hash32) error
}
