package delegation

import (
	"context"
	"time"

	"kustodia/pkg/domain"
)

// Store persists the per-debtor creditor ledger and the request records.
//
// Ledger semantics: GetStatus returns domain.StatusNone (not an error) for a
// pair with no entry. UpsertStatus appends the creditor to the debtor's
// enumeration order the first time it is seen. Request semantics:
// CreateRequest returns sentinel.ErrConflict when a record for the pair
// already exists; ResolveRequest returns sentinel.ErrNotFound when none does.
// A non-empty ResolveRequest metadata replaces the request's metadata; empty
// keeps what the request was created with.
type Store interface {
	GetStatus(ctx context.Context, nik domain.Hash32, creditor domain.Address) (domain.Status, error)
	UpsertStatus(ctx context.Context, nik domain.Hash32, creditor domain.Address, status domain.Status) error
	ListStatuses(ctx context.Context, nik domain.Hash32) ([]CreditorStatus, error)

	CreateRequest(ctx context.Context, req Request) error
	FindRequest(ctx context.Context, consumer, provider domain.Address) (Request, error)
	ResolveRequest(ctx context.Context, consumer, provider domain.Address, status domain.Status, metadata string, resolvedAt time.Time) error
}
