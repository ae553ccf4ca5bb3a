package audit

import "context"

// Store is the append-only persistence behind the audit trail.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListRecent(ctx context.Context, limit int) ([]Event, error)
}
