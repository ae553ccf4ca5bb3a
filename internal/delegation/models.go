package delegation

import (
	"time"

	"kustodia/pkg/domain"
)

// CreditorStatus is one row of a debtor's ledger: the creditor address and
// its current standing. Rows keep first-seen order; a status change never
// reorders the list.
type CreditorStatus struct {
	Creditor domain.Address
	Status   domain.Status
}

// Request is a consumer creditor's petition to a provider creditor for
// access to one debtor's data. Requests are keyed by the (consumer,
// provider) address pair, mutate exactly once (to approved or rejected) and
// are never deleted.
type Request struct {
	Consumer   domain.Address
	Provider   domain.Address
	NIK        domain.Hash32
	Status     domain.Status
	Metadata   string
	CreatedAt  time.Time
	ResolvedAt *time.Time
}
