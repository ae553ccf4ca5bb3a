package domain

import dErrors "kustodia/pkg/domainerrors"

// Status tracks a creditor's standing in a debtor's ledger. StatusNone is
// implicit: a pair with no stored entry has status none.
type Status string

const (
	StatusNone     Status = "none"
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// ParseStatus validates a status received at a trust boundary.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusNone, StatusPending, StatusApproved, StatusRejected:
		return Status(s), nil
	}
	return "", dErrors.New(dErrors.CodeBadRequest, "unknown status: "+s)
}

// Terminal reports whether the status can never change again through the
// delegation workflow.
func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// Decision is a provider's ruling on a pending delegation request.
type Decision string

const (
	DecisionApproved Decision = "approved"
	DecisionRejected Decision = "rejected"
)

// ParseDecision validates a decision received at a trust boundary.
func ParseDecision(s string) (Decision, error) {
	switch Decision(s) {
	case DecisionApproved, DecisionRejected:
		return Decision(s), nil
	}
	return "", dErrors.New(dErrors.CodeBadRequest, "decision must be approved or rejected")
}

// Status maps the decision onto the ledger status it produces.
func (d Decision) Status() Status {
	if d == DecisionApproved {
		return StatusApproved
	}
	return StatusRejected
}
