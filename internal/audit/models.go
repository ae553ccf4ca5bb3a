// Package audit records every state-mutating action with its canonical
// identifiers and uninterpreted caller metadata. The trail is append-only;
// nothing in this service ever reads it back for authorization decisions.
package audit

import (
	"time"

	"github.com/google/uuid"
)

type Action string

const (
	ActionCreditorRegistered     Action = "creditor_registered"
	ActionCreditorRemoved        Action = "creditor_removed"
	ActionDebtorRegistered       Action = "debtor_registered"
	ActionDebtorRemoved          Action = "debtor_removed"
	ActionCreditorBootstrapped   Action = "creditor_bootstrapped"
	ActionDelegationRequested    Action = "delegation_requested"
	ActionDelegationDecided      Action = "delegation_decided"
	ActionPlatformAddressChanged Action = "platform_address_changed"
	ActionSignedDispatch         Action = "signed_dispatch"
)

// Event pairs canonical identifiers (hashes, addresses, rendered as hex)
// with the free-text metadata supplied by the caller. Metadata is carried
// for off-system auditing and never validated or interpreted.
type Event struct {
	ID        uuid.UUID
	Action    Action
	Timestamp time.Time
	Actor     string // caller address
	Creditor  string // creditor code hash, when the action names one
	Debtor    string // debtor nik hash, when the action names one
	Consumer  string // consumer address, delegation actions only
	Provider  string // provider address, delegation actions only
	Decision  string
	Metadata  string
	RequestID string
}
