package identity

import (
	"time"

	"kustodia/pkg/domain"
)

// Creditor is a registered institution able to act as data consumer or
// provider. Code is the SHA3-256 hash of the institution code.
type Creditor struct {
	Code         domain.Hash32
	Address      domain.Address
	Name         string
	RegisteredAt time.Time
}

// Debtor is the subject whose data-sharing relationships are governed.
// NIK is the SHA3-256 hash of the national identity number; the raw NIK
// never reaches this service.
type Debtor struct {
	NIK          domain.Hash32
	Address      domain.Address
	RegisteredAt time.Time
}
