// Package domain defines the typed identifiers shared across the service.
//
// Identifiers are strongly typed so a creditor code can never be passed where
// a debtor NIK hash is expected. The zero value of every identifier is
// reserved as "absent" and rejected by all constructors.
package domain

import (
	"crypto/ed25519"
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/sha3"

	dErrors "kustodia/pkg/domainerrors"
)

// Hash32 is a 32-byte opaque identifier: the SHA3-256 hash of an institution
// code or of a debtor's national identity number. Raw NIKs are never stored.
type Hash32 [32]byte

// Address identifies a principal. It is derived from an ed25519 public key
// as the trailing 20 bytes of SHA3-256(pubkey), so possession of the key
// proves control of the address.
type Address [20]byte

// HashIdentifier maps a raw identifier (institution code, NIK) to its Hash32.
func HashIdentifier(raw string) Hash32 {
	return Hash32(sha3.Sum256([]byte(raw)))
}

// ParseHash32 decodes a 64-char hex string into a Hash32.
func ParseHash32(s string) (Hash32, error) {
	var h Hash32
	b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil || len(b) != len(h) {
		return Hash32{}, dErrors.New(dErrors.CodeInvalidIdentifier, "identifier must be 32 bytes of hex")
	}
	copy(h[:], b)
	if h.IsZero() {
		return Hash32{}, dErrors.New(dErrors.CodeInvalidIdentifier, "identifier must not be zero")
	}
	return h, nil
}

func (h Hash32) IsZero() bool { return h == Hash32{} }

func (h Hash32) String() string { return hex.EncodeToString(h[:]) }

func (h Hash32) MarshalText() ([]byte, error) { return []byte(h.String()), nil }

func (h *Hash32) UnmarshalText(b []byte) error {
	parsed, err := ParseHash32(string(b))
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}

// AddressFromPublicKey derives the principal address controlled by key.
func AddressFromPublicKey(key ed25519.PublicKey) Address {
	sum := sha3.Sum256(key)
	var a Address
	copy(a[:], sum[len(sum)-len(a):])
	return a
}

// ParseAddress decodes a 40-char hex string (optional 0x prefix).
func ParseAddress(s string) (Address, error) {
	var a Address
	b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil || len(b) != len(a) {
		return Address{}, dErrors.New(dErrors.CodeInvalidAddress, "address must be 20 bytes of hex")
	}
	copy(a[:], b)
	if a.IsZero() {
		return Address{}, dErrors.New(dErrors.CodeInvalidAddress, "address must not be zero")
	}
	return a, nil
}

func (a Address) IsZero() bool { return a == Address{} }

func (a Address) String() string { return "0x" + hex.EncodeToString(a[:]) }

func (a Address) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

func (a *Address) UnmarshalText(b []byte) error {
	parsed, err := ParseAddress(string(b))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
