// Package sentinel holds infrastructure-level sentinel errors. Stores return
// these (optionally wrapped) and services translate them into coded domain
// errors; validation failures belong in pkg/domainerrors instead.
package sentinel

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidState = errors.New("invalid state")
	ErrStaleNonce   = errors.New("stale nonce")
	ErrUnavailable  = errors.New("unavailable")
)
