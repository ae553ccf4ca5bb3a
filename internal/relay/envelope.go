// Package relay implements signature-authorized dispatch: an action signed
// off-line by a principal and submitted by a relayer executes as if the
// signer had called it directly. Signatures are bound to one deployment via
// a typed-data digest and replay-protected by strict per-signer nonces.
package relay

import (
	"crypto/ed25519"
	"encoding/json"

	"kustodia/pkg/domain"
)

// Action is the encoded operation a signer authorizes: a dispatch name plus
// JSON-encoded arguments. The dispatcher decodes and routes it; the relay
// layer never interprets the arguments itself.
type Action struct {
	Name string          `json:"name"`
	Args json.RawMessage `json:"args"`
}

// Envelope carries one signed action. Signer is the claimed principal;
// PublicKey must derive to that address and Signature must verify over the
// typed-data digest of (signer, nonce, action).
type Envelope struct {
	Signer    domain.Address    `json:"signer"`
	Nonce     uint64            `json:"nonce"`
	Action    Action            `json:"action"`
	PublicKey ed25519.PublicKey `json:"public_key"`
	Signature []byte            `json:"signature"`
}
