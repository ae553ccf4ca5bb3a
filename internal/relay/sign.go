package relay

import (
	"crypto/ed25519"

	"kustodia/pkg/domain"
)

// Sign produces a complete envelope for the given key. Clients and tests use
// it; the server side only ever verifies.
func Sign(d Domain, key ed25519.PrivateKey, nonce uint64, action Action) Envelope {
	pub := key.Public().(ed25519.PublicKey)
	signer := domain.AddressFromPublicKey(pub)
	digest := Digest(d, signer, nonce, action)
	return Envelope{
		Signer:    signer,
		Nonce:     nonce,
		Action:    action,
		PublicKey: pub,
		Signature: ed25519.Sign(key, digest[:]),
	}
}
