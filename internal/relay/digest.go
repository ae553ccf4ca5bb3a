package relay

import (
	"encoding/json"
	"fmt"

	"golang.org/x/crypto/sha3"

	"kustodia/pkg/domain"
)

// Domain scopes signatures to exactly one deployment. Two deployments that
// differ in any field produce different digests, so an envelope signed for
// one is rejected by the other.
type Domain struct {
	Name       string
	Version    string
	NetworkID  string
	InstanceID string
}

// Separator returns the 32-byte domain separator mixed into every digest.
func (d Domain) Separator() [32]byte {
	encoded, err := json.Marshal(struct {
		Name       string `json:"name"`
		Version    string `json:"version"`
		NetworkID  string `json:"network_id"`
		InstanceID string `json:"instance_id"`
	}{d.Name, d.Version, d.NetworkID, d.InstanceID})
	if err != nil {
		// Marshaling a struct of strings cannot fail.
		panic(fmt.Sprintf("encode relay domain: %v", err))
	}
	return sha3.Sum256(encoded)
}

// Digest computes the typed-data digest a signer authorizes:
// SHA3-256(separator || canonical JSON of {signer, nonce, action}).
// Clients must encode the action exactly as submitted; the args bytes are
// hashed as-is.
func Digest(d Domain, signer domain.Address, nonce uint64, action Action) [32]byte {
	sep := d.Separator()
	body, err := json.Marshal(struct {
		Signer string `json:"signer"`
		Nonce  uint64 `json:"nonce"`
		Action Action `json:"action"`
	}{signer.String(), nonce, action})
	if err != nil {
		panic(fmt.Sprintf("encode relay digest body: %v", err))
	}
	h := sha3.New256()
	h.Write(sep[:])
	h.Write(body)
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}
