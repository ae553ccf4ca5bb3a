package gateway

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"encoding/json"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kustodia/internal/audit"
	"kustodia/internal/delegation"
	"kustodia/internal/identity"
	"kustodia/internal/relay"
	"kustodia/pkg/domain"
	dErrors "kustodia/pkg/domainerrors"
)

var relayDomain = relay.Domain{
	Name:       "kustodia",
	Version:    "1",
	NetworkID:  "testnet",
	InstanceID: "deploy-1",
}

type relayFixture struct {
	gateway    *Service
	dispatcher *relay.Dispatcher
	auditor    *audit.Publisher

	consumerKey ed25519.PrivateKey
	providerKey ed25519.PrivateKey
}

// newRelayFixture builds the full signed-dispatch stack: the consumer and
// provider act only through envelopes, never as direct callers.
func newRelayFixture(t *testing.T) *relayFixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	identities := identity.NewService(identity.NewInMemory())
	delegations := delegation.NewService(identities, delegation.NewInMemory(), nil)
	auditor := audit.NewPublisher(64, logger)
	gw := NewService(ownerAddr, platformAddr, identities, delegations, auditor, nil, logger)
	dispatcher := relay.NewDispatcher(relayDomain, relay.NewInMemoryNonceStore(), gw, nil, logger)

	_, consumerKey, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	_, providerKey, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	consumerAddr := domain.AddressFromPublicKey(consumerKey.Public().(ed25519.PublicKey))
	providerAddr := domain.AddressFromPublicKey(providerKey.Public().(ed25519.PublicKey))

	platform := asCaller(platformAddr)
	_, err = gw.AddDebtor(platform, debtorNIK, debtorAddr)
	require.NoError(t, err)
	_, err = gw.AddCreditor(platform, domain.HashIdentifier("BANK-CONSUMER"), consumerAddr, "Consumer", "")
	require.NoError(t, err)
	_, err = gw.AddCreditor(platform, domain.HashIdentifier("BANK-PROVIDER"), providerAddr, "Provider", "")
	require.NoError(t, err)
	require.NoError(t, gw.AddCreditorForDebtor(platform, debtorNIK, domain.HashIdentifier("BANK-PROVIDER"), ""))

	return &relayFixture{
		gateway:     gw,
		dispatcher:  dispatcher,
		auditor:     auditor,
		consumerKey: consumerKey,
		providerKey: providerKey,
	}
}

func delegationAction(name, decision string) relay.Action {
	args := fmt.Sprintf(`{"nik":%q,"consumer_code":%q,"provider_code":%q`,
		debtorNIK.String(),
		domain.HashIdentifier("BANK-CONSUMER").String(),
		domain.HashIdentifier("BANK-PROVIDER").String(),
	)
	if decision != "" {
		args += fmt.Sprintf(`,"decision":%q`, decision)
	}
	args += "}"
	return relay.Action{Name: name, Args: json.RawMessage(args)}
}

func TestSignedDelegationFlow(t *testing.T) {
	f := newRelayFixture(t)
	ctx := context.Background()

	request := relay.Sign(relayDomain, f.consumerKey, 0, delegationAction(ActionRequestDelegation, ""))
	require.NoError(t, f.dispatcher.Execute(ctx, request))

	decide := relay.Sign(relayDomain, f.providerKey, 0, delegationAction(ActionDelegate, "approved"))
	require.NoError(t, f.dispatcher.Execute(ctx, decide))

	approved, err := f.gateway.ListCreditorsByStatus(ctx, debtorNIK, domain.StatusApproved)
	require.NoError(t, err)
	assert.Len(t, approved, 2)
}

func TestSignedDispatch_EmitsAuditEvent(t *testing.T) {
	f := newRelayFixture(t)
	ctx := context.Background()

	// Fixture setup emits registration events; clear them first.
	for range 4 {
		drainOne(t, f.auditor)
	}

	env := relay.Sign(relayDomain, f.consumerKey, 0, delegationAction(ActionRequestDelegation, ""))
	require.NoError(t, f.dispatcher.Execute(ctx, env))

	event := drainOne(t, f.auditor)
	assert.Equal(t, audit.ActionDelegationRequested, event.Action)

	event = drainOne(t, f.auditor)
	assert.Equal(t, audit.ActionSignedDispatch, event.Action)
	assert.Equal(t, env.Signer.String(), event.Actor)
	assert.Equal(t, ActionRequestDelegation, event.Metadata)
}

func TestSignedDispatch_RoleBindingHolds(t *testing.T) {
	f := newRelayFixture(t)
	ctx := context.Background()

	// The provider signs a request naming the consumer: the ledger must see
	// the provider as caller and refuse.
	env := relay.Sign(relayDomain, f.providerKey, 0, delegationAction(ActionRequestDelegation, ""))
	err := f.dispatcher.Execute(ctx, env)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))

	// The failed action did not burn the provider's nonce.
	request := relay.Sign(relayDomain, f.consumerKey, 0, delegationAction(ActionRequestDelegation, ""))
	require.NoError(t, f.dispatcher.Execute(ctx, request))
	decide := relay.Sign(relayDomain, f.providerKey, 0, delegationAction(ActionDelegate, "rejected"))
	require.NoError(t, f.dispatcher.Execute(ctx, decide))
}

func TestSignedDispatch_PlatformActionDeniedToCreditor(t *testing.T) {
	f := newRelayFixture(t)

	args, err := json.Marshal(map[string]string{
		"code":    domain.HashIdentifier("BANK-NEW").String(),
		"address": domain.Address{0x77}.String(),
		"name":    "New Bank",
	})
	require.NoError(t, err)

	env := relay.Sign(relayDomain, f.consumerKey, 0, relay.Action{Name: ActionAddCreditor, Args: args})
	err = f.dispatcher.Execute(context.Background(), env)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestInvoke_UnknownAction(t *testing.T) {
	f := newRelayFixture(t)

	env := relay.Sign(relayDomain, f.consumerKey, 0, relay.Action{Name: "drop_tables", Args: json.RawMessage(`{}`)})
	err := f.dispatcher.Execute(context.Background(), env)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
}

func TestInvoke_MalformedArgs(t *testing.T) {
	f := newRelayFixture(t)

	env := relay.Sign(relayDomain, f.consumerKey, 0, relay.Action{Name: ActionAddCreditor, Args: json.RawMessage(`{`)})
	err := f.dispatcher.Execute(context.Background(), env)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
}
