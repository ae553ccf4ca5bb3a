package delegation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kustodia/internal/identity"
	"kustodia/pkg/domain"
	dErrors "kustodia/pkg/domainerrors"
	"kustodia/pkg/requestcontext"
)

var (
	nik          = domain.HashIdentifier("3201011503890002")
	consumerCode = domain.HashIdentifier("BANK-CONSUMER")
	providerCode = domain.HashIdentifier("BANK-PROVIDER")
	otherCode    = domain.HashIdentifier("BANK-OTHER")

	debtorAddr   = domain.Address{0x0d}
	consumerAddr = domain.Address{0x0c}
	providerAddr = domain.Address{0x0b}
	otherAddr    = domain.Address{0x0a}
	strangerAddr = domain.Address{0x0e}
)

type fixture struct {
	identities  *identity.Service
	delegations *Service
	store       *InMemory
}

// newFixture registers the debtor plus consumer/provider/other creditors and
// grants the provider approved access through the bootstrap path.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	identities := identity.NewService(identity.NewInMemory())
	_, err := identities.AddDebtor(ctx, nik, debtorAddr)
	require.NoError(t, err)
	_, err = identities.AddCreditor(ctx, consumerCode, consumerAddr, "Consumer Bank")
	require.NoError(t, err)
	_, err = identities.AddCreditor(ctx, providerCode, providerAddr, "Provider Bank")
	require.NoError(t, err)
	_, err = identities.AddCreditor(ctx, otherCode, otherAddr, "Other Bank")
	require.NoError(t, err)

	store := NewInMemory()
	delegations := NewService(identities, store, nil)
	_, err = delegations.AddCreditorForDebtor(ctx, nik, providerCode)
	require.NoError(t, err)

	return &fixture{identities: identities, delegations: delegations, store: store}
}

func asCaller(addr domain.Address) context.Context {
	return requestcontext.WithCaller(context.Background(), addr)
}

func TestAddCreditorForDebtor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	statuses, err := f.delegations.ListCreditorStatuses(ctx, nik)
	require.NoError(t, err)
	require.Len(t, statuses, 1)
	assert.Equal(t, providerAddr, statuses[0].Creditor)
	assert.Equal(t, domain.StatusApproved, statuses[0].Status)

	// Bootstrapping the same creditor twice must fail.
	_, err = f.delegations.AddCreditorForDebtor(ctx, nik, providerCode)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeAlreadyExists))
}

func TestAddCreditorForDebtor_UnknownParties(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.delegations.AddCreditorForDebtor(ctx, domain.HashIdentifier("unknown-nik"), providerCode)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNikNotRegistered))

	_, err = f.delegations.AddCreditorForDebtor(ctx, nik, domain.HashIdentifier("unknown-code"))
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotEligible))
}

func TestRequestDelegation(t *testing.T) {
	f := newFixture(t)

	req, err := f.delegations.RequestDelegation(asCaller(consumerAddr), nik, consumerCode, providerCode, "loan check")
	require.NoError(t, err)
	assert.Equal(t, consumerAddr, req.Consumer)
	assert.Equal(t, providerAddr, req.Provider)
	assert.Equal(t, domain.StatusPending, req.Status)

	// The consumer shows up in the ledger as pending.
	statuses, err := f.delegations.ListCreditorStatuses(context.Background(), nik)
	require.NoError(t, err)
	require.Len(t, statuses, 2)
	assert.Equal(t, providerAddr, statuses[0].Creditor)
	assert.Equal(t, consumerAddr, statuses[1].Creditor)
	assert.Equal(t, domain.StatusPending, statuses[1].Status)
}

func TestRequestDelegation_CallerMustBeConsumer(t *testing.T) {
	f := newFixture(t)

	_, err := f.delegations.RequestDelegation(asCaller(strangerAddr), nik, consumerCode, providerCode, "")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))

	_, err = f.delegations.RequestDelegation(context.Background(), nik, consumerCode, providerCode, "")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestRequestDelegation_ProviderMustBeApproved(t *testing.T) {
	f := newFixture(t)

	// otherCode is registered but holds no approved access for the debtor.
	_, err := f.delegations.RequestDelegation(asCaller(consumerAddr), nik, consumerCode, otherCode, "")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeProviderNotEligible))
}

func TestRequestDelegation_DuplicatePair(t *testing.T) {
	f := newFixture(t)

	_, err := f.delegations.RequestDelegation(asCaller(consumerAddr), nik, consumerCode, providerCode, "")
	require.NoError(t, err)

	_, err = f.delegations.RequestDelegation(asCaller(consumerAddr), nik, consumerCode, providerCode, "")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeRequestAlreadyExists))
}

func TestDelegate_Approve(t *testing.T) {
	f := newFixture(t)

	_, err := f.delegations.RequestDelegation(asCaller(consumerAddr), nik, consumerCode, providerCode, "")
	require.NoError(t, err)

	req, err := f.delegations.Delegate(asCaller(providerAddr), nik, consumerCode, providerCode, domain.DecisionApproved, "")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, req.Status)
	require.NotNil(t, req.ResolvedAt)

	approved, err := f.delegations.ListCreditorsByStatus(context.Background(), nik, domain.StatusApproved)
	require.NoError(t, err)
	assert.ElementsMatch(t, []domain.Address{providerAddr, consumerAddr}, approved)
}

func TestDelegate_Reject(t *testing.T) {
	f := newFixture(t)

	_, err := f.delegations.RequestDelegation(asCaller(consumerAddr), nik, consumerCode, providerCode, "")
	require.NoError(t, err)

	req, err := f.delegations.Delegate(asCaller(providerAddr), nik, consumerCode, providerCode, domain.DecisionRejected, "")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, req.Status)

	rejected, err := f.delegations.ListCreditorsByStatus(context.Background(), nik, domain.StatusRejected)
	require.NoError(t, err)
	assert.Equal(t, []domain.Address{consumerAddr}, rejected)

	// Rejection is terminal for the pair: no new request may be opened.
	_, err = f.delegations.RequestDelegation(asCaller(consumerAddr), nik, consumerCode, providerCode, "")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeRequestAlreadyExists))
}

func TestDelegate_PersistsDecisionMetadata(t *testing.T) {
	f := newFixture(t)

	_, err := f.delegations.RequestDelegation(asCaller(consumerAddr), nik, consumerCode, providerCode, "loan check")
	require.NoError(t, err)

	req, err := f.delegations.Delegate(asCaller(providerAddr), nik, consumerCode, providerCode, domain.DecisionApproved, "risk cleared")
	require.NoError(t, err)
	assert.Equal(t, "risk cleared", req.Metadata)

	// The stored record must match what the caller was told.
	stored, err := f.store.FindRequest(context.Background(), consumerAddr, providerAddr)
	require.NoError(t, err)
	assert.Equal(t, "risk cleared", stored.Metadata)
}

func TestDelegate_CallerMustBeProvider(t *testing.T) {
	f := newFixture(t)

	_, err := f.delegations.RequestDelegation(asCaller(consumerAddr), nik, consumerCode, providerCode, "")
	require.NoError(t, err)

	_, err = f.delegations.Delegate(asCaller(consumerAddr), nik, consumerCode, providerCode, domain.DecisionApproved, "")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestDelegate_NoRequest(t *testing.T) {
	f := newFixture(t)

	_, err := f.delegations.Delegate(asCaller(providerAddr), nik, consumerCode, providerCode, domain.DecisionApproved, "")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidRequestState))
}

func TestDelegate_AlreadyResolved(t *testing.T) {
	f := newFixture(t)

	_, err := f.delegations.RequestDelegation(asCaller(consumerAddr), nik, consumerCode, providerCode, "")
	require.NoError(t, err)
	_, err = f.delegations.Delegate(asCaller(providerAddr), nik, consumerCode, providerCode, domain.DecisionApproved, "")
	require.NoError(t, err)

	_, err = f.delegations.Delegate(asCaller(providerAddr), nik, consumerCode, providerCode, domain.DecisionRejected, "")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeRequestAlreadyResolved))
}

func TestDelegate_WrongDebtor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	otherNIK := domain.HashIdentifier("3201011503890099")
	_, err := f.identities.AddDebtor(ctx, otherNIK, domain.Address{0x1f})
	require.NoError(t, err)
	_, err = f.delegations.AddCreditorForDebtor(ctx, otherNIK, providerCode)
	require.NoError(t, err)

	_, err = f.delegations.RequestDelegation(asCaller(consumerAddr), nik, consumerCode, providerCode, "")
	require.NoError(t, err)

	// The stored request names nik, not otherNIK.
	_, err = f.delegations.Delegate(asCaller(providerAddr), otherNIK, consumerCode, providerCode, domain.DecisionApproved, "")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidRequestState))
}

func TestListCreditorStatuses_UnknownDebtor(t *testing.T) {
	f := newFixture(t)

	_, err := f.delegations.ListCreditorStatuses(context.Background(), domain.HashIdentifier("unknown"))
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNikNotRegistered))
}

func TestListCreditorsByStatus_EmptyResult(t *testing.T) {
	f := newFixture(t)

	pending, err := f.delegations.ListCreditorsByStatus(context.Background(), nik, domain.StatusPending)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestEnumerationOrderIsFirstSeen(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// provider first (bootstrap), then consumer, then other via bootstrap.
	_, err := f.delegations.RequestDelegation(asCaller(consumerAddr), nik, consumerCode, providerCode, "")
	require.NoError(t, err)
	_, err = f.delegations.AddCreditorForDebtor(ctx, nik, otherCode)
	require.NoError(t, err)

	// A status change must not move the consumer's position.
	_, err = f.delegations.Delegate(asCaller(providerAddr), nik, consumerCode, providerCode, domain.DecisionApproved, "")
	require.NoError(t, err)

	statuses, err := f.delegations.ListCreditorStatuses(ctx, nik)
	require.NoError(t, err)
	require.Len(t, statuses, 3)
	assert.Equal(t, providerAddr, statuses[0].Creditor)
	assert.Equal(t, consumerAddr, statuses[1].Creditor)
	assert.Equal(t, otherAddr, statuses[2].Creditor)
	assert.Equal(t, domain.StatusApproved, statuses[1].Status)
}
