package identity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kustodia/pkg/domain"
	dErrors "kustodia/pkg/domainerrors"
)

var (
	creditorCode = domain.HashIdentifier("BANK-001")
	debtorNIK    = domain.HashIdentifier("3201011503890002")
	someAddress  = domain.Address{0x01, 0x02, 0x03}
	otherAddress = domain.Address{0x04, 0x05, 0x06}
)

func newTestService() *Service {
	return NewService(NewInMemory())
}

func TestAddCreditor(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	c, err := svc.AddCreditor(ctx, creditorCode, someAddress, "First Bank")
	require.NoError(t, err)
	assert.Equal(t, creditorCode, c.Code)
	assert.Equal(t, someAddress, c.Address)

	addr, err := svc.ResolveCreditor(ctx, creditorCode)
	require.NoError(t, err)
	assert.Equal(t, someAddress, addr)
}

func TestAddCreditor_Duplicate(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.AddCreditor(ctx, creditorCode, someAddress, "First Bank")
	require.NoError(t, err)

	_, err = svc.AddCreditor(ctx, creditorCode, otherAddress, "Impostor Bank")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeAlreadyExists))

	// The original mapping must survive the failed re-registration.
	addr, err := svc.ResolveCreditor(ctx, creditorCode)
	require.NoError(t, err)
	assert.Equal(t, someAddress, addr)
}

func TestAddCreditor_ZeroGuards(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.AddCreditor(ctx, domain.Hash32{}, someAddress, "")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidIdentifier))

	_, err = svc.AddCreditor(ctx, creditorCode, domain.Address{}, "")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidAddress))

	// Neither failure may leave a partial record behind.
	addr, err := svc.ResolveCreditor(ctx, creditorCode)
	require.NoError(t, err)
	assert.True(t, addr.IsZero())
}

func TestRemoveCreditor(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.AddCreditor(ctx, creditorCode, someAddress, "First Bank")
	require.NoError(t, err)

	require.NoError(t, svc.RemoveCreditor(ctx, creditorCode))

	addr, err := svc.ResolveCreditor(ctx, creditorCode)
	require.NoError(t, err)
	assert.True(t, addr.IsZero())

	err = svc.RemoveCreditor(ctx, creditorCode)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestRemoveCreditor_ThenReregister(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.AddCreditor(ctx, creditorCode, someAddress, "First Bank")
	require.NoError(t, err)
	require.NoError(t, svc.RemoveCreditor(ctx, creditorCode))

	_, err = svc.AddCreditor(ctx, creditorCode, otherAddress, "Second Bank")
	require.NoError(t, err)

	addr, err := svc.ResolveCreditor(ctx, creditorCode)
	require.NoError(t, err)
	assert.Equal(t, otherAddress, addr)
}

func TestAddDebtor(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	d, err := svc.AddDebtor(ctx, debtorNIK, someAddress)
	require.NoError(t, err)
	assert.Equal(t, debtorNIK, d.NIK)

	_, err = svc.AddDebtor(ctx, debtorNIK, otherAddress)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeAlreadyExists))

	require.NoError(t, svc.RemoveDebtor(ctx, debtorNIK))
	err = svc.RemoveDebtor(ctx, debtorNIK)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestGetCreditor_NotFound(t *testing.T) {
	svc := newTestService()

	_, err := svc.GetCreditor(context.Background(), creditorCode)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestRequireGuards(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.RequireCreditor(ctx, creditorCode)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotEligible))

	_, err = svc.RequireDebtor(ctx, debtorNIK)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNikNotRegistered))

	_, err = svc.AddCreditor(ctx, creditorCode, someAddress, "First Bank")
	require.NoError(t, err)
	_, err = svc.AddDebtor(ctx, debtorNIK, otherAddress)
	require.NoError(t, err)

	got, err := svc.RequireCreditor(ctx, creditorCode)
	require.NoError(t, err)
	assert.Equal(t, someAddress, got)

	got, err = svc.RequireDebtor(ctx, debtorNIK)
	require.NoError(t, err)
	assert.Equal(t, otherAddress, got)
}
