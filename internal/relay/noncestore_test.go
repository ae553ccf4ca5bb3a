package relay

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kustodia/pkg/domain"
	"kustodia/pkg/platform/sentinel"
)

func TestInMemoryNonceStore(t *testing.T) {
	store := NewInMemoryNonceStore()
	ctx := context.Background()
	signer := domain.Address{0x01}

	n, err := store.Get(ctx, signer)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), n, "unseen signer starts at zero")

	require.NoError(t, store.Increment(ctx, signer, 0))

	n, err = store.Get(ctx, signer)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), n)

	err = store.Increment(ctx, signer, 0)
	assert.ErrorIs(t, err, sentinel.ErrStaleNonce)

	err = store.Increment(ctx, signer, 5)
	assert.ErrorIs(t, err, sentinel.ErrStaleNonce)

	// A second signer advances independently.
	other := domain.Address{0x02}
	require.NoError(t, store.Increment(ctx, other, 0))
	n, err = store.Get(ctx, signer)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), n)
}
