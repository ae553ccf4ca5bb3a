package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "kustodia/pkg/domainerrors"
)

func TestParseStatus(t *testing.T) {
	for _, valid := range []string{"none", "pending", "approved", "rejected"} {
		status, err := ParseStatus(valid)
		require.NoError(t, err)
		assert.Equal(t, Status(valid), status)
	}

	_, err := ParseStatus("revoked")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
}

func TestStatusTerminal(t *testing.T) {
	assert.False(t, StatusNone.Terminal())
	assert.False(t, StatusPending.Terminal())
	assert.True(t, StatusApproved.Terminal())
	assert.True(t, StatusRejected.Terminal())
}

func TestParseDecision(t *testing.T) {
	approved, err := ParseDecision("approved")
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, approved.Status())

	rejected, err := ParseDecision("rejected")
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, rejected.Status())

	_, err = ParseDecision("pending")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
}
