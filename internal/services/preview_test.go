package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreviewSignerRoundTrip(t *testing.T) {
	signer := NewPreviewSigner("test-secret", 5)

	token, err := signer.Mint("post-1")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	postID, err := signer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "post-1", postID)
}

func TestPreviewSignerRejects(t *testing.T) {
	signer := NewPreviewSigner("test-secret", 5)

	t.Run("garbage token", func(t *testing.T) {
		_, err := signer.Verify("not-a-token")
		assert.ErrorIs(t, err, ErrPreviewToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewPreviewSigner("other-secret", 5)
		token, err := other.Mint("post-1")
		require.NoError(t, err)

		_, err = signer.Verify(token)
		assert.ErrorIs(t, err, ErrPreviewToken)
	})

	t.Run("expired token", func(t *testing.T) {
		expired := NewPreviewSigner("test-secret", 5)
		expired.ttl = -time.Minute

		token, err := expired.Mint("post-1")
		require.NoError(t, err)

		_, err = signer.Verify(token)
		assert.ErrorIs(t, err, ErrPreviewToken)
	})
}
