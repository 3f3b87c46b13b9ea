package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSignerSignAndVerify(t *testing.T) {
	signer := NewSigner("secret", time.Hour)
	token, expiresAt, err := signer.Sign("occupancy/block-1.pdf")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.False(t, expiresAt.IsZero())

	path, err := signer.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "occupancy/block-1.pdf", path)
}

func TestSignerRejectsTamperedToken(t *testing.T) {
	signer := NewSigner("secret", time.Hour)
	token, _, err := signer.Sign("occupancy/block-1.pdf")
	require.NoError(t, err)

	_, err = signer.Verify(token + "x")
	require.Error(t, err)
}

func TestSignerRejectsExpiredToken(t *testing.T) {
	signer := NewSigner("secret", -time.Minute)
	token, _, err := signer.Sign("occupancy/block-1.pdf")
	require.NoError(t, err)

	_, err = signer.Verify(token)
	require.Error(t, err)
}
