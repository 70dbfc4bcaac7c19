package jwtx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSignAndVerifyRoundTrip(t *testing.T) {
	t.Parallel()

	kp, err := GenerateKeypair("key-1", "membership")
	require.NoError(t, err)

	claims := NewSessionClaims(
		"user-123", "org-456", "org_admin", "Alice",
		time.Hour, "membership", time.Now().UTC(),
	)

	token, err := kp.Sign(claims)
	require.NoError(t, err)

	parsed, err := kp.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "user-123", parsed.Subject)
	require.Equal(t, "org-456", parsed.OrganizationID)
	require.Equal(t, "org_admin", parsed.Role)
	require.NoError(t, parsed.ValidateExpiry())
}

func TestVerifyRejectsForeignKey(t *testing.T) {
	t.Parallel()

	a, err := GenerateKeypair("key-a", "membership")
	require.NoError(t, err)
	b, err := GenerateKeypair("key-b", "membership")
	require.NoError(t, err)

	token, err := a.Sign(NewSessionClaims(
		"user-123", "org-456", "user", "Bob",
		time.Hour, "membership", time.Now().UTC(),
	))
	require.NoError(t, err)

	_, err = b.Verify(token)
	require.Error(t, err)
}

func TestVerifyRejectsWrongIssuer(t *testing.T) {
	t.Parallel()

	kp, err := GenerateKeypair("key-1", "expected-issuer")
	require.NoError(t, err)

	token, err := kp.Sign(NewSessionClaims(
		"user-123", "org-456", "user", "Bob",
		time.Hour, "someone-else", time.Now().UTC(),
	))
	require.NoError(t, err)

	_, err = kp.Verify(token)
	require.ErrorIs(t, err, ErrIssuer)
}

func TestValidateExpiry(t *testing.T) {
	t.Parallel()

	expired := NewSessionClaims(
		"user-123", "org-456", "user", "Bob",
		-time.Minute, "membership", time.Now().UTC().Add(-time.Hour),
	)
	require.ErrorIs(t, expired.ValidateExpiry(), ErrExpired)
}
