package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifier_RoundTrip(t *testing.T) {
	v := NewVerifier("secret", "")

	token, err := v.Issue(Claims{UserID: 42, IsDealer: true, Username: "dealer"}, time.Hour)
	require.NoError(t, err)

	claims, err := v.Verify(token)
	require.NoError(t, err)
	id, err := claims.ID()
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	assert.True(t, claims.IsDealer)
}

func TestVerifier_SubjectFallback(t *testing.T) {
	v := NewVerifier("secret", "HS256")

	token, err := v.Issue(Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "17"}}, time.Hour)
	require.NoError(t, err)

	claims, err := v.Verify(token)
	require.NoError(t, err)
	id, err := claims.ID()
	require.NoError(t, err)
	assert.Equal(t, int64(17), id)
}

func TestVerifier_Rejects(t *testing.T) {
	v := NewVerifier("secret", "HS256")
	other := NewVerifier("other-secret", "HS256")

	foreign, err := other.Issue(Claims{UserID: 1}, time.Hour)
	require.NoError(t, err)
	expired, err := v.Issue(Claims{UserID: 1}, -time.Minute)
	require.NoError(t, err)
	anonymous, err := v.Issue(Claims{}, time.Hour)
	require.NoError(t, err)

	for name, token := range map[string]string{
		"empty":      "",
		"garbage":    "not-a-jwt",
		"wrong key":  foreign,
		"expired":    expired,
		"no user id": anonymous,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := v.Verify(token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}
