package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"booksphere/apperrors"
)

func TestTokenRoundTrip(t *testing.T) {
	tokens := NewTokenService("test-secret", time.Hour)

	tokenStr, err := tokens.Generate("seller1", "seller")
	require.NoError(t, err)
	require.NotEmpty(t, tokenStr)

	claims, err := tokens.Validate(tokenStr)
	require.NoError(t, err)
	assert.Equal(t, "seller1", claims.Username)
	assert.Equal(t, "seller", claims.Role)
}

func TestTokenExpired(t *testing.T) {
	tokens := NewTokenService("test-secret", -time.Minute)

	tokenStr, err := tokens.Generate("user1", "user")
	require.NoError(t, err)

	_, err = tokens.Validate(tokenStr)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
}

func TestTokenWrongSecret(t *testing.T) {
	issuer := NewTokenService("issuer-secret", time.Hour)
	verifier := NewTokenService("other-secret", time.Hour)

	tokenStr, err := issuer.Generate("user1", "user")
	require.NoError(t, err)

	_, err = verifier.Validate(tokenStr)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestTokenGarbageInput(t *testing.T) {
	tokens := NewTokenService("test-secret", time.Hour)

	_, err := tokens.Validate("not-a-jwt")
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}
