package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokensRoundTrip(t *testing.T) {
	tokens := NewTokens("secret", time.Hour)
	token, err := tokens.Issue("abc")
	require.NoError(t, err)

	id, err := tokens.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "abc", id)
}

func TestTokensRejectWrongSecret(t *testing.T) {
	token, err := NewTokens("one", 0).Issue("abc")
	require.NoError(t, err)

	_, err = NewTokens("two", 0).Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokensRejectExpired(t *testing.T) {
	tokens := NewTokens("secret", time.Minute)
	tokens.now = func() time.Time { return t0 }
	token, err := tokens.Issue("abc")
	require.NoError(t, err)

	tokens.now = func() time.Time { return t0.Add(2 * time.Minute) }
	_, err = tokens.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokensRejectForeignIssuerAndMissingSubject(t *testing.T) {
	tokens := NewTokens("secret", 0)

	foreign, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: "abc",
		Issuer:  "someone-else",
	}).SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = tokens.Parse(foreign)
	assert.ErrorIs(t, err, ErrInvalidToken)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer: tokenIssuer,
	}).SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = tokens.Parse(noSubject)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
