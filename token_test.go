package authclient_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	authclient "github.com/goliatone/go-auth-client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTokenClaims(t *testing.T) {
	exp := epoch.Add(24 * time.Hour)
	token := signToken(t, jwt.MapClaims{
		"sub":  "user-1",
		"uid":  "42",
		"role": "admin",
		"exp":  exp.Unix(),
	})

	claims, err := authclient.ParseTokenClaims(token)
	require.NoError(t, err)
	assert.Equal(t, "42", claims.UserID())
	assert.Equal(t, "admin", claims.UserRole)
	assert.Equal(t, "user-1", claims.Subject)
	assert.True(t, exp.Equal(claims.Expires()))
}

func TestParseTokenClaimsFallsBackToSubject(t *testing.T) {
	claims, err := authclient.ParseTokenClaims(signToken(t, jwt.MapClaims{"sub": "user-1"}))
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID())
	assert.True(t, claims.Expires().IsZero())
}

func TestParseTokenClaimsRejectsOpaqueTokens(t *testing.T) {
	_, err := authclient.ParseTokenClaims("")
	assert.Same(t, authclient.ErrNoActiveSession, err)

	_, err = authclient.ParseTokenClaims("0f9a7c1e2d")
	assert.Error(t, err)

	_, err = authclient.ParseTokenClaims("a.b.c")
	assert.Error(t, err)
}

func TestIdentityTokenExpiry(t *testing.T) {
	exp := epoch.Add(time.Hour)
	identity := authclient.Identity{Token: signToken(t, jwt.MapClaims{"exp": exp.Unix()})}

	got, ok := identity.TokenExpiry()
	require.True(t, ok)
	assert.True(t, exp.Equal(got))
	assert.False(t, identity.TokenExpired(epoch))
	assert.True(t, identity.TokenExpired(exp))

	opaque := authclient.Identity{Token: "opaque"}
	_, ok = opaque.TokenExpiry()
	assert.False(t, ok)
	assert.False(t, opaque.TokenExpired(exp.Add(time.Hour)))
}
