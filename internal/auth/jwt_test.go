package auth

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateTokens(t *testing.T) {
	a := NewJWTAuthenticator("access-secret", "refresh-secret", "studiobook", "studiobook")

	access, refresh, err := a.GenerateTokens(10, "6f1c1bf0-0000-4000-8000-000000000001", "client")
	require.NoError(t, err)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)

	parsed, err := a.ValidateAccessToken(access)
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, float64(10), claims["sub"])
	assert.Equal(t, "6f1c1bf0-0000-4000-8000-000000000001", claims["tid"])
	assert.Equal(t, "client", claims["role"])

	parsedRefresh, err := a.ValidateRefreshToken(refresh)
	require.NoError(t, err)
	assert.True(t, parsedRefresh.Valid)
}

func TestValidateAccessToken_RejectsCrossSecret(t *testing.T) {
	issuer := NewJWTAuthenticator("secret-a", "refresh-a", "studiobook", "studiobook")
	verifier := NewJWTAuthenticator("secret-b", "refresh-b", "studiobook", "studiobook")

	access, _, err := issuer.GenerateTokens(10, "6f1c1bf0-0000-4000-8000-000000000001", "client")
	require.NoError(t, err)

	_, err = verifier.ValidateAccessToken(access)
	assert.Error(t, err)

	// A refresh token is not an access token.
	_, refresh, err := issuer.GenerateTokens(10, "6f1c1bf0-0000-4000-8000-000000000001", "client")
	require.NoError(t, err)
	_, err = issuer.ValidateAccessToken(refresh)
	assert.Error(t, err)
}
