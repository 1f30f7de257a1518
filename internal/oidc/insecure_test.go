package oidc

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func unsignedJWT(t *testing.T, claims map[string]interface{}) string {
	t.Helper()
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"none","typ":"JWT"}`))
	b, err := json.Marshal(claims)
	require.NoError(t, err)
	payload := base64.RawURLEncoding.EncodeToString(b)
	return header + "." + payload + "."
}

func TestInsecureVerifier_ParsesClaims(t *testing.T) {
	raw := unsignedJWT(t, map[string]interface{}{
		"preferred_username": "ivan",
		"realm_access":       map[string]interface{}{"roles": []string{"MODERATOR"}},
	})

	tok, err := NewInsecureVerifier().Verify(context.Background(), raw)
	require.NoError(t, err)

	var claims map[string]interface{}
	require.NoError(t, tok.Claims(&claims))
	require.Equal(t, "ivan", claims["preferred_username"])
	ra, ok := claims["realm_access"].(map[string]interface{})
	require.True(t, ok)
	require.Contains(t, ra["roles"], "MODERATOR")
}

func TestInsecureVerifier_RejectsGarbage(t *testing.T) {
	_, err := NewInsecureVerifier().Verify(context.Background(), "not-a-jwt")
	require.Error(t, err)
}
