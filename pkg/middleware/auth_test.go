package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// fakeToken implements Token
type fakeToken struct {
	data map[string]interface{}
}

func (t *fakeToken) Claims(v interface{}) error {
	b, err := json.Marshal(t.data)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}

// fakeVerifier implements Verifier
type fakeVerifier struct{}

func (f *fakeVerifier) Verify(ctx context.Context, raw string) (Token, error) {
	if raw == "goodtoken" {
		return &fakeToken{data: map[string]interface{}{
			"preferred_username": "alice",
			"realm_access":       map[string]interface{}{"roles": []interface{}{"MODERATOR", "USER"}},
		}}, nil
	}
	return nil, fmt.Errorf("invalid token")
}

func TestAuthMiddleware_NoHeader(t *testing.T) {
	g := gin.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rw := httptest.NewRecorder()

	g.GET("/", AuthMiddleware(&fakeVerifier{}), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	g.ServeHTTP(rw, req)

	require.Equal(t, http.StatusUnauthorized, rw.Code)
}

func TestAuthMiddleware_InvalidHeader(t *testing.T) {
	g := gin.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "BadHeader")
	rw := httptest.NewRecorder()

	g.GET("/", AuthMiddleware(&fakeVerifier{}), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	g.ServeHTTP(rw, req)

	require.Equal(t, http.StatusUnauthorized, rw.Code)
}

func TestAuthMiddleware_BadToken(t *testing.T) {
	g := gin.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer wrongtoken")
	rw := httptest.NewRecorder()

	g.GET("/", AuthMiddleware(&fakeVerifier{}), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	g.ServeHTTP(rw, req)

	require.Equal(t, http.StatusUnauthorized, rw.Code)
}

func TestAuthMiddleware_ValidTokenAttachesIdentity(t *testing.T) {
	g := gin.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer goodtoken")
	rw := httptest.NewRecorder()

	var got CallerIdentity
	var ok bool
	g.GET("/", AuthMiddleware(&fakeVerifier{}), func(c *gin.Context) {
		got, ok = Identity(c)
		c.Status(http.StatusOK)
	})
	g.ServeHTTP(rw, req)

	require.Equal(t, http.StatusOK, rw.Code)
	require.True(t, ok)
	require.Equal(t, "alice", got.Username)
	require.Equal(t, []string{"MODERATOR", "USER"}, got.Roles)
}

func TestIdentityFromClaims(t *testing.T) {
	ident := IdentityFromClaims(map[string]interface{}{
		"preferred_username": "bob",
		"realm_access":       map[string]interface{}{"roles": []interface{}{"USER"}},
	})
	require.Equal(t, "bob", ident.Username)
	require.Equal(t, []string{"USER"}, ident.Roles)

	// claims without realm_access yield an identity with no roles
	empty := IdentityFromClaims(map[string]interface{}{"preferred_username": "carol"})
	require.Equal(t, "carol", empty.Username)
	require.Empty(t, empty.Roles)
}
