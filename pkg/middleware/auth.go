package middleware

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Token is minimal interface for a verified token that can expose claims
type Token interface {
	Claims(v interface{}) error
}

// Verifier is the minimal interface the middleware depends on
type Verifier interface {
	Verify(ctx context.Context, raw string) (Token, error)
}

// CallerIdentity is the authenticated caller's view this service acts on.
// It is built from verified token claims by the auth middleware; nothing
// downstream reads ambient request state.
type CallerIdentity struct {
	Username string
	Roles    []string
}

// IdentityFromClaims extracts the caller identity from OIDC claims. Realm
// roles live under realm_access.roles in Keycloak tokens.
func IdentityFromClaims(claims map[string]interface{}) CallerIdentity {
	ident := CallerIdentity{}
	if v, ok := claims["preferred_username"].(string); ok {
		ident.Username = v
	}
	ra, ok := claims["realm_access"].(map[string]interface{})
	if !ok {
		return ident
	}
	roles, ok := ra["roles"].([]interface{})
	if !ok {
		return ident
	}
	for _, r := range roles {
		if s, ok := r.(string); ok {
			ident.Roles = append(ident.Roles, s)
		}
	}
	return ident
}

// AuthMiddleware returns a Gin middleware that verifies Bearer tokens using
// the provided verifier and attaches the claims and the derived
// CallerIdentity to the request context.
func AuthMiddleware(ver Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "message": "missing Authorization header"})
			return
		}
		// Expect 'Bearer <token>'
		var token string
		if n, _ := fmt.Sscanf(auth, "Bearer %s", &token); n != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "message": "invalid Authorization header"})
			return
		}

		idToken, err := ver.Verify(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "message": "invalid token"})
			return
		}

		var claims map[string]interface{}
		if err := idToken.Claims(&claims); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "message": "failed to parse claims"})
			return
		}

		c.Set("claims", claims)
		c.Set("identity", IdentityFromClaims(claims))
		c.Next()
	}
}

// Identity returns the CallerIdentity stored by AuthMiddleware. The second
// result is false when the request never passed authentication.
func Identity(c *gin.Context) (CallerIdentity, bool) {
	v, ok := c.Get("identity")
	if !ok {
		return CallerIdentity{}, false
	}
	ident, ok := v.(CallerIdentity)
	return ident, ok
}
