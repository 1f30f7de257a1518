package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/itmspace/user-gateway/pkg/metrics"
)

// RolePolicy maps an endpoint identifier to the role names allowed to call
// it. Built once at startup and read-only afterwards, so concurrent reads
// need no locking. An endpoint missing from the policy is denied.
type RolePolicy map[string][]string

// Allowed reports whether the identity's role set intersects the policy
// entry for the endpoint. Unknown endpoints fail closed.
func (p RolePolicy) Allowed(endpoint string, ident CallerIdentity) bool {
	required, ok := p[endpoint]
	if !ok {
		return false
	}
	for _, have := range ident.Roles {
		for _, want := range required {
			if have == want {
				return true
			}
		}
	}
	return false
}

// RequireRole returns a middleware enforcing the policy entry for one
// endpoint. It runs after AuthMiddleware and before any handler logic, so a
// forbidden caller never triggers an identity provider call.
func RequireRole(policy RolePolicy, endpoint string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, ok := Identity(c)
		if !ok || !policy.Allowed(endpoint, ident) {
			metrics.AuthzDenied.WithLabelValues(endpoint).Inc()
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden", "message": "caller lacks a required role"})
			return
		}
		c.Next()
	}
}
