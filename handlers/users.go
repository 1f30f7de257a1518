package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/itmspace/user-gateway/internal/apperr"
	"github.com/itmspace/user-gateway/internal/users"
	"github.com/itmspace/user-gateway/pkg/logger"
	"github.com/itmspace/user-gateway/pkg/middleware"
)

// Endpoint identifiers used as RolePolicy keys.
const (
	EndpointUserCreate = "users:create"
	EndpointUserGet    = "users:get"
	EndpointUserSearch = "users:search"
	EndpointUserDelete = "users:delete"
	EndpointUserHello  = "users:hello"
)

// DefaultRolePolicy grants every user endpoint to the moderator role. Built
// once in main and never mutated afterwards.
func DefaultRolePolicy() middleware.RolePolicy {
	return middleware.RolePolicy{
		EndpointUserCreate: {"MODERATOR"},
		EndpointUserGet:    {"MODERATOR"},
		EndpointUserSearch: {"MODERATOR"},
		EndpointUserDelete: {"MODERATOR"},
		EndpointUserHello:  {"MODERATOR"},
	}
}

// UserHandler holds dependencies
type UserHandler struct {
	svc *users.Service
}

func NewUserHandler(svc *users.Service) *UserHandler {
	return &UserHandler{svc: svc}
}

// Register routes under /api/users. Every route runs the auth middleware and
// its role guard before the handler, so unauthorized callers never reach the
// identity provider.
func (h *UserHandler) Register(rg *gin.RouterGroup, auth gin.HandlerFunc, policy middleware.RolePolicy) {
	g := rg.Group("/api/users")
	g.Use(auth)
	g.POST("", middleware.RequireRole(policy, EndpointUserCreate), h.Create)
	g.GET("", middleware.RequireRole(policy, EndpointUserSearch), h.Search)
	g.GET("/hello", middleware.RequireRole(policy, EndpointUserHello), h.Hello)
	g.GET("/:id", middleware.RequireRole(policy, EndpointUserGet), h.Get)
	g.DELETE("/:id", middleware.RequireRole(policy, EndpointUserDelete), h.Delete)
}

// Create handles POST /api/users
func (h *UserHandler) Create(c *gin.Context) {
	var req users.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": apperr.KindValidation, "message": "request body is not valid JSON"})
		return
	}
	id, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id})
}

// Get handles GET /api/users/:id
func (h *UserHandler) Get(c *gin.Context) {
	profile, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// Search handles GET /api/users?username=<name>
func (h *UserHandler) Search(c *gin.Context) {
	username := c.Query("username")
	if username == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": apperr.KindValidation, "message": "username query parameter is required"})
		return
	}
	reps, err := h.svc.Search(c.Request.Context(), username)
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]gin.H, 0, len(reps))
	for _, r := range reps {
		out = append(out, gin.H{"id": r.ID, "username": r.Username, "email": r.Email})
	}
	c.JSON(http.StatusOK, out)
}

// Delete handles DELETE /api/users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Hello handles GET /api/users/hello, an identity echo for privileged callers.
func (h *UserHandler) Hello(c *gin.Context) {
	ident, _ := middleware.Identity(c)
	c.JSON(http.StatusOK, gin.H{"message": "hello", "username": ident.Username})
}

// writeError renders a classified error as the JSON error contract. Server
// faults are logged with their cause; the response body never carries
// provider internals.
func writeError(c *gin.Context, err error) {
	status := apperr.Status(err)
	if status >= http.StatusInternalServerError {
		logger.Errorf("%s %s failed: %v", c.Request.Method, c.FullPath(), err)
	}

	var e *apperr.Error
	if !errors.As(err, &e) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal", "message": "internal error"})
		return
	}

	body := gin.H{"error": e.Kind, "message": e.Message}
	if len(e.Violations) > 0 {
		body["violations"] = e.Violations
	}
	c.JSON(status, body)
}
