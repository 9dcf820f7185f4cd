// Package admin holds the handlers behind the /admin route namespace.
// Every handler re-derives the caller's admin standing from the request
// scope before writing, independently of the route-group gate.
package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ortoclub/platform-api/internal/middleware"
	"github.com/ortoclub/platform-api/internal/scope"
)

// requireAdminScope fetches the request scope and re-checks the admin
// branch. A request that somehow reached an admin handler without an admin
// scope is denied here regardless of what upstream middleware concluded.
func requireAdminScope(c *gin.Context) (*scope.Scope, bool) {
	s := middleware.ScopeFromContext(c)
	if s == nil || !s.IsAdmin() {
		c.JSON(http.StatusForbidden, gin.H{
			"error":    "access denied",
			"reason":   "not_admin",
			"redirect": "/app",
		})
		return nil, false
	}
	return s, true
}
