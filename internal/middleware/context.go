package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/ortoclub/platform-api/internal/models"
	"github.com/ortoclub/platform-api/internal/scope"
)

// Context keys set by the middleware chain.
const (
	ctxUserID = "user_id"
	ctxUser   = "user"
	ctxTenant = "tenant"
	ctxScope  = "scope"
)

// TenantFromContext returns the server-resolved tenant, or nil when
// resolution failed. Handlers must treat nil as access denied.
func TenantFromContext(c *gin.Context) *models.Tenant {
	if v, ok := c.Get(ctxTenant); ok {
		if t, ok := v.(*models.Tenant); ok {
			return t
		}
	}
	return nil
}

// UserFromContext returns the authenticated user record, or nil.
func UserFromContext(c *gin.Context) *models.User {
	if v, ok := c.Get(ctxUser); ok {
		if u, ok := v.(*models.User); ok {
			return u
		}
	}
	return nil
}

// ScopeFromContext returns the request scope, or nil before the access
// middleware has run. Handlers performing writes must require a non-nil
// scope rather than reconstructing tenant/user ids from request input.
func ScopeFromContext(c *gin.Context) *scope.Scope {
	if v, ok := c.Get(ctxScope); ok {
		if s, ok := v.(*scope.Scope); ok {
			return s
		}
	}
	return nil
}
