package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/ortoclub/platform-api/internal/config"
	"github.com/ortoclub/platform-api/internal/models"
	"github.com/ortoclub/platform-api/internal/tenant"
)

// TenantDirectory is the slug -> tenant lookup consulted once per request.
// The result lives only in the request context; caching it across requests
// would let a suspended tenant keep serving.
type TenantDirectory interface {
	GetBySlug(ctx context.Context, slug string) (*models.Tenant, error)
}

// TenantMiddleware resolves the tenant from the request hostname and
// injects it into the request context. The hostname is the only trusted
// tenant input: the advisory cookie and any tenant parameter in the payload
// are never consulted for authorization.
//
// Lookup failure and not-found collapse to the same neutral denial (fail
// closed, and tenant existence is not leaked), logged distinctly for
// operators.
func TenantMiddleware(resolver *tenant.Resolver, directory TenantDirectory, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		host := c.GetHeader("X-Forwarded-Host")
		if host == "" {
			host = c.Request.Host
		}
		slug := resolver.Resolve(host)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		t, err := directory.GetBySlug(ctx, slug)
		if err != nil {
			log.Warn().Err(err).Str("slug", slug).Str("host", host).Msg("tenant lookup failed")
			denyTenant(c)
			return
		}
		if t.Status != models.TenantStatusActive {
			log.Warn().Str("slug", slug).Str("status", string(t.Status)).Msg("tenant not active")
			denyTenant(c)
			return
		}

		writeTenantCookie(c, cfg, slug)

		c.Set(ctxTenant, t)

		c.Next()
	}
}

func denyTenant(c *gin.Context) {
	c.JSON(http.StatusForbidden, gin.H{
		"error":    "access denied",
		"reason":   "tenant_unavailable",
		"redirect": "/",
	})
	c.Abort()
}

// writeTenantCookie refreshes the advisory branding cookie when the
// resolved slug differs from what the client already has. The cookie is
// never an authorization input.
func writeTenantCookie(c *gin.Context, cfg *config.Config, slug string) {
	current, err := c.Cookie(cfg.Tenancy.CookieName)
	if err == nil && current == slug {
		return
	}

	http.SetCookie(c.Writer, &http.Cookie{
		Name:     cfg.Tenancy.CookieName,
		Value:    slug,
		Path:     "/",
		MaxAge:   cfg.Tenancy.CookieMaxAge,
		SameSite: http.SameSiteLaxMode,
		Secure:   cfg.IsProduction(),
	})
}
