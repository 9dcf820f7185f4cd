package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/ortoclub/platform-api/internal/access"
	"github.com/ortoclub/platform-api/internal/models"
	"github.com/ortoclub/platform-api/internal/scope"
)

// UserStore loads the authenticated user's current record. Every request
// re-reads it; entitlement changes must never outlive one request.
type UserStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// MembershipStore records the user's first interaction with a tenant and
// returns the tenant-scoped role.
type MembershipStore interface {
	Ensure(ctx context.Context, tenantID, userID uuid.UUID) (models.MembershipRole, error)
}

// RequireAccess builds the request scope from the verified token and the
// resolved tenant, then runs the shared decision function for the route
// class. Any store failure during the derivation denies (fail closed).
func RequireAccess(users UserStore, memberships MembershipStore, route access.RouteClass) gin.HandlerFunc {
	return func(c *gin.Context) {
		t := TenantFromContext(c)

		var user *models.User
		var role models.MembershipRole

		userID, authenticated := userIDFromContext(c)
		if authenticated {
			var err error
			user, err = users.GetByID(c.Request.Context(), userID)
			if err != nil {
				log.Warn().Err(err).Str("user_id", userID.String()).Msg("user lookup failed during access check")
				user = nil
			}
		}

		if user != nil && t != nil {
			var err error
			role, err = memberships.Ensure(c.Request.Context(), t.ID, user.ID)
			if err != nil {
				log.Warn().Err(err).Msg("membership lookup failed during access check")
				denyAccess(c, access.Decision{Reason: access.ReasonTenantUnavailable, Redirect: "/"})
				return
			}
		}

		decision := access.Evaluate(access.Input{
			User:           user,
			Tenant:         t,
			MembershipRole: role,
			Route:          route,
		})
		if !decision.Allowed {
			log.Info().
				Str("reason", string(decision.Reason)).
				Str("route_class", string(route)).
				Msg("access denied")
			CountDenial(string(decision.Reason))
			denyAccess(c, decision)
			return
		}

		c.Set(ctxUser, user)
		c.Set(ctxScope, &scope.Scope{
			TenantID:       t.ID,
			TenantSlug:     t.Slug,
			UserID:         user.ID,
			GlobalRole:     user.GlobalRole,
			MembershipRole: role,
		})

		c.Next()
	}
}

func userIDFromContext(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(ctxUserID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

func denyAccess(c *gin.Context, d access.Decision) {
	status := http.StatusForbidden
	if d.Reason == access.ReasonUnauthenticated {
		status = http.StatusUnauthorized
	}
	c.JSON(status, gin.H{
		"error":    "access denied",
		"reason":   string(d.Reason),
		"redirect": d.Redirect,
	})
	c.Abort()
}
