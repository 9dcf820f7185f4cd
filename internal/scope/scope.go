// Package scope defines the per-request authorization context. A Scope is
// built only by the middleware chain from the verified token and the
// server-resolved hostname tenant, then passed down explicitly. There are
// no ambient globals, and client-supplied tenant or role parameters never
// become part of a Scope.
package scope

import (
	"github.com/google/uuid"

	"github.com/ortoclub/platform-api/internal/models"
)

type Scope struct {
	TenantID       uuid.UUID
	TenantSlug     string
	UserID         uuid.UUID
	GlobalRole     models.GlobalRole
	MembershipRole models.MembershipRole
}

// IsAdmin reports whether the scope can act on this tenant's admin surface:
// tenant-scoped admin membership or the global superadmin override.
func (s *Scope) IsAdmin() bool {
	return s.MembershipRole == models.MembershipRoleAdmin || s.GlobalRole == models.GlobalRoleAdmin
}
