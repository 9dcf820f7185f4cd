package access

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ortoclub/platform-api/internal/models"
)

func entitledUser() *models.User {
	return &models.User{
		GlobalRole:          models.GlobalRoleUser,
		Paid:                true,
		PaymentStatus:       models.PaymentStatusPaid,
		HasActiveYearAccess: true,
		Status:              models.AccountStatusActive,
	}
}

func activeTenant() *models.Tenant {
	return &models.Tenant{Slug: "demo", Status: models.TenantStatusActive}
}

func TestEvaluate_Unauthenticated(t *testing.T) {
	d := Evaluate(Input{User: nil, Tenant: activeTenant(), Route: RouteClassMember})
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonUnauthenticated, d.Reason)
	assert.Equal(t, "/sign-in", d.Redirect)
}

// A failed or not-found tenant lookup reaches the gate as a nil tenant and
// must deny, never fall through to allow.
func TestEvaluate_TenantFailClosed(t *testing.T) {
	d := Evaluate(Input{User: entitledUser(), Tenant: nil, Route: RouteClassMember})
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonTenantUnavailable, d.Reason)

	suspended := activeTenant()
	suspended.Status = models.TenantStatusSuspended
	d = Evaluate(Input{User: entitledUser(), Tenant: suspended, Route: RouteClassMember})
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonTenantUnavailable, d.Reason)
	assert.Equal(t, "/", d.Redirect)
}

func TestEvaluate_AdminPrecedence(t *testing.T) {
	// Global admin without a membership row is still a superadmin.
	globalAdmin := entitledUser()
	globalAdmin.GlobalRole = models.GlobalRoleAdmin
	d := Evaluate(Input{User: globalAdmin, Tenant: activeTenant(), Route: RouteClassAdmin})
	assert.True(t, d.Allowed)

	// Tenant admin with global role user is also authorized.
	d = Evaluate(Input{
		User:           entitledUser(),
		Tenant:         activeTenant(),
		MembershipRole: models.MembershipRoleAdmin,
		Route:          RouteClassAdmin,
	})
	assert.True(t, d.Allowed)

	// Neither role: denied, routed back to the member area.
	d = Evaluate(Input{
		User:           entitledUser(),
		Tenant:         activeTenant(),
		MembershipRole: models.MembershipRoleMember,
		Route:          RouteClassAdmin,
	})
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonNotAdmin, d.Reason)
	assert.Equal(t, "/app", d.Redirect)
}

func TestEvaluate_EntitlementPrecedence(t *testing.T) {
	// Suspended wins over every payment flag combination.
	u := entitledUser()
	u.Status = models.AccountStatusSuspended
	u.Paid = false
	u.PaymentStatus = models.PaymentStatusFailed
	d := Evaluate(Input{User: u, Tenant: activeTenant(), Route: RouteClassPaid})
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonSuspended, d.Reason)

	u = entitledUser()
	u.Status = models.AccountStatusInactive
	d = Evaluate(Input{User: u, Tenant: activeTenant(), Route: RouteClassPaid})
	assert.Equal(t, ReasonInactive, d.Reason)

	u = entitledUser()
	u.PaymentStatus = models.PaymentStatusRefunded
	d = Evaluate(Input{User: u, Tenant: activeTenant(), Route: RouteClassPaid})
	assert.Equal(t, ReasonPaymentFailed, d.Reason)

	u = entitledUser()
	u.Paid = false
	u.PaymentStatus = models.PaymentStatusPending
	d = Evaluate(Input{User: u, Tenant: activeTenant(), Route: RouteClassPaid})
	assert.Equal(t, ReasonPaymentPending, d.Reason)
	assert.Equal(t, "/purchase", d.Redirect)

	u = entitledUser()
	u.HasActiveYearAccess = false
	d = Evaluate(Input{User: u, Tenant: activeTenant(), Route: RouteClassPaid})
	assert.Equal(t, ReasonAwaitingApproval, d.Reason)
	assert.Equal(t, "/access-pending", d.Redirect)

	d = Evaluate(Input{User: entitledUser(), Tenant: activeTenant(), Route: RouteClassPaid})
	assert.True(t, d.Allowed)
}

func TestEvaluate_MemberRouteIgnoresPaymentFlags(t *testing.T) {
	u := entitledUser()
	u.Paid = false
	u.HasActiveYearAccess = false
	d := Evaluate(Input{User: u, Tenant: activeTenant(), Route: RouteClassMember})
	assert.True(t, d.Allowed)
}

// The gate is pure: re-running the same input yields the same decision with
// no accumulated state between runs.
func TestEvaluate_Deterministic(t *testing.T) {
	in := Input{
		User:           entitledUser(),
		Tenant:         activeTenant(),
		MembershipRole: models.MembershipRoleMember,
		Route:          RouteClassPaid,
	}
	first := Evaluate(in)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Evaluate(in))
	}
}
