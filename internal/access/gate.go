// Package access holds the single allow/deny decision shared by every
// enforcement layer. The edge middleware, the route-group middleware and the
// admin/paid handlers all call Evaluate with inputs they derived themselves;
// no layer trusts another layer's outcome.
package access

import "github.com/ortoclub/platform-api/internal/models"

// RouteClass classifies what a route requires beyond authentication.
type RouteClass string

const (
	RouteClassPublic RouteClass = "public"
	RouteClassMember RouteClass = "member"
	RouteClassPaid   RouteClass = "paid"
	RouteClassAdmin  RouteClass = "admin"
)

// Reason is the sub-reason surfaced to the user on denial. Payment and
// approval states are expected, frequent and actionable, so denials carry an
// accurate status instead of a bare 403.
type Reason string

const (
	ReasonUnauthenticated   Reason = "unauthenticated"
	ReasonTenantUnavailable Reason = "tenant_unavailable"
	ReasonNotAdmin          Reason = "not_admin"
	ReasonSuspended         Reason = "suspended"
	ReasonInactive          Reason = "inactive"
	ReasonPaymentFailed     Reason = "payment_failed"
	ReasonPaymentPending    Reason = "payment_pending"
	ReasonAwaitingApproval  Reason = "awaiting_approval"
)

// Input is everything the decision table consumes. Tenant and User are the
// server-resolved records (nil when unresolved/unauthenticated); client
// supplied tenant or role parameters must never be copied in here.
type Input struct {
	User           *models.User
	Tenant         *models.Tenant
	MembershipRole models.MembershipRole
	Route          RouteClass
}

// Decision is the gate outcome. Redirect names the frontend route that
// explains the denial; it is advisory content for the client, not an
// authorization artifact.
type Decision struct {
	Allowed  bool
	Reason   Reason
	Redirect string
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(reason Reason, redirect string) Decision {
	return Decision{Allowed: false, Reason: reason, Redirect: redirect}
}

// Evaluate runs the decision table: authentication, then tenant, then route
// class requirements. Most specific rule wins; the entitlement sub-decision
// follows the precedence suspended > inactive > payment failed/refunded >
// not paid > awaiting approval. Any upstream failure must be presented here
// as a nil Tenant/User so that the gate fails closed.
func Evaluate(in Input) Decision {
	if in.User == nil {
		return deny(ReasonUnauthenticated, "/sign-in")
	}

	// Tenant not found, inactive, or lookup failure all collapse to the
	// same neutral denial; tenant existence is never leaked.
	if in.Tenant == nil || in.Tenant.Status != models.TenantStatusActive {
		return deny(ReasonTenantUnavailable, "/")
	}

	switch in.Route {
	case RouteClassAdmin:
		if in.MembershipRole == models.MembershipRoleAdmin || in.User.GlobalRole == models.GlobalRoleAdmin {
			return allow()
		}
		return deny(ReasonNotAdmin, "/app")

	case RouteClassPaid:
		return evaluateEntitlement(in.User)
	}

	return allow()
}

func evaluateEntitlement(u *models.User) Decision {
	switch {
	case u.Status == models.AccountStatusSuspended:
		return deny(ReasonSuspended, "/access-pending")
	case u.Status == models.AccountStatusInactive:
		return deny(ReasonInactive, "/access-pending")
	case u.PaymentStatus == models.PaymentStatusFailed || u.PaymentStatus == models.PaymentStatusRefunded:
		return deny(ReasonPaymentFailed, "/purchase")
	case !u.Paid:
		return deny(ReasonPaymentPending, "/purchase")
	case !u.HasActiveYearAccess:
		return deny(ReasonAwaitingApproval, "/access-pending")
	}
	return allow()
}
