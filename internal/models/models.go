package models

import (
	"time"

	"github.com/google/uuid"
)

type TenantStatus string

const (
	TenantStatusActive    TenantStatus = "active"
	TenantStatusSuspended TenantStatus = "suspended"
)

type Tenant struct {
	ID           uuid.UUID    `json:"id"`
	Slug         string       `json:"slug"`
	DisplayName  string       `json:"display_name"`
	LogoURL      string       `json:"logo_url,omitempty"`
	PrimaryColor string       `json:"primary_color,omitempty"`
	Status       TenantStatus `json:"status"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

type GlobalRole string

const (
	GlobalRoleUser  GlobalRole = "user"
	GlobalRoleAdmin GlobalRole = "admin"
)

type AccountStatus string

const (
	AccountStatusActive    AccountStatus = "active"
	AccountStatusInactive  AccountStatus = "inactive"
	AccountStatusSuspended AccountStatus = "suspended"
)

type PaymentStatus string

const (
	PaymentStatusNone     PaymentStatus = "none"
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// User is linked 1:1 to the external identity provider via ExternalID and is
// created on first authenticated access. Users are never hard-deleted;
// Status is flipped instead.
type User struct {
	ID                  uuid.UUID     `json:"id"`
	ExternalID          string        `json:"external_id"`
	Email               string        `json:"email"`
	Name                string        `json:"name"`
	GlobalRole          GlobalRole    `json:"global_role"`
	Paid                bool          `json:"paid"`
	PaymentStatus       PaymentStatus `json:"payment_status"`
	HasActiveYearAccess bool          `json:"has_active_year_access"`
	Status              AccountStatus `json:"status"`
	CPF                 string        `json:"-"`
	CreatedAt           time.Time     `json:"created_at"`
	UpdatedAt           time.Time     `json:"updated_at"`
}

type MembershipRole string

const (
	MembershipRoleMember MembershipRole = "member"
	MembershipRoleAdmin  MembershipRole = "admin"
)

// TenantMembership joins users to tenants. The membership role is
// tenant-scoped and distinct from the user's global role; admin checks
// consult both.
type TenantMembership struct {
	ID        uuid.UUID      `json:"id"`
	TenantID  uuid.UUID      `json:"tenant_id"`
	UserID    uuid.UUID      `json:"user_id"`
	Role      MembershipRole `json:"role"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

type CouponType string

const (
	CouponTypePercentage CouponType = "percentage"
	CouponTypeFixed      CouponType = "fixed"
	CouponTypeFixedPrice CouponType = "fixed_price"
)

type Coupon struct {
	ID         uuid.UUID  `json:"id"`
	TenantID   uuid.UUID  `json:"tenant_id"`
	Code       string     `json:"code"`
	Type       CouponType `json:"type"`
	Value      float64    `json:"value"`
	Active     bool       `json:"active"`
	ValidFrom  *time.Time `json:"valid_from,omitempty"`
	ValidUntil *time.Time `json:"valid_until,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

type ResidencyLevel string

const (
	ResidencyLevelR1         ResidencyLevel = "r1"
	ResidencyLevelR2         ResidencyLevel = "r2"
	ResidencyLevelR3         ResidencyLevel = "r3"
	ResidencyLevelSpecialist ResidencyLevel = "specialist"
	ResidencyLevelOther      ResidencyLevel = "other"
)

type WaitlistEntry struct {
	ID             uuid.UUID      `json:"id"`
	TenantID       uuid.UUID      `json:"tenant_id"`
	Name           string         `json:"name"`
	Email          string         `json:"email"`
	Whatsapp       string         `json:"whatsapp"`
	Instagram      string         `json:"instagram,omitempty"`
	ResidencyLevel ResidencyLevel `json:"residency_level"`
	Subspecialty   string         `json:"subspecialty"`
	CreatedAt      time.Time      `json:"created_at"`
}

type VideoStatus string

const (
	VideoStatusUploading  VideoStatus = "uploading"
	VideoStatusProcessing VideoStatus = "processing"
	VideoStatusReady      VideoStatus = "ready"
	VideoStatusFailed     VideoStatus = "failed"
)

// Video tracks a Bunny Stream resource. Status follows the CDN transcoding
// pipeline and only moves forward, except "failed" which is terminal until
// re-upload.
type Video struct {
	ID           uuid.UUID   `json:"id"`
	TenantID     uuid.UUID   `json:"tenant_id"`
	BunnyVideoID string      `json:"bunny_video_id"`
	LibraryID    string      `json:"library_id"`
	Title        string      `json:"title"`
	Status       VideoStatus `json:"status"`
	CreatedBy    uuid.UUID   `json:"created_by"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

type Course struct {
	ID        uuid.UUID `json:"id"`
	TenantID  uuid.UUID `json:"tenant_id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Lesson struct {
	ID          uuid.UUID  `json:"id"`
	TenantID    uuid.UUID  `json:"tenant_id"`
	CourseID    uuid.UUID  `json:"course_id"`
	Title       string     `json:"title"`
	VideoID     *uuid.UUID `json:"video_id,omitempty"`
	Position    int        `json:"position"`
	FreePreview bool       `json:"free_preview"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
