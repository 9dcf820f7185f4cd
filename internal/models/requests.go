package models

import (
	"time"

	"github.com/google/uuid"
)

// DTOs for API requests/responses

type SessionExchangeRequest struct {
	IdentityToken string `json:"identity_token" binding:"required"`
}

type SessionExchangeResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type TenantConfigResponse struct {
	Slug         string `json:"slug"`
	DisplayName  string `json:"display_name"`
	LogoURL      string `json:"logo_url,omitempty"`
	PrimaryColor string `json:"primary_color,omitempty"`
}

type WaitlistJoinRequest struct {
	Name           string `json:"name" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	Whatsapp       string `json:"whatsapp" binding:"required"`
	Instagram      string `json:"instagram"`
	ResidencyLevel string `json:"residency_level" binding:"required,oneof=r1 r2 r3 specialist other"`
	Subspecialty   string `json:"subspecialty" binding:"required"`
}

type CreateCouponRequest struct {
	Code       string     `json:"code" binding:"required"`
	Type       string     `json:"type" binding:"required,oneof=percentage fixed fixed_price"`
	Value      float64    `json:"value" binding:"required,gt=0"`
	Active     bool       `json:"active"`
	ValidFrom  *time.Time `json:"valid_from"`
	ValidUntil *time.Time `json:"valid_until"`
}

type UpdateCouponRequest struct {
	Type       *string    `json:"type" binding:"omitempty,oneof=percentage fixed fixed_price"`
	Value      *float64   `json:"value" binding:"omitempty,gt=0"`
	Active     *bool      `json:"active"`
	ValidFrom  *time.Time `json:"valid_from"`
	ValidUntil *time.Time `json:"valid_until"`
}

type ValidateCouponRequest struct {
	Code string `json:"code" binding:"required"`
}

type ValidateCouponResponse struct {
	Valid  bool    `json:"valid"`
	Reason string  `json:"reason,omitempty"`
	Type   string  `json:"type,omitempty"`
	Value  float64 `json:"value,omitempty"`
}

type UpdateUserRequest struct {
	GlobalRole          *string `json:"global_role" binding:"omitempty,oneof=user admin"`
	Paid                *bool   `json:"paid"`
	PaymentStatus       *string `json:"payment_status" binding:"omitempty,oneof=none pending paid failed refunded"`
	HasActiveYearAccess *bool   `json:"has_active_year_access"`
	Status              *string `json:"status" binding:"omitempty,oneof=active inactive suspended"`
	CPF                 *string `json:"cpf" binding:"omitempty,min=11,max=14"`
}

type CreateVideoRequest struct {
	Title string `json:"title" binding:"required"`
}

type CreateVideoResponse struct {
	Video     Video  `json:"video"`
	UploadURL string `json:"upload_url"`
}

type CreateCourseRequest struct {
	Title    string `json:"title" binding:"required"`
	Position int    `json:"position"`
}

type CreateLessonRequest struct {
	Title       string     `json:"title" binding:"required"`
	VideoID     *uuid.UUID `json:"video_id"`
	Position    int        `json:"position"`
	FreePreview bool       `json:"free_preview"`
}

type PlaybackResponse struct {
	EmbedURL  string `json:"embed_url"`
	ExpiresAt int64  `json:"expires_at"`
	Watermark string `json:"watermark,omitempty"`
}

type MeResponse struct {
	User             User   `json:"user"`
	TenantSlug       string `json:"tenant_slug"`
	MembershipRole   string `json:"membership_role"`
	Entitled         bool   `json:"entitled"`
	EntitlementState string `json:"entitlement_state,omitempty"`
}
