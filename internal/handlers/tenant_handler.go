package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ortoclub/platform-api/internal/middleware"
	"github.com/ortoclub/platform-api/internal/models"
	"github.com/ortoclub/platform-api/internal/repository"
	"github.com/ortoclub/platform-api/internal/utils"
)

// TenantHandler serves the public tenant surface: branding config and the
// coupon redemption-window check.
type TenantHandler struct {
	couponRepo *repository.CouponRepository
}

func NewTenantHandler(couponRepo *repository.CouponRepository) *TenantHandler {
	return &TenantHandler{couponRepo: couponRepo}
}

// GetConfig returns the branding fields the frontend needs before sign-in.
// The tenant comes from the hostname; no id is accepted from the client.
func (h *TenantHandler) GetConfig(c *gin.Context) {
	t := middleware.TenantFromContext(c)
	if t == nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied", "reason": "tenant_unavailable", "redirect": "/"})
		return
	}

	c.JSON(http.StatusOK, models.TenantConfigResponse{
		Slug:         t.Slug,
		DisplayName:  t.DisplayName,
		LogoURL:      t.LogoURL,
		PrimaryColor: t.PrimaryColor,
	})
}

// ValidateCoupon checks a code's redemption window for the checkout page.
// Redemption itself happens in the payment provider; this only answers
// "would this code apply right now".
func (h *TenantHandler) ValidateCoupon(c *gin.Context) {
	t := middleware.TenantFromContext(c)
	if t == nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied", "reason": "tenant_unavailable", "redirect": "/"})
		return
	}

	var req models.ValidateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	coupon, err := h.couponRepo.GetByCode(c.Request.Context(), t.ID, utils.NormalizeCouponCode(req.Code))
	if err != nil {
		// Unknown code and store error answer the same; error shape must
		// not reveal whether a code exists.
		c.JSON(http.StatusOK, models.ValidateCouponResponse{Valid: false, Reason: "not_found"})
		return
	}

	now := time.Now()
	switch {
	case !coupon.Active:
		c.JSON(http.StatusOK, models.ValidateCouponResponse{Valid: false, Reason: "inactive"})
	case coupon.ValidFrom != nil && now.Before(*coupon.ValidFrom):
		c.JSON(http.StatusOK, models.ValidateCouponResponse{Valid: false, Reason: "not_started"})
	case coupon.ValidUntil != nil && now.After(*coupon.ValidUntil):
		c.JSON(http.StatusOK, models.ValidateCouponResponse{Valid: false, Reason: "expired"})
	default:
		c.JSON(http.StatusOK, models.ValidateCouponResponse{
			Valid: true,
			Type:  string(coupon.Type),
			Value: coupon.Value,
		})
	}
}
