package admin

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/ortoclub/platform-api/internal/models"
	"github.com/ortoclub/platform-api/internal/repository"
	"github.com/ortoclub/platform-api/internal/utils"
)

type CouponHandler struct {
	couponRepo *repository.CouponRepository
}

func NewCouponHandler(couponRepo *repository.CouponRepository) *CouponHandler {
	return &CouponHandler{couponRepo: couponRepo}
}

// Create registers a discount coupon for this tenant. Codes are stored
// normalized and must be unique per tenant.
func (h *CouponHandler) Create(c *gin.Context) {
	s, ok := requireAdminScope(c)
	if !ok {
		return
	}

	var req models.CreateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	code := utils.NormalizeCouponCode(req.Code)
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "coupon code is required"})
		return
	}

	coupon, err := h.couponRepo.Create(c.Request.Context(), s.TenantID, code, models.CouponType(req.Type), &req)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			c.JSON(http.StatusConflict, gin.H{"error": "a coupon with this code already exists"})
			return
		}
		log.Error().Err(err).Str("tenant", s.TenantSlug).Msg("failed to create coupon")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create coupon"})
		return
	}

	c.JSON(http.StatusCreated, coupon)
}

func (h *CouponHandler) List(c *gin.Context) {
	s, ok := requireAdminScope(c)
	if !ok {
		return
	}

	coupons, err := h.couponRepo.ListByTenant(c.Request.Context(), s.TenantID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list coupons"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"coupons": coupons})
}

func (h *CouponHandler) Update(c *gin.Context) {
	s, ok := requireAdminScope(c)
	if !ok {
		return
	}

	couponID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid coupon id"})
		return
	}

	var req models.UpdateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	coupon, err := h.couponRepo.Update(c.Request.Context(), s.TenantID, couponID, &req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "coupon not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update coupon"})
		return
	}

	c.JSON(http.StatusOK, coupon)
}

func (h *CouponHandler) Delete(c *gin.Context) {
	s, ok := requireAdminScope(c)
	if !ok {
		return
	}

	couponID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid coupon id"})
		return
	}

	if err := h.couponRepo.Delete(c.Request.Context(), s.TenantID, couponID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "coupon not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete coupon"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "coupon deleted"})
}
