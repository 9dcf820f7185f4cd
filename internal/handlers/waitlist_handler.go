package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/ortoclub/platform-api/internal/middleware"
	"github.com/ortoclub/platform-api/internal/models"
	"github.com/ortoclub/platform-api/internal/repository"
	"github.com/ortoclub/platform-api/internal/utils"
)

// WaitlistHandler accepts public waitlist signups.
type WaitlistHandler struct {
	waitlistRepo *repository.WaitlistRepository
}

func NewWaitlistHandler(waitlistRepo *repository.WaitlistRepository) *WaitlistHandler {
	return &WaitlistHandler{waitlistRepo: waitlistRepo}
}

// Join registers a signup for the hostname-resolved tenant. Duplicate
// submissions for the same tenant/email pair are reported as such instead
// of creating a second row; the same email under another tenant is a new
// entry.
func (h *WaitlistHandler) Join(c *gin.Context) {
	t := middleware.TenantFromContext(c)
	if t == nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied", "reason": "tenant_unavailable", "redirect": "/"})
		return
	}

	var req models.WaitlistJoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry := &models.WaitlistEntry{
		Name:           req.Name,
		Email:          utils.NormalizeEmail(req.Email),
		Whatsapp:       req.Whatsapp,
		Instagram:      req.Instagram,
		ResidencyLevel: models.ResidencyLevel(req.ResidencyLevel),
		Subspecialty:   req.Subspecialty,
	}

	created, err := h.waitlistRepo.Create(c.Request.Context(), t.ID, entry)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			c.JSON(http.StatusConflict, gin.H{"error": "email already on the waitlist"})
			return
		}
		log.Error().Err(err).Str("tenant", t.Slug).Msg("failed to create waitlist entry")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to join waitlist"})
		return
	}

	c.JSON(http.StatusCreated, created)
}
