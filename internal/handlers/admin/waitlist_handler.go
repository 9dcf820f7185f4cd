package admin

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ortoclub/platform-api/internal/repository"
)

type WaitlistHandler struct {
	waitlistRepo *repository.WaitlistRepository
}

func NewWaitlistHandler(waitlistRepo *repository.WaitlistRepository) *WaitlistHandler {
	return &WaitlistHandler{waitlistRepo: waitlistRepo}
}

// List returns the tenant's waitlist entries, newest first.
func (h *WaitlistHandler) List(c *gin.Context) {
	s, ok := requireAdminScope(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	entries, err := h.waitlistRepo.ListByTenant(c.Request.Context(), s.TenantID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list waitlist"})
		return
	}

	count, err := h.waitlistRepo.CountByTenant(c.Request.Context(), s.TenantID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count waitlist"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"entries": entries, "total": count})
}

// Export streams the tenant's full waitlist as CSV.
func (h *WaitlistHandler) Export(c *gin.Context) {
	s, ok := requireAdminScope(c)
	if !ok {
		return
	}

	filename := fmt.Sprintf("waitlist-%s-%s.csv", s.TenantSlug, time.Now().Format("2006-01-02"))
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	w := csv.NewWriter(c.Writer)
	_ = w.Write([]string{"name", "email", "whatsapp", "instagram", "residency_level", "subspecialty", "created_at"})

	const pageSize = 500
	for offset := 0; ; offset += pageSize {
		entries, err := h.waitlistRepo.ListByTenant(c.Request.Context(), s.TenantID, pageSize, offset)
		if err != nil {
			// Headers are already out; truncating the stream is the only
			// signal left.
			return
		}
		for _, e := range entries {
			_ = w.Write([]string{
				e.Name,
				e.Email,
				e.Whatsapp,
				e.Instagram,
				string(e.ResidencyLevel),
				e.Subspecialty,
				e.CreatedAt.Format(time.RFC3339),
			})
		}
		if len(entries) < pageSize {
			break
		}
	}
	w.Flush()
}
