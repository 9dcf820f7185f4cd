package admin

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/ortoclub/platform-api/internal/repository"
	"github.com/ortoclub/platform-api/internal/storage"
)

const maxLogoSize = 2 << 20 // 2MB

var allowedLogoExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".svg":  true,
}

type BrandingHandler struct {
	tenantRepo *repository.TenantRepository
	storage    storage.Driver
}

func NewBrandingHandler(tenantRepo *repository.TenantRepository, storageDriver storage.Driver) *BrandingHandler {
	return &BrandingHandler{tenantRepo: tenantRepo, storage: storageDriver}
}

// Update patches the tenant's display name and primary color. Empty fields
// are left unchanged.
func (h *BrandingHandler) Update(c *gin.Context) {
	s, ok := requireAdminScope(c)
	if !ok {
		return
	}

	var req struct {
		DisplayName  string `json:"display_name"`
		PrimaryColor string `json:"primary_color"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.tenantRepo.UpdateBranding(c.Request.Context(), s.TenantID, req.DisplayName, "", req.PrimaryColor); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update branding"})
		return
	}

	tenant, err := h.tenantRepo.GetByID(c.Request.Context(), s.TenantID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load tenant"})
		return
	}

	c.JSON(http.StatusOK, tenant)
}

// UploadLogo stores a new tenant logo and records its public URL.
func (h *BrandingHandler) UploadLogo(c *gin.Context) {
	s, ok := requireAdminScope(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("logo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "logo file is required"})
		return
	}

	if fileHeader.Size > maxLogoSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "logo must be 2MB or smaller"})
		return
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedLogoExtensions[ext] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "logo must be jpg, png, webp or svg"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read logo file"})
		return
	}
	defer file.Close()

	key := fmt.Sprintf("tenants/%s/logo%s", s.TenantSlug, ext)
	logoURL, err := h.storage.Upload(c.Request.Context(), file, key)
	if err != nil {
		log.Error().Err(err).Str("tenant", s.TenantSlug).Msg("failed to upload logo")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to upload logo"})
		return
	}

	if err := h.tenantRepo.UpdateBranding(c.Request.Context(), s.TenantID, "", logoURL, ""); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update branding"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"logo_url": logoURL})
}
