package admin

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/ortoclub/platform-api/internal/models"
	"github.com/ortoclub/platform-api/internal/repository"
)

// UserHandler manages the tenant's members: payment flags, account status,
// roles.
type UserHandler struct {
	userRepo       *repository.UserRepository
	membershipRepo *repository.MembershipRepository
}

func NewUserHandler(userRepo *repository.UserRepository, membershipRepo *repository.MembershipRepository) *UserHandler {
	return &UserHandler{userRepo: userRepo, membershipRepo: membershipRepo}
}

// List returns the tenant's members. The tenant predicate is always the
// scope's tenant id; a tenant id in the query string is ignored.
func (h *UserHandler) List(c *gin.Context) {
	s, ok := requireAdminScope(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	users, err := h.userRepo.ListByTenant(c.Request.Context(), s.TenantID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users})
}

// Get returns one member, provided they belong to this tenant.
func (h *UserHandler) Get(c *gin.Context) {
	s, ok := requireAdminScope(c)
	if !ok {
		return
	}

	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	// Membership check scopes the lookup: admins only see users of their
	// own tenant.
	if _, err := h.membershipRepo.GetRole(c.Request.Context(), s.TenantID, userID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	user, err := h.userRepo.GetByID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// Update applies role/payment/status changes. Accounts are never deleted;
// suspension is a status flip and fully reversible.
func (h *UserHandler) Update(c *gin.Context) {
	s, ok := requireAdminScope(c)
	if !ok {
		return
	}

	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	var req models.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := h.membershipRepo.GetRole(c.Request.Context(), s.TenantID, userID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	// Only a global admin may grant or revoke the global role.
	if req.GlobalRole != nil && s.GlobalRole != models.GlobalRoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "only a platform admin can change global roles"})
		return
	}

	user, err := h.userRepo.UpdateFlags(c.Request.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("failed to update user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update user"})
		return
	}

	log.Info().
		Str("admin", s.UserID.String()).
		Str("user_id", userID.String()).
		Str("tenant", s.TenantSlug).
		Msg("user flags updated")

	c.JSON(http.StatusOK, user)
}

// SetMembershipRole promotes or demotes a member within this tenant.
func (h *UserHandler) SetMembershipRole(c *gin.Context) {
	s, ok := requireAdminScope(c)
	if !ok {
		return
	}

	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	var req struct {
		Role string `json:"role" binding:"required,oneof=member admin"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.membershipRepo.SetRole(c.Request.Context(), s.TenantID, userID, models.MembershipRole(req.Role)); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to set role"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user_id": userID, "role": req.Role})
}
