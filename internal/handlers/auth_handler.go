package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/ortoclub/platform-api/internal/access"
	"github.com/ortoclub/platform-api/internal/config"
	"github.com/ortoclub/platform-api/internal/middleware"
	"github.com/ortoclub/platform-api/internal/models"
	"github.com/ortoclub/platform-api/internal/repository"
	"github.com/ortoclub/platform-api/internal/utils"
)

// AuthHandler bridges the external identity provider and the API's own
// backend-scoped tokens.
type AuthHandler struct {
	userRepo *repository.UserRepository
	cfg      *config.Config
}

func NewAuthHandler(userRepo *repository.UserRepository, cfg *config.Config) *AuthHandler {
	return &AuthHandler{userRepo: userRepo, cfg: cfg}
}

// ExchangeSession verifies an identity-provider token and exchanges it for
// a backend-scoped token. The user record is created on first authenticated
// access. Every verification failure is plain "unauthenticated"; there is
// no partial success.
func (h *AuthHandler) ExchangeSession(c *gin.Context) {
	var req models.SessionExchangeRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	claims, err := utils.VerifyIdentityToken(req.IdentityToken, h.cfg)
	if err != nil {
		log.Debug().Err(err).Msg("identity token verification failed")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid identity token", "redirect": "/sign-in"})
		return
	}

	user, err := h.userRepo.UpsertByExternalID(c.Request.Context(), claims.Subject, utils.NormalizeEmail(claims.Email), claims.Name, claims.CPF)
	if err != nil {
		log.Error().Err(err).Msg("failed to upsert user on session exchange")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create user"})
		return
	}

	token, err := utils.GenerateAPIToken(user.ID, h.cfg)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, models.SessionExchangeResponse{
		Token: token,
		User:  *user,
	})
}

// GetMe returns the caller's profile alongside the entitlement state the
// frontend uses to route to purchase/pending pages.
func (h *AuthHandler) GetMe(c *gin.Context) {
	user := middleware.UserFromContext(c)
	s := middleware.ScopeFromContext(c)
	if user == nil || s == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated", "redirect": "/sign-in"})
		return
	}

	decision := access.Evaluate(access.Input{
		User:           user,
		Tenant:         middleware.TenantFromContext(c),
		MembershipRole: s.MembershipRole,
		Route:          access.RouteClassPaid,
	})

	resp := models.MeResponse{
		User:           *user,
		TenantSlug:     s.TenantSlug,
		MembershipRole: string(s.MembershipRole),
		Entitled:       decision.Allowed,
	}
	if !decision.Allowed {
		resp.EntitlementState = string(decision.Reason)
	}

	c.JSON(http.StatusOK, resp)
}
