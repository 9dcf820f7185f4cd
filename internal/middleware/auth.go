package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ortoclub/platform-api/internal/config"
	"github.com/ortoclub/platform-api/internal/utils"
)

// AuthMiddleware is the edge filter: it validates the backend-scoped bearer
// token and injects the user id. It checks coarse authentication only; role
// and entitlement are re-derived later by the access middleware and again
// in handlers, with no layer trusting another.
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization header required", "redirect": "/sign-in"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization format", "redirect": "/sign-in"})
			c.Abort()
			return
		}

		claims, err := utils.ValidateAPIToken(parts[1], cfg)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token", "redirect": "/sign-in"})
			c.Abort()
			return
		}

		c.Set(ctxUserID, claims.UserID)

		c.Next()
	}
}
