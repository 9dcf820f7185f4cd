package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/ortoclub/platform-api/internal/cache"
)

// RateLimit bounds unauthenticated endpoints (waitlist signup, session
// exchange) per client IP. Redis being down degrades to allowing the
// request: rate limiting is abuse protection, not authorization, and must
// not take the public surface down with it.
func RateLimit(redisClient *cache.Client, name string, max int64, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("ratelimit:%s:%s", name, c.ClientIP())

		count, err := redisClient.IncrWithTTL(c.Request.Context(), key, window)
		if err != nil {
			log.Warn().Err(err).Str("limiter", name).Msg("rate limit check failed")
			c.Next()
			return
		}

		if count > max {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			c.Abort()
			return
		}

		c.Next()
	}
}
