package middleware

import (
	"context"
	"net/http"

	"github.com/AlanGiacomini/orders-api/internal/logging"
	"github.com/gin-gonic/gin"
)

// Limiter decides admission per identity. Implemented by the Redis
// sliding-window adapter.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RateLimit bounds request rate per authenticated subject, falling back to
// the client address for anonymous calls. Runs after Authz so the subject
// is available.
func RateLimit(limiter Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "rate:ip:" + c.ClientIP()
		if sub := c.GetString(SubjectKey); sub != "" {
			key = "rate:user:" + sub
		}

		allowed, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			// Admission control must not take the API down with it.
			logging.From(c).Error("rate limiter unavailable, admitting", "error", err)
			c.Next()
			return
		}
		if !allowed {
			rateLimited.Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Rate limit exceeded. Try again later.",
			})
			return
		}
		c.Next()
	}
}
