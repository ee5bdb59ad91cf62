package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/fithub/fithub-onboarding/internal/resilience"
)

// RateLimit throttles requests per client IP. A nil limiter disables it.
func RateLimit(limiter *resilience.KeyedLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter != nil && !limiter.Allow(c.ClientIP()) {
			c.Header("Retry-After", "1")
			abort(c, errRateLimited)
			return
		}
		c.Next()
	}
}
