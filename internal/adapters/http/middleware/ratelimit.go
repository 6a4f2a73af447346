package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
)

// Limiter admits or rejects one request by subject in scope.
type Limiter interface {
	Allow(ctx context.Context, scope, subject string) error
}

// RateLimit charges each request to the client IP's budget in scope.
func RateLimit(limiter Limiter, scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		subject := c.ClientIP()
		if subject == "" {
			subject = "unknown"
		}

		if err := limiter.Allow(c.Request.Context(), scope, subject); err != nil {
			_ = c.Error(err)
			c.Abort()

			return
		}

		c.Next()
	}
}
