package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/gab-cat/qpi-calculator-sub000/pkg/redis"
	"github.com/gab-cat/qpi-calculator-sub000/pkg/response"
)

// RateLimit throttles a route group per client IP using a fixed Redis
// window. With no Redis client, or when Redis errors, requests pass:
// the limiter protects against abuse, it is not a correctness gate.
func RateLimit(client *redis.Client, logger *zap.Logger, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if client == nil {
			c.Next()
			return
		}

		key := c.ClientIP() + ":" + c.FullPath()
		allowed, err := client.CheckRateLimit(c.Request.Context(), key, limit, window)
		if err != nil {
			logger.Warn("rate limit check failed, allowing request", zap.Error(err))
			c.Next()
			return
		}
		if !allowed {
			response.Error(c, http.StatusTooManyRequests, 42900, "too many requests")
			c.Abort()
			return
		}
		c.Next()
	}
}
