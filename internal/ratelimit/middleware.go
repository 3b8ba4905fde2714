package ratelimit

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Middleware rejects requests with 429 once the client exceeds the limiter's
// policy. The client key is the forwarded address when an upstream proxy set
// one, otherwise the peer address.
func Middleware(limiter *Limiter, log *zap.Logger) gin.HandlerFunc {
	policy := limiter.Policy()
	return func(c *gin.Context) {
		client := ClientKey(c)
		decision := limiter.Allow(client)
		if decision.Allowed {
			c.Header("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
			c.Next()
			return
		}

		log.Warn("rate limit exceeded",
			zap.String("client", client),
			zap.String("path", c.Request.URL.Path),
		)
		c.Header("Retry-After", strconv.Itoa(retryAfterSeconds(decision.RetryAfter)))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"error":       "Rate limit exceeded",
			"message":     fmt.Sprintf("Maximum %d requests per %s", policy.MaxRequests, policy.Window),
			"status_code": http.StatusTooManyRequests,
		})
	}
}

// ClientKey extracts the rate-limit key for a request.
func ClientKey(c *gin.Context) string {
	forwarded := strings.TrimSpace(c.GetHeader("X-Forwarded-For"))
	if forwarded != "" {
		// First hop is the originating client.
		if idx := strings.Index(forwarded, ","); idx >= 0 {
			forwarded = forwarded[:idx]
		}
		return strings.TrimSpace(forwarded)
	}
	return c.ClientIP()
}

func retryAfterSeconds(d time.Duration) int {
	seconds := int((d + time.Second - 1) / time.Second)
	if seconds < 1 {
		seconds = 1
	}
	return seconds
}
