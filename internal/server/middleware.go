package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Angelito-Alit/comments-api/internal/clock"
	"github.com/Angelito-Alit/comments-api/internal/version"
)

// Applied to every response, success or failure.
var securityHeaders = map[string]string{
	"X-Content-Type-Options":    "nosniff",
	"X-Frame-Options":           "DENY",
	"X-XSS-Protection":          "1; mode=block",
	"Strict-Transport-Security": "max-age=31536000; includeSubDomains",
	"Content-Security-Policy":   "default-src 'self'; script-src 'self' 'unsafe-inline'; style-src 'self' 'unsafe-inline';",
	"Referrer-Policy":           "strict-origin-when-cross-origin",
}

// SecurityHeaders decorates responses with the fixed security-header set,
// the API version marker and a response timestamp.
func SecurityHeaders(clk clock.Clock) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.Writer.Header()
		for key, value := range securityHeaders {
			header.Set(key, value)
		}
		header.Set("X-API-Version", version.Version)
		header.Set("X-Timestamp", clk.Now().UTC().Format(time.RFC3339))
		c.Next()
	}
}

// Recovery converts panics into the shared 500 error body instead of
// letting them kill the connection.
func Recovery(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("panic recovered",
					zap.Any("panic", r),
					zap.String("path", c.Request.URL.Path),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, &APIError{
					StatusCode: http.StatusInternalServerError,
					Code:       "internal_error",
					Message:    "internal server error",
				})
			}
		}()
		c.Next()
	}
}
