package context

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// RequestIDFromGin resolves the request id from the request context first,
// falling back to the gin key set by the logging middleware.
func RequestIDFromGin(c *gin.Context) string {
	if c == nil {
		return ""
	}
	if ctx := c.Request.Context(); ctx != nil {
		if value := RequestIDFromContext(ctx); value != "" {
			return value
		}
	}
	if value := strings.TrimSpace(c.GetString("request_id")); value != "" {
		return value
	}
	return ""
}

// ClientAddrFromGin resolves the client address seen by the middleware,
// falling back to gin's own resolution.
func ClientAddrFromGin(c *gin.Context) string {
	if c == nil {
		return ""
	}
	if ctx := c.Request.Context(); ctx != nil {
		if value := ClientAddrFromContext(ctx); value != "" {
			return value
		}
	}
	return c.ClientIP()
}
