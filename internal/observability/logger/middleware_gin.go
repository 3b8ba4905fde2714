package logger

import (
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	obscontext "github.com/Angelito-Alit/comments-api/internal/observability/context"
)

const requestIDHeader = "X-Request-Id"

// MiddlewareConfig tunes the request-logging middleware.
type MiddlewareConfig struct {
	// Node generates request ids. A default node is created when nil.
	Node *snowflake.Node
	// SkipPaths lists routes that log nothing (health probes, metrics).
	SkipPaths []string
}

// GinMiddleware assigns every request an id, exposes it as X-Request-Id,
// and logs one line per request with masked headers.
func GinMiddleware(cfg MiddlewareConfig) (gin.HandlerFunc, error) {
	node := cfg.Node
	if node == nil {
		var err error
		node, err = snowflake.NewNode(0)
		if err != nil {
			return nil, err
		}
	}
	skip := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, path := range cfg.SkipPaths {
		skip[path] = struct{}{}
	}

	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if requestID == "" {
			requestID = node.Generate().String()
		}
		c.Set("request_id", requestID)
		c.Writer.Header().Set(requestIDHeader, requestID)

		ctx := obscontext.WithRequestID(c.Request.Context(), requestID)
		ctx = obscontext.WithClientAddr(ctx, c.ClientIP())
		c.Request = c.Request.WithContext(ctx)

		if _, ok := skip[c.Request.URL.Path]; ok {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		log := FromContext(ctx)
		fields := []zap.Field{
			zap.String("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client", c.ClientIP()),
		}
		if c.Writer.Status() >= 400 {
			fields = append(fields, zap.Any("headers", MaskHeaders(c.Request.Header)))
			log.Warn("http request", fields...)
			return
		}
		log.Info("http request", fields...)
	}, nil
}
