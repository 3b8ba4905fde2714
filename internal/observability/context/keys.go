// Package context carries request-scoped observability identifiers.
package context

import "context"

type contextKey string

const (
	requestIDKey  contextKey = "observability_request_id"
	clientAddrKey contextKey = "observability_client_addr"
)

func WithRequestID(ctx context.Context, requestID string) context.Context {
	if ctx == nil || requestID == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, requestID)
}

func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(requestIDKey).(string)
	return value
}

func WithClientAddr(ctx context.Context, addr string) context.Context {
	if ctx == nil || addr == "" {
		return ctx
	}
	return context.WithValue(ctx, clientAddrKey, addr)
}

func ClientAddrFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(clientAddrKey).(string)
	return value
}
