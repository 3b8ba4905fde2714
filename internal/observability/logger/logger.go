// Package logger owns the process-wide zap logger and request logging.
package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config selects the logger profile.
type Config struct {
	Environment string
	Level       string
}

// New builds the process logger and installs it as the zap global.
func New(cfg Config) (*zap.Logger, error) {
	var zcfg zap.Config
	if cfg.Environment == "production" {
		zcfg = zap.NewProductionConfig()
	} else {
		zcfg = zap.NewDevelopmentConfig()
	}
	if level, err := zapcore.ParseLevel(cfg.Level); err == nil {
		zcfg.Level = zap.NewAtomicLevelAt(level)
	}

	log, err := zcfg.Build()
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(log)
	return log, nil
}

// FromContext returns the global logger, annotated with trace identifiers
// when the context carries a valid span.
func FromContext(ctx context.Context) *zap.Logger {
	log := zap.L()
	if ctx == nil {
		return log
	}
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return log
	}
	return log.With(
		zap.String("trace_id", sc.TraceID().String()),
		zap.String("span_id", sc.SpanID().String()),
	)
}
