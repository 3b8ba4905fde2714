// Package observability wires logging, tracing and metrics together.
package observability

import (
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/fx"

	"github.com/Angelito-Alit/comments-api/internal/config"
	"github.com/Angelito-Alit/comments-api/internal/observability/logger"
	"github.com/Angelito-Alit/comments-api/internal/observability/metrics"
	"github.com/Angelito-Alit/comments-api/internal/observability/tracing"
	"github.com/Angelito-Alit/comments-api/internal/version"
)

var Module = fx.Module("observability",
	fx.Provide(func(cfg config.Config) logger.Config {
		return logger.Config{Environment: cfg.Environment, Level: cfg.LogLevel}
	}),
	fx.Provide(logger.New),

	fx.Provide(func(cfg config.Config) tracing.Config {
		return tracing.Config{
			Enabled:          cfg.TracingEnabled,
			ServiceName:      version.ServiceName,
			ServiceVersion:   version.Version,
			Environment:      cfg.Environment,
			ExporterEndpoint: cfg.TracingEndpoint,
			ExporterProtocol: cfg.TracingProtocol,
			SamplingRatio:    cfg.TracingSampling,
		}
	}),
	fx.Provide(tracing.NewProvider),
	// Force provider construction even though handlers only use the otel
	// globals it installs.
	fx.Invoke(func(_ *sdktrace.TracerProvider) {}),

	fx.Provide(metrics.NewRegistry),
	fx.Provide(metrics.NewMeterProvider),
	fx.Provide(func(provider *sdkmetric.MeterProvider) metric.MeterProvider {
		return provider
	}),
	fx.Provide(func(cfg config.Config) metrics.Config {
		return metrics.Config{
			ServiceName: version.ServiceName,
			Namespace:   cfg.MetricsNamespace,
		}
	}),
	fx.Provide(metrics.NewHTTPMetrics),
)
