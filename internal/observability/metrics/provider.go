package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
)

// NewRegistry builds the Prometheus registry backing GET /metrics,
// pre-loaded with process and Go runtime collectors.
func NewRegistry() *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return registry
}

// NewMeterProvider bridges otel instruments into the Prometheus registry.
func NewMeterProvider(lc fx.Lifecycle, cfg Config, registry *prometheus.Registry) (*sdkmetric.MeterProvider, error) {
	opts := []otelprom.Option{otelprom.WithRegisterer(registry)}
	if cfg.Namespace != "" {
		opts = append(opts, otelprom.WithNamespace(cfg.Namespace))
	}
	exporter, err := otelprom.New(opts...)
	if err != nil {
		return nil, err
	}
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				return provider.Shutdown(ctx)
			},
		})
	}
	return provider, nil
}
