// Package observability bundles the logger, tracer provider and metrics
// every module is built with.
package observability

import (
	"io"
	"log/slog"

	"github.com/matchday-pool/predictor/app/observability/logging"
	"github.com/matchday-pool/predictor/app/observability/metrics"
	"github.com/matchday-pool/predictor/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

type Observability struct {
	Logger   *slog.Logger
	Metrics  metrics.ScoringMetrics
	Registry *prometheus.Registry // nil when metrics are disabled
	tracers  trace.TracerProvider
}

// New builds the process observability from config. Logs go to w.
func New(cfg *config.Config, w io.Writer) *Observability {
	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format, w).With(
		slog.String("environment", cfg.Observability.Environment),
	)

	obs := &Observability{
		Logger:  logger,
		Metrics: metrics.NewNoop(),
		tracers: otel.GetTracerProvider(),
	}
	if cfg.Observability.MetricsEnabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		obs.Registry = reg
		obs.Metrics = metrics.NewPrometheus(reg, cfg.Observability.Namespace)
	}
	return obs
}

// Tracer returns the named tracer from the global provider.
func (o *Observability) Tracer(name string) trace.Tracer {
	return o.tracers.Tracer(name)
}

// Gatherer is what /metrics serves, or nil when metrics are disabled.
func (o *Observability) Gatherer() prometheus.Gatherer {
	if o.Registry == nil {
		return nil
	}
	return o.Registry
}
