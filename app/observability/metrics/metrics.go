// Package metrics defines the operation metrics every service records and
// their Prometheus and no-op implementations.
package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// OperationMetrics is recorded by the withTelemetry wrapper of each service.
type OperationMetrics interface {
	RecordOperationAttempt(ctx context.Context, operation, service string)
	RecordOperationSuccess(ctx context.Context, operation, service string)
	RecordOperationFailure(ctx context.Context, operation, service string)
	RecordOperationDuration(ctx context.Context, operation, service string, duration time.Duration)
}

// ScoringMetrics adds the ledger counters of the scoring orchestrator.
type ScoringMetrics interface {
	OperationMetrics
	RecordLedgerRowsWritten(ctx context.Context, rows int)
	RecordMatchSkipped(ctx context.Context, reason string)
}

// Prometheus implements ScoringMetrics (and therefore OperationMetrics).
type Prometheus struct {
	attempts   *prometheus.CounterVec
	successes  *prometheus.CounterVec
	failures   *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	ledgerRows prometheus.Counter
	skipped    *prometheus.CounterVec
}

var _ ScoringMetrics = (*Prometheus)(nil)

// NewPrometheus creates the collectors and registers them on reg.
func NewPrometheus(reg prometheus.Registerer, namespace string) *Prometheus {
	labels := []string{"operation", "service"}
	p := &Prometheus{
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operation_attempts_total",
			Help:      "Service operations started.",
		}, labels),
		successes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operation_success_total",
			Help:      "Service operations that returned without an infrastructure error.",
		}, labels),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operation_failure_total",
			Help:      "Service operations that failed with an infrastructure error or panic.",
		}, labels),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Service operation latency.",
			Buckets:   prometheus.DefBuckets,
		}, labels),
		ledgerRows: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_rows_written_total",
			Help:      "Ledger rows written by match scoring.",
		}),
		skipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "match_scoring_skipped_total",
			Help:      "Scoring requests that were no-ops, by reason.",
		}, []string{"reason"}),
	}
	reg.MustRegister(p.attempts, p.successes, p.failures, p.duration, p.ledgerRows, p.skipped)
	return p
}

func (p *Prometheus) RecordOperationAttempt(_ context.Context, operation, service string) {
	p.attempts.WithLabelValues(operation, service).Inc()
}

func (p *Prometheus) RecordOperationSuccess(_ context.Context, operation, service string) {
	p.successes.WithLabelValues(operation, service).Inc()
}

func (p *Prometheus) RecordOperationFailure(_ context.Context, operation, service string) {
	p.failures.WithLabelValues(operation, service).Inc()
}

func (p *Prometheus) RecordOperationDuration(_ context.Context, operation, service string, duration time.Duration) {
	p.duration.WithLabelValues(operation, service).Observe(duration.Seconds())
}

func (p *Prometheus) RecordLedgerRowsWritten(_ context.Context, rows int) {
	p.ledgerRows.Add(float64(rows))
}

func (p *Prometheus) RecordMatchSkipped(_ context.Context, reason string) {
	p.skipped.WithLabelValues(reason).Inc()
}

// NoOp discards everything. Used in tests and when metrics are disabled.
type NoOp struct{}

var _ ScoringMetrics = NoOp{}

func NewNoop() NoOp { return NoOp{} }

func (NoOp) RecordOperationAttempt(context.Context, string, string) {}
func (NoOp) RecordOperationSuccess(context.Context, string, string) {}
func (NoOp) RecordOperationFailure(context.Context, string, string) {}
func (NoOp) RecordOperationDuration(context.Context, string, string, time.Duration) {}
func (NoOp) RecordLedgerRowsWritten(context.Context, int) {}
func (NoOp) RecordMatchSkipped(context.Context, string) {}
