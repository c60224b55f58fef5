package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records evaltree metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordEvaluation records a completed evaluation: its outcome tag
	// and whether a host-level error aborted the walk.
	RecordEvaluation(ctx context.Context, raised bool, err error, duration time.Duration)

	// RecordNodeEval records a single node evaluation with its kind,
	// duration, and outcome tag.
	RecordNodeEval(ctx context.Context, kind string, duration time.Duration, raised bool)

	// RecordFallback records a coalesce fallback for the given operator.
	RecordFallback(ctx context.Context, operator string)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	evaluations metric.Int64Counter
	evalLatency metric.Float64Histogram
	nodeEvals   metric.Int64Counter
	nodeLatency metric.Float64Histogram
	fallbacks   metric.Int64Counter
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics returns the default OTel metrics instance.
// Lazily initializes the metrics on first call.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

// newOtelMetrics creates a new OTel metrics instance.
func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("evaltree")

	evaluations, err := meter.Int64Counter("evaltree.evaluations",
		metric.WithDescription("Number of evaluations"),
	)
	if err != nil {
		return nil, err
	}

	evalLatency, err := meter.Float64Histogram("evaltree.eval.latency_ms",
		metric.WithDescription("Evaluation latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	nodeEvals, err := meter.Int64Counter("evaltree.node.evaluations",
		metric.WithDescription("Number of node evaluations"),
	)
	if err != nil {
		return nil, err
	}

	nodeLatency, err := meter.Float64Histogram("evaltree.node.latency_ms",
		metric.WithDescription("Node evaluation latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	fallbacks, err := meter.Int64Counter("evaltree.fallbacks",
		metric.WithDescription("Number of coalesce fallbacks"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		evaluations: evaluations,
		evalLatency: evalLatency,
		nodeEvals:   nodeEvals,
		nodeLatency: nodeLatency,
		fallbacks:   fallbacks,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordEvaluation records a completed evaluation.
func (m *otelMetrics) RecordEvaluation(ctx context.Context, raised bool, err error, duration time.Duration) {
	attrs := []attribute.KeyValue{
		attribute.Bool("raised", raised),
		attribute.Bool("error", err != nil),
	}
	m.evaluations.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.evalLatency.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
}

// RecordNodeEval records a node evaluation.
func (m *otelMetrics) RecordNodeEval(ctx context.Context, kind string, duration time.Duration, raised bool) {
	attrs := []attribute.KeyValue{
		attribute.String("node_kind", kind),
		attribute.Bool("raised", raised),
	}
	m.nodeEvals.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.nodeLatency.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
}

// RecordFallback records a coalesce fallback.
func (m *otelMetrics) RecordFallback(ctx context.Context, operator string) {
	attrs := []attribute.KeyValue{
		attribute.String("operator", operator),
	}
	m.fallbacks.Add(ctx, 1, metric.WithAttributes(attrs...))
}
