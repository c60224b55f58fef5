package evaltree

import (
	"log/slog"

	"github.com/randalmurphal/evaltree/pkg/evaltree/observability"
)

// evalConfig holds configuration for a single Evaluate call.
type evalConfig struct {
	logger         *slog.Logger
	metrics        observability.MetricsRecorder
	spans          observability.SpanManager
	tracingEnabled bool
	recorder       TraceRecorder
	maxDepth       int
}

// defaultEvalConfig returns the default evaluation configuration.
func defaultEvalConfig() evalConfig {
	return evalConfig{
		metrics:  observability.NoopMetrics{},
		spans:    observability.NoopSpanManager{},
		maxDepth: 1000,
	}
}

// Option configures evaluation behavior.
type Option func(*evalConfig)

// WithObservabilityLogger sets the logger for evaluation lifecycle logs.
// Default: no logging. Fallback logs state only which operator fell back,
// never the discarded exception.
//
// Example:
//
//	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
//	outcome, err := compiled.Evaluate(ctx, env,
//	    evaltree.WithObservabilityLogger(logger))
func WithObservabilityLogger(logger *slog.Logger) Option {
	return func(c *evalConfig) {
		c.logger = logger
	}
}

// WithMetrics enables OpenTelemetry metrics for the evaluation.
// Default: disabled (no-op recorder).
//
// Uses the global OTel meter provider; configure it before evaluating.
func WithMetrics(enabled bool) Option {
	return func(c *evalConfig) {
		if enabled {
			c.metrics = observability.NewMetricsRecorder()
		} else {
			c.metrics = observability.NoopMetrics{}
		}
	}
}

// WithTracing enables OpenTelemetry spans for the evaluation: one span for
// the whole call with a child span per node. Default: disabled.
//
// Uses the global OTel tracer provider; configure it before evaluating.
func WithTracing(enabled bool) Option {
	return func(c *evalConfig) {
		c.tracingEnabled = enabled
		if enabled {
			c.spans = observability.NewSpanManager()
		} else {
			c.spans = observability.NoopSpanManager{}
		}
	}
}

// WithTraceRecorder attaches a recorder that receives a TraceEvent for
// every step of the evaluation. Default: none.
//
// Example:
//
//	col := trace.NewCollector()
//	outcome, err := compiled.Evaluate(ctx, env,
//	    evaltree.WithTraceRecorder(col))
func WithTraceRecorder(r TraceRecorder) Option {
	return func(c *evalConfig) {
		c.recorder = r
	}
}

// WithMaxDepth sets the maximum tree depth the walk will follow.
// Default: 1000
//
// The bound makes evaluation of a cyclic tree that skipped Validate fail
// deterministically with a malformed-tree error instead of recursing
// forever. Values below 1 are ignored.
func WithMaxDepth(n int) Option {
	return func(c *evalConfig) {
		if n > 0 {
			c.maxDepth = n
		}
	}
}
