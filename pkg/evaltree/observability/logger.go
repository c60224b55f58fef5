// Package observability provides production-grade observability features
// for evaltree: structured logging, metrics, and distributed tracing.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
//
// None of the helpers accept exception data: a discarded coalesce
// exception must not reach logs, metrics, or spans, so the signatures
// leave it no way in.
package observability

import (
	"log/slog"
	"time"
)

// EnrichLogger adds evaluation context to a logger.
// Returns a new logger with the eval_id field.
//
// Example:
//
//	enriched := EnrichLogger(logger, "eval-123")
//	enriched.Info("resolving bindings") // includes eval_id
func EnrichLogger(logger *slog.Logger, evalID string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("eval_id", evalID),
	)
}

// LogEvalStart logs the start of an evaluation.
func LogEvalStart(logger *slog.Logger, evalID, rootKind string) {
	if logger == nil {
		return
	}
	logger.Info("evaluation starting",
		slog.String("eval_id", evalID),
		slog.String("root_kind", rootKind),
	)
}

// LogEvalComplete logs a finished evaluation. A raised outcome is a
// completed evaluation, not an error; the raised tag records which.
func LogEvalComplete(logger *slog.Logger, evalID string, durationMs float64, nodeCount int, raised bool) {
	if logger == nil {
		return
	}
	logger.Info("evaluation completed",
		slog.String("eval_id", evalID),
		slog.Float64("duration_ms", durationMs),
		slog.Int("nodes_evaluated", nodeCount),
		slog.Bool("raised", raised),
	)
}

// LogEvalError logs an evaluation aborted by a host-level error
// (malformed tree, depth overrun). Never called for raised outcomes.
func LogEvalError(logger *slog.Logger, evalID string, err error, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Error("evaluation failed",
		slog.String("eval_id", evalID),
		slog.String("error", err.Error()),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogNodeEval logs a node evaluation.
func LogNodeEval(logger *slog.Logger, kind string) {
	if logger == nil {
		return
	}
	logger.Debug("node evaluating",
		slog.String("node_kind", kind),
	)
}

// LogFallback logs a coalesce fallback. Only the operator is recorded;
// the discarded exception has no path into this call.
func LogFallback(logger *slog.Logger, operator string) {
	if logger == nil {
		return
	}
	logger.Debug("fallback taken",
		slog.String("operator", operator),
	)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time in milliseconds.
//
// Example:
//
//	done := TimedOperation()
//	// ... do work ...
//	durationMs := done()
func TimedOperation() func() float64 {
	start := time.Now()
	return func() float64 {
		return float64(time.Since(start).Milliseconds())
	}
}
