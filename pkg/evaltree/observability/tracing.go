package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracer is the evaltree tracer instance.
// Uses the global OTel tracer provider.
var tracer = otel.Tracer("evaltree")

// SpanManager handles trace span lifecycle.
// Use NewSpanManager() for OTel tracing or NoopSpanManager{} when disabled.
type SpanManager interface {
	// StartEvalSpan starts a span for the entire evaluation.
	// Returns the context with span and the span itself.
	StartEvalSpan(ctx context.Context, rootKind, evalID string) (context.Context, trace.Span)

	// StartNodeSpan starts a span for a node evaluation.
	// The node span should be a child of the eval span.
	StartNodeSpan(ctx context.Context, kind string) (context.Context, trace.Span)

	// EndSpanWithError completes a span, optionally recording an error.
	// Only host-level errors reach this; raised outcomes are normal
	// results and leave spans Ok.
	EndSpanWithError(span trace.Span, err error)

	// AddSpanEvent adds an event to the current span in context.
	AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue)
}

// otelSpanManager implements SpanManager using OpenTelemetry.
type otelSpanManager struct{}

// NewSpanManager returns a SpanManager that uses OpenTelemetry.
//
// The span manager uses the global OTel tracer provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetTracerProvider(yourProvider)
func NewSpanManager() SpanManager {
	return &otelSpanManager{}
}

// StartEvalSpan starts a span for the entire evaluation.
func (m *otelSpanManager) StartEvalSpan(ctx context.Context, rootKind, evalID string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "evaltree.eval",
		trace.WithAttributes(
			attribute.String("root.kind", rootKind),
			attribute.String("eval.id", evalID),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// StartNodeSpan starts a span for a node evaluation.
func (m *otelSpanManager) StartNodeSpan(ctx context.Context, kind string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "evaltree.node."+kind,
		trace.WithAttributes(
			attribute.String("node.kind", kind),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// EndSpanWithError completes a span, optionally recording an error.
func (m *otelSpanManager) EndSpanWithError(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// AddSpanEvent adds an event to the current span.
func (m *otelSpanManager) AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	if span == nil || !span.IsRecording() {
		return
	}
	span.AddEvent(name, trace.WithAttributes(attrs...))
}

// Convenience functions that operate on the global tracer.
// These are useful for simple cases where you don't need the interface.

// StartEvalSpan starts a span for the entire evaluation.
// Uses the global OTel tracer.
func StartEvalSpan(ctx context.Context, rootKind, evalID string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "evaltree.eval",
		trace.WithAttributes(
			attribute.String("root.kind", rootKind),
			attribute.String("eval.id", evalID),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// StartNodeSpan starts a span for a node evaluation.
// Uses the global OTel tracer.
func StartNodeSpan(ctx context.Context, kind string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "evaltree.node."+kind,
		trace.WithAttributes(
			attribute.String("node.kind", kind),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// EndSpanWithError completes a span, optionally recording an error.
func EndSpanWithError(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// AddSpanEvent adds an event to the current span in context.
func AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	if span == nil || !span.IsRecording() {
		return
	}
	span.AddEvent(name, trace.WithAttributes(attrs...))
}
