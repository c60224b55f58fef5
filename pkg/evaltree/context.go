package evaltree

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// Context provides evaluation context to callables.
// It extends context.Context with evaltree-specific services and metadata.
//
// Context is immutable after creation. The evaluator itself never polls
// Done(): evaluation is synchronous and runs to completion. The embedded
// context.Context is for callables' own use (deadlines on I/O they
// perform, values they look up).
type Context interface {
	context.Context

	// Logger returns the configured logger.
	// Never returns nil - defaults to slog.Default() if not configured.
	Logger() *slog.Logger

	// EvalID returns the unique identifier for this evaluation.
	// Auto-generated if not configured.
	EvalID() string
}

// evalContext is the internal implementation of Context.
type evalContext struct {
	context.Context

	logger *slog.Logger
	evalID string
}

// Logger returns the configured logger.
func (c *evalContext) Logger() *slog.Logger {
	return c.logger
}

// EvalID returns the evaluation identifier.
func (c *evalContext) EvalID() string {
	return c.evalID
}

// ContextOption configures a Context.
type ContextOption func(*evalContext)

// WithLogger sets the logger for the context.
func WithLogger(logger *slog.Logger) ContextOption {
	return func(c *evalContext) {
		c.logger = logger
	}
}

// WithEvalID sets the evaluation identifier for the context.
// If not set, a UUID is auto-generated. The ID appears in logs, trace
// events, and evaluation history records.
func WithEvalID(id string) ContextOption {
	return func(c *evalContext) {
		c.evalID = id
	}
}

// NewContext creates an evaluation context from a standard context.
//
// Example:
//
//	ctx := evaltree.NewContext(context.Background(),
//	    evaltree.WithLogger(myLogger),
//	    evaltree.WithEvalID("eval-123"))
func NewContext(ctx context.Context, opts ...ContextOption) Context {
	ec := &evalContext{
		Context: ctx,
		logger:  slog.Default(),
		evalID:  uuid.New().String(),
	}

	for _, opt := range opts {
		opt(ec)
	}

	return ec
}
