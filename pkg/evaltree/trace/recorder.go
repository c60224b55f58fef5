package trace

import (
	"log/slog"
	"sync"

	"github.com/randalmurphal/evaltree/pkg/evaltree"
)

// StoreRecorder aggregates the trace events of each evaluation into a
// Record and saves it when the eval.done event arrives.
//
// One StoreRecorder may serve concurrent evaluations; events are grouped
// by eval ID. Save failures are non-fatal: they are logged and the
// evaluation proceeds untouched.
type StoreRecorder struct {
	store  Store
	logger *slog.Logger

	mu      sync.Mutex
	pending map[string]*Record
}

// RecorderOption configures a StoreRecorder.
type RecorderOption func(*StoreRecorder)

// WithSaveLogger sets the logger used to report save failures.
// Defaults to slog.Default().
func WithSaveLogger(logger *slog.Logger) RecorderOption {
	return func(r *StoreRecorder) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewStoreRecorder creates a recorder that persists one Record per
// evaluation to store.
func NewStoreRecorder(store Store, opts ...RecorderOption) *StoreRecorder {
	r := &StoreRecorder{
		store:   store,
		logger:  slog.Default(),
		pending: make(map[string]*Record),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Record implements evaltree.TraceRecorder.
func (r *StoreRecorder) Record(ev evaltree.TraceEvent) {
	r.mu.Lock()

	rec, ok := r.pending[ev.EvalID]
	if !ok {
		// The first event for an eval ID is normally eval.start; create
		// the record here either way so a recorder attached to a stream
		// mid-evaluation still aggregates what it sees.
		rec = &Record{
			EvalID:    ev.EvalID,
			RootKind:  ev.NodeKind.String(),
			StartedAt: ev.Time,
		}
		r.pending[ev.EvalID] = rec
	}

	switch ev.Kind {
	case evaltree.TraceNodeStart:
		rec.Nodes++

	case evaltree.TraceFallback, evaltree.TraceNullFallback:
		rec.Fallbacks++

	case evaltree.TraceEvalDone:
		rec.Raised = ev.Raised
		rec.Err = ev.Err
		rec.Duration = ev.Time.Sub(rec.StartedAt)
		delete(r.pending, ev.EvalID)
		r.mu.Unlock()

		if err := r.store.Save(*rec); err != nil {
			r.logger.Error("trace record save failed",
				slog.String("eval_id", rec.EvalID),
				slog.String("error", err.Error()))
		}
		return
	}

	r.mu.Unlock()
}

// Pending returns the number of evaluations seen but not yet finished.
// Useful for testing.
func (r *StoreRecorder) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending)
}
