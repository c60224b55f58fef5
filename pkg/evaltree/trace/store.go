package trace

import (
	"errors"
	"time"
)

// Record summarizes one finished evaluation for history stores. It
// carries outcome tags and counts only: no expression tree and no
// exception contents.
type Record struct {
	// EvalID identifies the evaluation.
	EvalID string `json:"eval_id"`

	// RootKind is the kind name of the root node.
	RootKind string `json:"root_kind"`

	// Raised reports whether the final outcome raised.
	Raised bool `json:"raised"`

	// Err is the host error text when the walk aborted, empty otherwise.
	Err string `json:"err,omitempty"`

	// Nodes is the number of node evaluations performed.
	Nodes int `json:"nodes"`

	// Fallbacks is the number of coalesce fallbacks taken.
	Fallbacks int `json:"fallbacks"`

	// Duration is the wall time from eval.start to eval.done.
	Duration time.Duration `json:"duration"`

	// StartedAt is when the evaluation began.
	StartedAt time.Time `json:"started_at"`
}

// Store persists evaluation records.
// Implementations must be safe for concurrent use.
type Store interface {
	// Save stores a record, overwriting any existing record with the
	// same eval ID.
	Save(rec Record) error

	// Get retrieves a record by eval ID.
	// Returns ErrNotFound if it doesn't exist.
	Get(evalID string) (Record, error)

	// Recent returns up to limit records, most recent first.
	// A non-positive limit returns an empty slice.
	Recent(limit int) ([]Record, error)

	// Delete removes a record.
	// Returns nil if the record doesn't exist.
	Delete(evalID string) error

	// Close releases any resources (connections, files).
	Close() error
}

// Sentinel errors for store operations.
var (
	// ErrNotFound indicates a record doesn't exist.
	ErrNotFound = errors.New("record not found")

	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("trace store closed")
)
