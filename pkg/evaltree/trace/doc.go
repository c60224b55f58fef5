/*
Package trace provides diagnostic recording for evaltree evaluations:
an in-memory collector, recorder combinators, and evaluation history
stores.

# Collector

Collector accumulates the TraceEvents of an evaluation and answers the
questions a determinism test asks: which nodes evaluated, in what order,
how many times.

	col := trace.NewCollector()
	outcome, err := compiled.Evaluate(ctx, env,
	    evaltree.WithTraceRecorder(col))

	col.Order()        // nodes in evaluation order
	col.CountFor(node) // evaluations of one node
	col.Fallbacks()    // coalesce fallbacks taken

# Combinators

Recorders compose: Multi fans out to several recorders, Filter passes
selected event kinds, and Middleware wraps recorders with cross-cutting
behavior.

	rec := trace.Chain(col, loggingMiddleware)
	rec = trace.Multi(rec, trace.Filter(other, evaltree.TraceFallback))

# History

Record summarizes a finished evaluation (outcome tag, node and fallback
counts, duration). Store persists records; MemoryStore keeps them in
memory and SQLiteStore survives restarts. StoreRecorder bridges the two
worlds, turning an event stream into saved records.

	store, _ := trace.NewSQLiteStore("./evals.db")
	defer store.Close()

	outcome, err := compiled.Evaluate(ctx, env,
	    evaltree.WithTraceRecorder(trace.NewStoreRecorder(store)))

Events and records carry node identity and outcome tags only. A
discarded coalesce exception never appears in either, and expression
trees themselves are never persisted.
*/
package trace
