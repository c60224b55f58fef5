package benchmarks

import (
	"testing"

	"github.com/randalmurphal/evaltree/pkg/evaltree"
)

// noopCallable does minimal work to measure invocation overhead.
func noopCallable(ctx evaltree.Context, args []evaltree.Value) (evaltree.Value, error) {
	return "ok", nil
}

// BenchmarkNewLiteral measures node construction overhead.
func BenchmarkNewLiteral(b *testing.B) {
	for i := 0; i < b.N; i++ {
		evaltree.NewLiteral(42)
	}
}

// BenchmarkBuildChain_10 builds a 10-level fallback chain.
func BenchmarkBuildChain_10(b *testing.B) {
	for i := 0; i < b.N; i++ {
		buildFallbackChain(10)
	}
}

// BenchmarkBuildChain_100 builds a 100-level fallback chain.
func BenchmarkBuildChain_100(b *testing.B) {
	for i := 0; i < b.N; i++ {
		buildFallbackChain(100)
	}
}

// BenchmarkCompile_Chain_5 compiles a 5-level fallback chain.
func BenchmarkCompile_Chain_5(b *testing.B) {
	tree := buildFallbackChain(5)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = evaltree.Compile(tree)
	}
}

// BenchmarkCompile_Chain_10 compiles a 10-level fallback chain.
func BenchmarkCompile_Chain_10(b *testing.B) {
	tree := buildFallbackChain(10)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = evaltree.Compile(tree)
	}
}

// BenchmarkCompile_Chain_50 compiles a 50-level fallback chain.
func BenchmarkCompile_Chain_50(b *testing.B) {
	tree := buildFallbackChain(50)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = evaltree.Compile(tree)
	}
}

// BenchmarkCompile_Chain_100 compiles a 100-level fallback chain.
func BenchmarkCompile_Chain_100(b *testing.B) {
	tree := buildFallbackChain(100)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = evaltree.Compile(tree)
	}
}

// BenchmarkCompile_WideCall compiles a call with 50 arguments.
func BenchmarkCompile_WideCall(b *testing.B) {
	tree := buildWideCall(50)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = evaltree.Compile(tree)
	}
}

// BenchmarkValidate_Chain_100 validates a 100-level fallback chain.
func BenchmarkValidate_Chain_100(b *testing.B) {
	tree := buildFallbackChain(100)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = evaltree.Validate(tree)
	}
}

// Helper functions

// buildFallbackChain returns raise ??? (raise ??? (... ??? "value"))
// with n coalesce levels. Evaluating it takes every fallback.
func buildFallbackChain(n int) evaltree.Node {
	tree := evaltree.Node(evaltree.NewLiteral("value"))
	for i := 0; i < n; i++ {
		tree = evaltree.NewExceptionCoalesce(evaltree.NewRaise("miss"), tree)
	}
	return tree
}

// buildShortCircuitChain returns "hit" ??? (raise ??? (... ??? "value")).
// Evaluating it touches two nodes regardless of n.
func buildShortCircuitChain(n int) evaltree.Node {
	return evaltree.NewExceptionCoalesce(
		evaltree.NewLiteral("hit"),
		buildFallbackChain(n-1),
	)
}

// buildTernaryChain returns a chain of n ternaries, each taking the
// else branch into the next.
func buildTernaryChain(n int) evaltree.Node {
	tree := evaltree.Node(evaltree.NewLiteral("bottom"))
	for i := 0; i < n; i++ {
		tree = evaltree.NewTernary(
			evaltree.NewLiteral(false),
			evaltree.NewLiteral("then"),
			tree,
		)
	}
	return tree
}

// buildWideCall returns fn(lit, lit, ...) with n literal arguments.
func buildWideCall(n int) evaltree.Node {
	args := make([]evaltree.Node, n)
	for i := range args {
		args[i] = evaltree.NewLiteral(i)
	}
	return evaltree.NewCall(evaltree.NewVariableRef("fn"), args...)
}
