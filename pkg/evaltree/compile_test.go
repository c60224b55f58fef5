package evaltree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompile(t *testing.T) {
	tree := NewExceptionCoalesce(
		NewCall(NewVariableRef("f"), NewVariableRef("x")),
		NewLiteral("fallback"),
	)

	compiled, err := Compile(tree)

	require.NoError(t, err)
	assert.Same(t, Node(tree), compiled.Root())
	assert.Equal(t, 5, compiled.NodeCount())
	assert.Equal(t, []string{"f", "x"}, compiled.VariableNames())
}

func TestCompile_Invalid(t *testing.T) {
	compiled, err := Compile(&ExceptionCoalesce{LHS: NewLiteral(1), RHS: nil})

	require.Error(t, err)
	assert.Nil(t, compiled)
	assert.True(t, IsMalformed(err))
}

func TestCompile_NilRoot(t *testing.T) {
	compiled, err := Compile(nil)

	require.Error(t, err)
	assert.Nil(t, compiled)
}

// TestCompile_SharedSubtreeCounts checks per-occurrence counting: one
// subtree under two parents counts twice.
func TestCompile_SharedSubtreeCounts(t *testing.T) {
	shared := NewVariableRef("x")
	tree := NewNullCoalesce(shared, shared)

	compiled, err := Compile(tree)

	require.NoError(t, err)
	assert.Equal(t, 3, compiled.NodeCount())
	assert.Equal(t, []string{"x"}, compiled.VariableNames(), "names are deduplicated")
}

func TestCompile_VariableNamesSorted(t *testing.T) {
	tree := NewCall(NewVariableRef("zeta"), NewVariableRef("alpha"), NewVariableRef("mid"))

	compiled, err := Compile(tree)

	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, compiled.VariableNames())
}

// TestCompile_VariableNamesCopy checks that mutating the returned slice
// does not corrupt the compiled tree.
func TestCompile_VariableNamesCopy(t *testing.T) {
	compiled := MustCompile(NewVariableRef("x"))

	names := compiled.VariableNames()
	names[0] = "mutated"

	assert.Equal(t, []string{"x"}, compiled.VariableNames())
}

func TestMustCompile(t *testing.T) {
	assert.NotPanics(t, func() { MustCompile(NewLiteral(1)) })
	assert.Panics(t, func() { MustCompile(nil) })
}
