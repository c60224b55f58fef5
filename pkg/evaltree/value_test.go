package evaltree

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNull(t *testing.T) {
	assert.True(t, IsNull(nil))
	assert.False(t, IsNull(0))
	assert.False(t, IsNull(""))
	assert.False(t, IsNull(false))

	// A typed nil pointer in an interface is not the null value.
	var p *int
	assert.False(t, IsNull(p))
}

func TestIsTruthy(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want bool
	}{
		{name: "nil is false", v: nil, want: false},
		{name: "true", v: true, want: true},
		{name: "false", v: false, want: false},
		{name: "empty string", v: "", want: false},
		{name: "non-empty string", v: "x", want: true},
		{name: "zero int", v: 0, want: false},
		{name: "non-zero int", v: 7, want: true},
		{name: "zero int64", v: int64(0), want: false},
		{name: "non-zero int64", v: int64(-3), want: true},
		{name: "zero float64", v: 0.0, want: false},
		{name: "non-zero float64", v: 0.5, want: true},
		{name: "zero float32", v: float32(0), want: false},
		{name: "slice is true", v: []string{}, want: true},
		{name: "map is true", v: map[string]any{}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTruthy(tt.v))
		})
	}
}

func TestToFloat64(t *testing.T) {
	assert.Equal(t, 1.5, ToFloat64(1.5))
	assert.Equal(t, 2.0, ToFloat64(float32(2)))
	assert.Equal(t, 3.0, ToFloat64(3))
	assert.Equal(t, 4.0, ToFloat64(int64(4)))
	assert.Equal(t, 5.0, ToFloat64(int32(5)))
	assert.Equal(t, 6.25, ToFloat64("6.25"))
	assert.Equal(t, 0.0, ToFloat64("not a number"))
	assert.Equal(t, 0.0, ToFloat64(nil))
	assert.Equal(t, 0.0, ToFloat64(struct{}{}))
}
