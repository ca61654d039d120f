package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValuesEqual(t *testing.T) {
	tests := []struct {
		name      string
		actual    any
		expected  any
		tolerance float64
		want      bool
	}{
		{name: "equal ints", actual: 3, expected: 3, want: true},
		{name: "int vs float", actual: 3, expected: 3.0, want: true},
		{name: "int64 vs float", actual: int64(5), expected: 5.0, want: true},
		{name: "unequal numbers", actual: 3, expected: 4, want: false},
		{name: "within tolerance", actual: 0.30000000000000004, expected: 0.3, tolerance: 0.0001, want: true},
		{name: "outside tolerance", actual: 0.31, expected: 0.3, tolerance: 0.0001, want: false},
		{name: "zero tolerance is exact", actual: 0.30000000000000004, expected: 0.3, want: false},
		{name: "equal strings", actual: "abc", expected: "abc", want: true},
		{name: "unequal strings", actual: "abc", expected: "abd", want: false},
		{name: "number vs string", actual: 1.0, expected: "1", want: false},
		{name: "both nil", actual: nil, expected: nil, want: true},
		{name: "nil vs value", actual: nil, expected: 0, want: false},
		{name: "value vs nil", actual: 0, expected: nil, want: false},
		{name: "equal bools", actual: true, expected: true, want: true},
		{name: "equal lists", actual: []any{1.0, 2.0}, expected: []any{1, 2}, want: true},
		{name: "list order matters", actual: []any{1, 2}, expected: []any{2, 1}, want: false},
		{name: "list length differs", actual: []any{1}, expected: []any{1, 2}, want: false},
		{name: "empty lists", actual: []any{}, expected: []any{}, want: true},
		{name: "nested lists with tolerance", actual: []any{[]any{0.1001}}, expected: []any{[]any{0.1}}, tolerance: 0.001, want: true},
		{
			name:     "maps ignore key order",
			actual:   map[string]any{"a": 1.0, "b": "x"},
			expected: map[string]any{"b": "x", "a": 1},
			want:     true,
		},
		{
			name:     "map extra key",
			actual:   map[string]any{"a": 1, "b": 2},
			expected: map[string]any{"a": 1},
			want:     false,
		},
		{
			name:     "map missing key",
			actual:   map[string]any{"a": 1},
			expected: map[string]any{"a": 1, "b": 2},
			want:     false,
		},
		{name: "map vs list", actual: map[string]any{}, expected: []any{}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, valuesEqual(tt.actual, tt.expected, tt.tolerance))
		})
	}
}

func TestMatchesShape(t *testing.T) {
	tests := []struct {
		name  string
		value any
		shape map[string]any
		want  bool
	}{
		{
			name:  "type tags match",
			value: map[string]any{"name": "Ada", "age": 36.0},
			shape: map[string]any{"name": "string", "age": "number"},
			want:  true,
		},
		{
			name:  "type tag mismatch",
			value: map[string]any{"age": "36"},
			shape: map[string]any{"age": "number"},
			want:  false,
		},
		{
			name:  "literal value match",
			value: map[string]any{"name": "Grace", "age": 45.0},
			shape: map[string]any{"name": "Grace", "age": 45},
			want:  true,
		},
		{
			name:  "literal value mismatch",
			value: map[string]any{"name": "Grace"},
			shape: map[string]any{"name": "Ada"},
			want:  false,
		},
		{
			name:  "missing key",
			value: map[string]any{"name": "Ada"},
			shape: map[string]any{"name": "string", "id": "string"},
			want:  false,
		},
		{
			name:  "extra keys allowed",
			value: map[string]any{"name": "Ada", "extra": true},
			shape: map[string]any{"name": "string"},
			want:  true,
		},
		{
			name:  "array tag",
			value: map[string]any{"items": []any{1, 2}},
			shape: map[string]any{"items": "array"},
			want:  true,
		},
		{
			name:  "array is not object",
			value: map[string]any{"items": []any{}},
			shape: map[string]any{"items": "object"},
			want:  false,
		},
		{
			name:  "boolean tag",
			value: map[string]any{"ok": true},
			shape: map[string]any{"ok": "boolean"},
			want:  true,
		},
		{
			name:  "non-tag string is literal",
			value: map[string]any{"kind": "admin"},
			shape: map[string]any{"kind": "admin"},
			want:  true,
		},
		{name: "non-object value", value: "str", shape: map[string]any{"a": "string"}, want: false},
		{name: "nil value", value: nil, shape: map[string]any{}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, matchesShape(tt.value, tt.shape))
		})
	}
}

func TestRuntimeKind(t *testing.T) {
	assert.Equal(t, "number", runtimeKind(1.5))
	assert.Equal(t, "number", runtimeKind(int64(2)))
	assert.Equal(t, "string", runtimeKind("x"))
	assert.Equal(t, "boolean", runtimeKind(false))
	assert.Equal(t, "array", runtimeKind([]any{}))
	assert.Equal(t, "object", runtimeKind(map[string]any{}))
	assert.Equal(t, "null", runtimeKind(nil))
}
