package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTestCaseUnmarshalExpectedNullVsAbsent(t *testing.T) {
	var withNull TestCase
	require.NoError(t, json.Unmarshal([]byte(`{"input": [], "expected": null}`), &withNull))
	assert.True(t, withNull.HasExpected, "explicit null counts as an expectation")
	assert.Nil(t, withNull.Expected)
	assert.Equal(t, EvalModeExpected, withNull.Mode())

	var absent TestCase
	require.NoError(t, json.Unmarshal([]byte(`{"input": []}`), &absent))
	assert.False(t, absent.HasExpected)
	assert.Equal(t, EvalModeNone, absent.Mode())
}

func TestTestCaseModePrecedence(t *testing.T) {
	var tc TestCase
	data := []byte(`{
		"input": [1],
		"expected": 2,
		"throws": "boom",
		"matchesShape": {"a": "number"}
	}`)
	require.NoError(t, json.Unmarshal(data, &tc))

	assert.Equal(t, EvalModeThrows, tc.Mode())
}

func TestTestCaseUnmarshalFields(t *testing.T) {
	var tc TestCase
	data := []byte(`{"input": [0.1, 0.2], "expected": 0.3, "tolerance": 0.0001}`)
	require.NoError(t, json.Unmarshal(data, &tc))

	assert.Equal(t, []any{0.1, 0.2}, tc.Input)
	assert.Equal(t, 0.3, tc.Expected)
	assert.Equal(t, 0.0001, tc.Tolerance)
	assert.Equal(t, EvalModeExpected, tc.Mode())
}
