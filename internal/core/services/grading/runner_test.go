package grading

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/legennd48/backend-js-autograder/internal/domain"
)

// fakeExecutor returns canned outcomes per invocation and records the
// arguments it received
type fakeExecutor struct {
	outcomes []domain.ExecutionOutcome
	calls    [][]domain.Argument
}

func (f *fakeExecutor) Execute(sourceText, functionName string, args []domain.Argument, timeout time.Duration) domain.ExecutionOutcome {
	f.calls = append(f.calls, args)
	if len(f.outcomes) == 0 {
		return domain.ExecutionOutcome{}
	}
	out := f.outcomes[0]
	f.outcomes = f.outcomes[1:]
	return out
}

func numberParams(n int) []domain.ParamSpec {
	params := make([]domain.ParamSpec, n)
	for i := range params {
		params[i] = domain.ParamSpec{Name: "p", Type: "number"}
	}
	return params
}

func TestRunTestsExpectedValues(t *testing.T) {
	exec := &fakeExecutor{outcomes: []domain.ExecutionOutcome{
		{Value: 3.0},
		{Value: 99.0},
	}}
	fn := domain.FunctionSpec{
		Name:   "add",
		Params: numberParams(2),
		Tests: []domain.TestCase{
			{Input: []any{1, 2}, Expected: 3, HasExpected: true},
			{Input: []any{2, 2}, Expected: 4, HasExpected: true},
		},
	}

	result := RunTests(exec, "src", fn, time.Second)

	assert.Equal(t, 1, result.Score)
	assert.Equal(t, 2, result.MaxScore)
	require.Len(t, result.Results, 2)

	assert.True(t, result.Results[0].Passed)
	assert.Equal(t, "add", result.Results[0].FunctionName)
	assert.Equal(t, 0, result.Results[0].TestIndex)

	assert.False(t, result.Results[1].Passed)
	assert.Equal(t, 99.0, result.Results[1].Actual)
}

func TestRunTestsThrows(t *testing.T) {
	exec := &fakeExecutor{outcomes: []domain.ExecutionOutcome{
		{Err: "Division by zero"},
		{Value: 5.0},
		{Err: "something else entirely"},
	}}
	fn := domain.FunctionSpec{
		Name:   "divide",
		Params: numberParams(2),
		Tests: []domain.TestCase{
			{Input: []any{1, 0}, Throws: "zero"},
			{Input: []any{1, 0}, Throws: "zero"},
			{Input: []any{1, 0}, Throws: "zero"},
		},
	}

	result := RunTests(exec, "src", fn, time.Second)

	require.Len(t, result.Results, 3)
	assert.True(t, result.Results[0].Passed, "matching error substring passes")

	assert.False(t, result.Results[1].Passed, "normal return fails a throws case")
	assert.Equal(t, "Expected error containing 'zero'", result.Results[1].Error)

	assert.False(t, result.Results[2].Passed, "non-matching error fails")
	assert.Equal(t, "something else entirely", result.Results[2].Error)
}

func TestRunTestsShape(t *testing.T) {
	exec := &fakeExecutor{outcomes: []domain.ExecutionOutcome{
		{Value: map[string]any{"name": "Ada", "age": 36.0}},
	}}
	fn := domain.FunctionSpec{
		Name: "makeUser",
		Tests: []domain.TestCase{
			{Input: []any{"Ada", 36}, MatchesShape: map[string]any{"name": "string", "age": "number"}},
		},
	}

	result := RunTests(exec, "src", fn, time.Second)
	assert.Equal(t, 1, result.Score)
}

func TestRunTestsExpectedNull(t *testing.T) {
	exec := &fakeExecutor{outcomes: []domain.ExecutionOutcome{{Value: nil}}}
	fn := domain.FunctionSpec{
		Name: "trySafely",
		Tests: []domain.TestCase{
			{Input: []any{"() => { throw new Error('x'); }"}, Expected: nil, HasExpected: true},
		},
	}

	result := RunTests(exec, "src", fn, time.Second)
	assert.Equal(t, 1, result.Score, "expected: null accepts a null result")
}

func TestRunTestsNoExpectedOutcome(t *testing.T) {
	exec := &fakeExecutor{outcomes: []domain.ExecutionOutcome{{Value: 1.0}}}
	fn := domain.FunctionSpec{
		Name:  "mystery",
		Tests: []domain.TestCase{{Input: []any{}}},
	}

	result := RunTests(exec, "src", fn, time.Second)
	assert.Equal(t, 0, result.Score)
	assert.Equal(t, "test case has no expected outcome", result.Results[0].Error)
}

func TestRunTestsModePrecedence(t *testing.T) {
	// throws wins over matchesShape and expected when a spec sets several
	tc := domain.TestCase{
		Throws:       "boom",
		MatchesShape: map[string]any{"a": "number"},
		Expected:     1,
		HasExpected:  true,
	}
	assert.Equal(t, domain.EvalModeThrows, tc.Mode())

	tc.Throws = ""
	assert.Equal(t, domain.EvalModeShape, tc.Mode())

	tc.MatchesShape = nil
	assert.Equal(t, domain.EvalModeExpected, tc.Mode())
}

func TestBuildArgsCallbackDetection(t *testing.T) {
	params := []domain.ParamSpec{
		{Name: "fn", Type: "function"},
		{Name: "value", Type: "number"},
	}

	args := buildArgs(params, []any{"x => x + 1", 2})

	require.Len(t, args, 2)
	assert.Equal(t, domain.ArgumentCallbackSource, args[0].Kind)
	assert.Equal(t, "x => x + 1", args[0].Source)
	assert.Equal(t, domain.ArgumentLiteral, args[1].Kind)
	assert.Equal(t, 2, args[1].Literal)
}

func TestBuildArgsNonStringFunctionParam(t *testing.T) {
	// a non-string input stays literal even when the param is a function
	params := []domain.ParamSpec{{Name: "fn", Type: "function"}}
	args := buildArgs(params, []any{42})

	require.Len(t, args, 1)
	assert.Equal(t, domain.ArgumentLiteral, args[0].Kind)
}

func TestBuildArgsMoreInputsThanParams(t *testing.T) {
	args := buildArgs(nil, []any{"a", 1})
	require.Len(t, args, 2)
	assert.Equal(t, domain.ArgumentLiteral, args[0].Kind)
	assert.Equal(t, domain.ArgumentLiteral, args[1].Kind)
}
