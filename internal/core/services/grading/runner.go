package grading

import (
	"fmt"
	"strings"
	"time"

	"github.com/legennd48/backend-js-autograder/internal/core/ports/secondary"
	"github.com/legennd48/backend-js-autograder/internal/domain"
)

// RunTests executes every test case of one function against the given source
// text and classifies each outcome. A crash in one case never aborts the
// remaining cases, and maxScore always equals the number of cases.
func RunTests(executor secondary.CodeExecutor, sourceText string, fn domain.FunctionSpec, timeout time.Duration) domain.GradeResult {
	results := make([]domain.TestResult, 0, len(fn.Tests))
	score := 0

	for i, tc := range fn.Tests {
		result := runCase(executor, sourceText, fn, i, tc, timeout)
		if result.Passed {
			score++
		}
		results = append(results, result)
	}

	return domain.GradeResult{
		Score:    score,
		MaxScore: len(fn.Tests),
		Results:  results,
	}
}

func runCase(executor secondary.CodeExecutor, sourceText string, fn domain.FunctionSpec, index int, tc domain.TestCase, timeout time.Duration) (result domain.TestResult) {
	result = domain.TestResult{
		FunctionName: fn.Name,
		TestIndex:    index,
		Input:        tc.Input,
		Expected:     tc.Expected,
	}

	// A comparator or executor panic counts as this case's failure only
	defer func() {
		if r := recover(); r != nil {
			result.Passed = false
			result.Error = fmt.Sprintf("test execution failed: %v", r)
		}
	}()

	outcome := executor.Execute(sourceText, fn.Name, buildArgs(fn.Params, tc.Input), timeout)

	if outcome.Failed() {
		if tc.Throws != "" && strings.Contains(outcome.Err, tc.Throws) {
			result.Passed = true
			return result
		}
		result.Error = outcome.Err
		return result
	}

	result.Actual = outcome.Value

	switch tc.Mode() {
	case domain.EvalModeThrows:
		result.Error = fmt.Sprintf("Expected error containing '%s'", tc.Throws)
	case domain.EvalModeShape:
		result.Passed = matchesShape(outcome.Value, tc.MatchesShape)
	case domain.EvalModeExpected:
		result.Passed = valuesEqual(outcome.Value, tc.Expected, tc.Tolerance)
	default:
		result.Error = "test case has no expected outcome"
	}
	return result
}

// buildArgs maps raw test inputs to sandbox arguments. An input whose
// declared parameter type is "function" carries callback source text and is
// compiled inside the sandbox rather than passed as a string.
func buildArgs(params []domain.ParamSpec, input []any) []domain.Argument {
	args := make([]domain.Argument, 0, len(input))
	for i, raw := range input {
		if i < len(params) && params[i].Type == "function" {
			if src, ok := raw.(string); ok {
				args = append(args, domain.CallbackArg(src))
				continue
			}
		}
		args = append(args, domain.LiteralArg(raw))
	}
	return args
}
