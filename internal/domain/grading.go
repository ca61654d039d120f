package domain

// TestResult represents the verdict of a single test case
type TestResult struct {
	FunctionName string `json:"functionName"`
	TestIndex    int    `json:"testIndex"`
	Passed       bool   `json:"passed"`
	Input        []any  `json:"input"`
	Expected     any    `json:"expected,omitempty"`
	Actual       any    `json:"actual,omitempty"`
	Error        string `json:"error,omitempty"`
}

// GradeResult aggregates the verdicts of one grading invocation
type GradeResult struct {
	Score   int          `json:"score"`
	MaxScore int         `json:"maxScore"`
	Results []TestResult `json:"results"`
}

// Percentage returns the rounded score percentage, 0 when nothing was graded
func (g GradeResult) Percentage() int {
	if g.MaxScore <= 0 {
		return 0
	}
	return int(float64(g.Score)/float64(g.MaxScore)*100 + 0.5)
}

// GradeOutcome classifies a finished grading run for the caller
type GradeOutcome string

const (
	OutcomePassed       GradeOutcome = "passed"
	OutcomeFailed       GradeOutcome = "failed"
	OutcomeError        GradeOutcome = "error"
	OutcomeNotSubmitted GradeOutcome = "not-submitted"
)
