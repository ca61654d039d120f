package domain

import "encoding/json"

// EvalMode identifies which evaluation a test case asks for
type EvalMode int

const (
	EvalModeNone EvalMode = iota
	EvalModeExpected
	EvalModeThrows
	EvalModeShape
)

// TestCase represents a single check for one function. Exactly one
// evaluation mode should be set; when a spec sets several, Mode resolves
// them with the fixed precedence throws > matchesShape > expected.
type TestCase struct {
	Input        []any
	Expected     any
	HasExpected  bool
	Throws       string
	Tolerance    float64
	MatchesShape map[string]any
}

func (tc TestCase) Mode() EvalMode {
	if tc.Throws != "" {
		return EvalModeThrows
	}
	if tc.MatchesShape != nil {
		return EvalModeShape
	}
	if tc.HasExpected {
		return EvalModeExpected
	}
	return EvalModeNone
}

func (tc *TestCase) UnmarshalJSON(data []byte) error {
	var raw struct {
		Input        []any          `json:"input"`
		Expected     any            `json:"expected"`
		Throws       string         `json:"throws"`
		Tolerance    float64        `json:"tolerance"`
		MatchesShape map[string]any `json:"matchesShape"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}
	_, hasExpected := keys["expected"]

	tc.Input = raw.Input
	tc.Expected = raw.Expected
	tc.HasExpected = hasExpected
	tc.Throws = raw.Throws
	tc.Tolerance = raw.Tolerance
	tc.MatchesShape = raw.MatchesShape
	return nil
}

// ParamSpec describes one declared parameter of a graded function.
// A parameter of type "function" marks its argument as callback source text.
type ParamSpec struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// FunctionSpec describes one function to grade, with its ordered test cases
type FunctionSpec struct {
	Name         string      `json:"name"`
	Description  string      `json:"description"`
	Params       []ParamSpec `json:"params"`
	Returns      string      `json:"returns"`
	Tests        []TestCase  `json:"tests"`
	SkipAutoTest bool        `json:"skipAutoTest"`
}

// FileSpec groups the functions expected in one submitted file
type FileSpec struct {
	Filename  string         `json:"filename"`
	Functions []FunctionSpec `json:"functions"`
}

// AssignmentSpec describes everything graded for one (week, session)
type AssignmentSpec struct {
	Week    int        `json:"week"`
	Session int        `json:"session"`
	Title   string     `json:"title"`
	Path    string     `json:"path"`
	Files   []FileSpec `json:"files"`
}

// CourseInfo carries course-level catalog metadata
type CourseInfo struct {
	Name            string `json:"name"`
	Weeks           int    `json:"weeks"`
	SessionsPerWeek int    `json:"sessionsPerWeek"`
	TotalSessions   int    `json:"totalSessions"`
	RepoName        string `json:"repoName"`
}

// AssignmentSummary is the listing view of one catalog entry
type AssignmentSummary struct {
	Week    int    `json:"week"`
	Session int    `json:"session"`
	Title   string `json:"title"`
}
