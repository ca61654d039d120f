package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/legennd48/backend-js-autograder/internal/domain"
)

func TestLoadEmbeddedSpecs(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	course := c.Course()
	assert.Equal(t, "JavaScript Fundamentals", course.Name)
	assert.NotEmpty(t, course.RepoName)

	list := c.List()
	require.NotEmpty(t, list)
	for i := 1; i < len(list); i++ {
		prev, cur := list[i-1], list[i]
		ordered := prev.Week < cur.Week || (prev.Week == cur.Week && prev.Session < cur.Session)
		assert.True(t, ordered, "listing must be ordered by week then session")
	}
}

func TestAssignmentLookup(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	spec, ok := c.Assignment(1, 1)
	require.True(t, ok)
	assert.Equal(t, "Functions and Arithmetic", spec.Title)
	require.NotEmpty(t, spec.Files)
	assert.NotEmpty(t, spec.Files[0].Functions)

	_, ok = c.Assignment(99, 1)
	assert.False(t, ok)
}

func TestSpecsParseEvalModes(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	spec, ok := c.Assignment(1, 1)
	require.True(t, ok)

	var divide *domain.FunctionSpec
	for i := range spec.Files[0].Functions {
		if spec.Files[0].Functions[i].Name == "divide" {
			divide = &spec.Files[0].Functions[i]
		}
	}
	require.NotNil(t, divide)

	last := divide.Tests[len(divide.Tests)-1]
	assert.Equal(t, domain.EvalModeThrows, last.Mode())

	first := divide.Tests[0]
	assert.Equal(t, domain.EvalModeExpected, first.Mode())
	assert.True(t, first.HasExpected)
}

func TestSpecsParseCallbackParams(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	spec, ok := c.Assignment(2, 1)
	require.True(t, ok)

	var applyTwice *domain.FunctionSpec
	var skipped *domain.FunctionSpec
	for i := range spec.Files[0].Functions {
		switch spec.Files[0].Functions[i].Name {
		case "applyTwice":
			applyTwice = &spec.Files[0].Functions[i]
		case "renderChart":
			skipped = &spec.Files[0].Functions[i]
		}
	}

	require.NotNil(t, applyTwice)
	assert.Equal(t, "function", applyTwice.Params[0].Type)

	require.NotNil(t, skipped)
	assert.True(t, skipped.SkipAutoTest)
}

func TestDuplicateSpecRejected(t *testing.T) {
	dup := []byte(`{
		"course": {"name": "c"},
		"assignments": [
			{"week": 1, "session": 1, "title": "a", "path": "p", "files": []},
			{"week": 1, "session": 1, "title": "b", "path": "p", "files": []}
		]
	}`)

	_, err := parse(dup)
	assert.Error(t, err)
}
