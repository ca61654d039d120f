// package catalog loads the embedded assignment specs and serves lookups
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/legennd48/backend-js-autograder/internal/core/ports/secondary"
	"github.com/legennd48/backend-js-autograder/internal/domain"
)

//go:embed assignment_specs.json
var specsJSON []byte

var _ secondary.Catalog = (*Catalog)(nil)

type specsFile struct {
	Course      domain.CourseInfo       `json:"course"`
	Assignments []domain.AssignmentSpec `json:"assignments"`
}

// Catalog is the in-memory assignment spec index, immutable after Load
type Catalog struct {
	course      domain.CourseInfo
	assignments map[[2]int]*domain.AssignmentSpec
	summaries   []domain.AssignmentSummary
}

// Load parses the embedded assignment specs
func Load() (*Catalog, error) {
	return parse(specsJSON)
}

func parse(data []byte) (*Catalog, error) {
	var file specsFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse assignment specs: %w", err)
	}

	c := &Catalog{
		course:      file.Course,
		assignments: make(map[[2]int]*domain.AssignmentSpec, len(file.Assignments)),
	}

	for i := range file.Assignments {
		spec := &file.Assignments[i]
		key := [2]int{spec.Week, spec.Session}
		if _, dup := c.assignments[key]; dup {
			return nil, fmt.Errorf("duplicate assignment spec for week %d session %d", spec.Week, spec.Session)
		}
		c.assignments[key] = spec
		c.summaries = append(c.summaries, domain.AssignmentSummary{
			Week:    spec.Week,
			Session: spec.Session,
			Title:   spec.Title,
		})
	}

	sort.Slice(c.summaries, func(i, j int) bool {
		if c.summaries[i].Week != c.summaries[j].Week {
			return c.summaries[i].Week < c.summaries[j].Week
		}
		return c.summaries[i].Session < c.summaries[j].Session
	})

	return c, nil
}

// Assignment returns the spec for a (week, session)
func (c *Catalog) Assignment(week, session int) (*domain.AssignmentSpec, bool) {
	spec, ok := c.assignments[[2]int{week, session}]
	return spec, ok
}

// List enumerates every cataloged assignment ordered by week then session
func (c *Catalog) List() []domain.AssignmentSummary {
	out := make([]domain.AssignmentSummary, len(c.summaries))
	copy(out, c.summaries)
	return out
}

// Course returns course-level metadata
func (c *Catalog) Course() domain.CourseInfo {
	return c.course
}
