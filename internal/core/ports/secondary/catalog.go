package secondary

import "github.com/legennd48/backend-js-autograder/internal/domain"

// Catalog is the read-only assignment spec lookup
type Catalog interface {
	// Assignment returns the spec for a (week, session), ok=false when the
	// catalog has no function assignment there
	Assignment(week, session int) (*domain.AssignmentSpec, bool)

	// List enumerates every cataloged assignment
	List() []domain.AssignmentSummary

	// Course returns course-level metadata
	Course() domain.CourseInfo
}
