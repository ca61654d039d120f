package secondary

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/legennd48/backend-js-autograder/internal/domain"
)

// CumulativeTotals aggregates a student's completed submissions
type CumulativeTotals struct {
	TotalScore           int
	TotalMaxScore        int
	CompletedSubmissions int
}

// SubmissionFilter narrows submission listings; zero values mean "any"
type SubmissionFilter struct {
	StudentID *uuid.UUID
	Week      int
	Session   int
}

type SubmissionRepository interface {
	// Save upserts a submission keyed by (studentId, week, session)
	Save(ctx context.Context, submission *domain.Submission) error

	// Get retrieves a submission by ID, nil when not found
	Get(ctx context.Context, id uuid.UUID) (*domain.Submission, error)

	// GetByStudentWeekSession retrieves one student's submission for an
	// assignment, nil when not found
	GetByStudentWeekSession(ctx context.Context, studentID uuid.UUID, week, session int) (*domain.Submission, error)

	// List retrieves submissions matching the filter, newest first
	List(ctx context.Context, filter SubmissionFilter) ([]*domain.Submission, error)

	// StampEmailSent records the signature and time of a delivered report
	StampEmailSent(ctx context.Context, id uuid.UUID, signature string, sentAt time.Time) error

	// StampEmailError records the latest delivery failure
	StampEmailError(ctx context.Context, id uuid.UUID, sendErr string) error

	// CompletedTotals aggregates score totals over completed submissions
	CompletedTotals(ctx context.Context, studentID uuid.UUID) (*CumulativeTotals, error)
}
