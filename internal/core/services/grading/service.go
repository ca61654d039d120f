package grading

import (
	"context"

	"github.com/google/uuid"

	"github.com/legennd48/backend-js-autograder/internal/domain"
)

// ReportEnqueuer hands a completed submission to the notification outbox.
// Enqueue failures are logged by the grading service, never surfaced.
type ReportEnqueuer interface {
	EnqueueGradeReport(ctx context.Context, student *domain.Student, submission *domain.Submission) error
}

// StudentVerdict is one student's result within a batch grading run
type StudentVerdict struct {
	StudentID      uuid.UUID           `json:"studentId"`
	StudentName    string              `json:"studentName"`
	GithubUsername string              `json:"githubUsername"`
	Status         domain.GradeOutcome `json:"status"`
	Score          int                 `json:"score"`
	MaxScore       int                 `json:"maxScore"`
	Percentage     int                 `json:"percentage"`
	ErrorMessage   string              `json:"errorMessage,omitempty"`
}

// BatchReport summarizes a grading run over every active student
type BatchReport struct {
	Total        int              `json:"total"`
	Passed       int              `json:"passed"`
	Failed       int              `json:"failed"`
	NotSubmitted int              `json:"notSubmitted"`
	Errors       int              `json:"errors"`
	Results      []StudentVerdict `json:"results"`
}

type IGradingService interface {
	// GradeStudent grades one student's (week, session) assignment,
	// persists the submission, and enqueues a report when completed
	GradeStudent(ctx context.Context, studentID uuid.UUID, week, session int) (*domain.Submission, domain.GradeOutcome, error)

	// GradeBatch grades every active student with a per-student failure
	// boundary; one student's error never aborts the run
	GradeBatch(ctx context.Context, week, session int) (*BatchReport, error)
}
