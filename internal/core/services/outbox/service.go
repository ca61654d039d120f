package outbox

import (
	"context"

	"github.com/legennd48/backend-js-autograder/internal/domain"
)

// EnqueueResult reports what happened to an enqueue request
type EnqueueResult struct {
	Enqueued  bool   `json:"enqueued"`
	Skipped   bool   `json:"skipped"`
	Reason    string `json:"reason,omitempty"`
	Signature string `json:"signature,omitempty"`
}

// Skip reasons returned on EnqueueResult.Reason
const (
	SkipEmailDisabled          = "email-disabled"
	SkipSubmissionNotCompleted = "submission-not-completed"
	SkipMissingStudentEmail    = "missing-student-email"
	SkipDeduped                = "deduped"
)

// BatchSummary tallies one bounded processing pass
type BatchSummary struct {
	Claimed  int `json:"claimed"`
	Sent     int `json:"sent"`
	Retried  int `json:"retried"`
	Canceled int `json:"canceled"`
}

type IOutboxService interface {
	// Enqueue upserts one grade-report job for a completed submission,
	// deduplicated by the submission's current signature
	Enqueue(ctx context.Context, student *domain.Student, submission *domain.Submission) (*EnqueueResult, error)

	// EnqueueGradeReport is the fire-and-forget surface used by grading
	EnqueueGradeReport(ctx context.Context, student *domain.Student, submission *domain.Submission) error

	// ProcessBatch claims and fully processes up to limit due jobs, one at
	// a time, and returns once the pass completes
	ProcessBatch(ctx context.Context, limit int) (*BatchSummary, error)

	// ListRecent returns the most recently created jobs for inspection
	ListRecent(ctx context.Context, limit int) ([]*domain.OutboxJob, error)
}
