package secondary

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/legennd48/backend-js-autograder/internal/domain"
)

type OutboxRepository interface {
	// Enqueue inserts a pending job unless one already exists for the same
	// (submissionId, signature) pair. Reports whether a row was inserted.
	Enqueue(ctx context.Context, job *domain.OutboxJob) (bool, error)

	// ClaimNextDue atomically flips the oldest due pending job to
	// processing and returns it, nil when no job is due. Two concurrent
	// callers never receive the same job.
	ClaimNextDue(ctx context.Context, now time.Time) (*domain.OutboxJob, error)

	// MarkSent finishes a processing job
	MarkSent(ctx context.Context, jobID uuid.UUID, sentAt time.Time) error

	// Reschedule returns a processing job to pending after a send failure
	Reschedule(ctx context.Context, jobID uuid.UUID, attempts int, nextAttemptAt time.Time, lastError string) error

	// Cancel terminally disqualifies a processing job
	Cancel(ctx context.Context, jobID uuid.UUID, reason string) error

	// ListRecent retrieves the most recently created jobs
	ListRecent(ctx context.Context, limit int) ([]*domain.OutboxJob, error)
}
