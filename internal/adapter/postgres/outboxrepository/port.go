// package outboxrepository contains the PostgreSQL email outbox repository
package outboxrepository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/legennd48/backend-js-autograder/internal/core/ports/primary"
	"github.com/legennd48/backend-js-autograder/internal/core/ports/secondary"
	"github.com/legennd48/backend-js-autograder/internal/domain"
)

var _ secondary.OutboxRepository = (*OutboxRepository)(nil)

// OutboxRepository implements the OutboxRepository interface with PostgreSQL
type OutboxRepository struct {
	db     *sqlx.DB
	logger primary.Logger
}

// NewOutboxRepository creates a new PostgreSQL outbox repository
func NewOutboxRepository(db *sqlx.DB, logger primary.Logger) *OutboxRepository {
	return &OutboxRepository{
		db:     db,
		logger: logger,
	}
}

const outboxColumns = `
	id, type, status, attempts, next_attempt_at, processing_started_at,
	sent_at, last_error, cancel_reason, student_id, submission_id,
	to_address, signature, created_at
`

// Enqueue inserts a pending job unless one already exists for the same
// (submission_id, signature) pair
func (r *OutboxRepository) Enqueue(ctx context.Context, job *domain.OutboxJob) (bool, error) {
	query := `
		INSERT INTO email_outbox (
			id, type, status, attempts, next_attempt_at,
			student_id, submission_id, to_address, signature, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (submission_id, signature) DO NOTHING
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		job.ID,
		job.Type,
		job.Status,
		job.Attempts,
		job.NextAttemptAt,
		job.StudentID,
		job.SubmissionID,
		job.To,
		job.Signature,
		job.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to enqueue outbox job", "error", err)
		return false, fmt.Errorf("failed to enqueue outbox job: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("error checking rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// ClaimNextDue atomically flips the oldest due pending job to processing and
// returns it. SKIP LOCKED keeps concurrent batch passes from claiming the
// same row.
func (r *OutboxRepository) ClaimNextDue(ctx context.Context, now time.Time) (*domain.OutboxJob, error) {
	query := `
		UPDATE email_outbox
		SET status = $1, processing_started_at = $2
		WHERE id = (
			SELECT id FROM email_outbox
			WHERE status = $3 AND next_attempt_at <= $2
			ORDER BY created_at ASC
			LIMIT 1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING ` + outboxColumns

	job, err := r.scanOne(r.db.QueryRowContext(ctx, query, domain.OutboxStatusProcessing, now, domain.OutboxStatusPending))
	if err != nil {
		r.logger.Error("Failed to claim outbox job", "error", err)
		return nil, fmt.Errorf("failed to claim outbox job: %w", err)
	}

	return job, nil
}

// MarkSent finishes a processing job
func (r *OutboxRepository) MarkSent(ctx context.Context, jobID uuid.UUID, sentAt time.Time) error {
	query := `
		UPDATE email_outbox
		SET status = $1, sent_at = $2, last_error = NULL
		WHERE id = $3 AND status = $4
	`

	result, err := r.db.ExecContext(ctx, query, domain.OutboxStatusSent, sentAt, jobID, domain.OutboxStatusProcessing)
	if err != nil {
		r.logger.Error("Failed to mark outbox job sent", "jobId", jobID, "error", err)
		return fmt.Errorf("failed to mark outbox job sent: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("outbox job not in processing state: %s", jobID)
	}

	return nil
}

// Reschedule returns a processing job to pending after a send failure
func (r *OutboxRepository) Reschedule(ctx context.Context, jobID uuid.UUID, attempts int, nextAttemptAt time.Time, lastError string) error {
	query := `
		UPDATE email_outbox
		SET status = $1, attempts = $2, next_attempt_at = $3, last_error = $4,
			processing_started_at = NULL
		WHERE id = $5 AND status = $6
	`

	result, err := r.db.ExecContext(ctx, query,
		domain.OutboxStatusPending, attempts, nextAttemptAt, lastError,
		jobID, domain.OutboxStatusProcessing)
	if err != nil {
		r.logger.Error("Failed to reschedule outbox job", "jobId", jobID, "error", err)
		return fmt.Errorf("failed to reschedule outbox job: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("outbox job not in processing state: %s", jobID)
	}

	return nil
}

// Cancel terminally disqualifies a processing job
func (r *OutboxRepository) Cancel(ctx context.Context, jobID uuid.UUID, reason string) error {
	query := `
		UPDATE email_outbox
		SET status = $1, cancel_reason = $2
		WHERE id = $3 AND status = $4
	`

	result, err := r.db.ExecContext(ctx, query, domain.OutboxStatusCanceled, reason, jobID, domain.OutboxStatusProcessing)
	if err != nil {
		r.logger.Error("Failed to cancel outbox job", "jobId", jobID, "error", err)
		return fmt.Errorf("failed to cancel outbox job: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("outbox job not in processing state: %s", jobID)
	}

	return nil
}

// ListRecent retrieves the most recently created jobs
func (r *OutboxRepository) ListRecent(ctx context.Context, limit int) ([]*domain.OutboxJob, error) {
	query := `
		SELECT ` + outboxColumns + `
		FROM email_outbox
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		r.logger.Error("Failed to list outbox jobs", "error", err)
		return nil, fmt.Errorf("failed to list outbox jobs: %w", err)
	}
	defer rows.Close()

	jobs := make([]*domain.OutboxJob, 0)
	for rows.Next() {
		job, err := r.scanOne(rows)
		if err != nil {
			r.logger.Error("Failed to scan outbox row", "error", err)
			return nil, fmt.Errorf("failed to scan outbox row: %w", err)
		}
		jobs = append(jobs, job)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating outbox rows", "error", err)
		return nil, fmt.Errorf("error iterating outbox rows: %w", err)
	}

	return jobs, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *OutboxRepository) scanOne(row rowScanner) (*domain.OutboxJob, error) {
	var job domain.OutboxJob
	var processingStartedAt, sentAt sql.NullTime
	var lastError, cancelReason sql.NullString

	err := row.Scan(
		&job.ID,
		&job.Type,
		&job.Status,
		&job.Attempts,
		&job.NextAttemptAt,
		&processingStartedAt,
		&sentAt,
		&lastError,
		&cancelReason,
		&job.StudentID,
		&job.SubmissionID,
		&job.To,
		&job.Signature,
		&job.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	if processingStartedAt.Valid {
		job.ProcessingStartedAt = &processingStartedAt.Time
	}
	if sentAt.Valid {
		job.SentAt = &sentAt.Time
	}
	if lastError.Valid {
		job.LastError = &lastError.String
	}
	if cancelReason.Valid {
		job.CancelReason = &cancelReason.String
	}

	return &job, nil
}
