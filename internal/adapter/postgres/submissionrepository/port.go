// package submissionrepository contains the PostgreSQL submission repository
package submissionrepository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/legennd48/backend-js-autograder/internal/core/ports/primary"
	"github.com/legennd48/backend-js-autograder/internal/core/ports/secondary"
	"github.com/legennd48/backend-js-autograder/internal/domain"
)

var _ secondary.SubmissionRepository = (*SubmissionRepository)(nil)

// SubmissionRepository implements the SubmissionRepository interface with PostgreSQL
type SubmissionRepository struct {
	db     *sqlx.DB
	logger primary.Logger
}

// NewSubmissionRepository creates a new PostgreSQL submission repository
func NewSubmissionRepository(db *sqlx.DB, logger primary.Logger) *SubmissionRepository {
	return &SubmissionRepository{
		db:     db,
		logger: logger,
	}
}

const submissionColumns = `
	id, student_id, week, session, submitted_at, status, score, max_score,
	results, error_message, last_email_signature, last_emailed_at, last_email_error
`

// Save upserts a submission keyed by (student_id, week, session). A regrade
// replaces the previous row's grade in place and clears stale error state.
func (r *SubmissionRepository) Save(ctx context.Context, submission *domain.Submission) error {
	resultsJSON, err := json.Marshal(submission.Results)
	if err != nil {
		r.logger.Error("Failed to marshal submission results", "error", err)
		return fmt.Errorf("failed to marshal submission results: %w", err)
	}

	query := `
		INSERT INTO submissions (
			id, student_id, week, session, submitted_at, status, score, max_score,
			results, error_message
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (student_id, week, session) DO UPDATE SET
			submitted_at = EXCLUDED.submitted_at,
			status = EXCLUDED.status,
			score = EXCLUDED.score,
			max_score = EXCLUDED.max_score,
			results = EXCLUDED.results,
			error_message = EXCLUDED.error_message
		RETURNING id
	`

	// The upsert keeps the original row ID on conflict; callers rely on the
	// returned ID for outbox enqueueing.
	err = r.db.QueryRowContext(
		ctx,
		query,
		submission.ID,
		submission.StudentID,
		submission.Week,
		submission.Session,
		submission.SubmittedAt,
		submission.Status,
		submission.Score,
		submission.MaxScore,
		resultsJSON,
		submission.ErrorMessage,
	).Scan(&submission.ID)

	if err != nil {
		r.logger.Error("Failed to save submission", "error", err)
		return fmt.Errorf("failed to save submission: %w", err)
	}

	return nil
}

// Get retrieves a submission by ID
func (r *SubmissionRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions WHERE id = $1`

	submission, err := r.scanOne(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		r.logger.Error("Failed to get submission", "submissionId", id, "error", err)
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}

	return submission, nil
}

// GetByStudentWeekSession retrieves one student's submission for an assignment
func (r *SubmissionRepository) GetByStudentWeekSession(ctx context.Context, studentID uuid.UUID, week, session int) (*domain.Submission, error) {
	query := `
		SELECT ` + submissionColumns + `
		FROM submissions
		WHERE student_id = $1 AND week = $2 AND session = $3
	`

	submission, err := r.scanOne(r.db.QueryRowContext(ctx, query, studentID, week, session))
	if err != nil {
		r.logger.Error("Failed to get submission", "studentId", studentID, "week", week, "session", session, "error", err)
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}

	return submission, nil
}

// List retrieves submissions matching the filter, newest first
func (r *SubmissionRepository) List(ctx context.Context, filter secondary.SubmissionFilter) ([]*domain.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions WHERE 1=1`
	args := make([]interface{}, 0, 3)

	if filter.StudentID != nil {
		args = append(args, *filter.StudentID)
		query += fmt.Sprintf(" AND student_id = $%d", len(args))
	}
	if filter.Week > 0 {
		args = append(args, filter.Week)
		query += fmt.Sprintf(" AND week = $%d", len(args))
	}
	if filter.Session > 0 {
		args = append(args, filter.Session)
		query += fmt.Sprintf(" AND session = $%d", len(args))
	}
	query += " ORDER BY submitted_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list submissions", "error", err)
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	defer rows.Close()

	submissions := make([]*domain.Submission, 0)
	for rows.Next() {
		submission, err := r.scanOne(rows)
		if err != nil {
			r.logger.Error("Failed to scan submission row", "error", err)
			return nil, fmt.Errorf("failed to scan submission row: %w", err)
		}
		submissions = append(submissions, submission)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating submission rows", "error", err)
		return nil, fmt.Errorf("error iterating submission rows: %w", err)
	}

	return submissions, nil
}

// StampEmailSent records the signature and time of a delivered report and
// clears any previous delivery error
func (r *SubmissionRepository) StampEmailSent(ctx context.Context, id uuid.UUID, signature string, sentAt time.Time) error {
	query := `
		UPDATE submissions
		SET last_email_signature = $1, last_emailed_at = $2, last_email_error = NULL
		WHERE id = $3
	`

	result, err := r.db.ExecContext(ctx, query, signature, sentAt, id)
	if err != nil {
		r.logger.Error("Failed to stamp email sent", "submissionId", id, "error", err)
		return fmt.Errorf("failed to stamp email sent: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("submission not found: %s", id)
	}

	return nil
}

// StampEmailError records the latest delivery failure
func (r *SubmissionRepository) StampEmailError(ctx context.Context, id uuid.UUID, sendErr string) error {
	query := `UPDATE submissions SET last_email_error = $1 WHERE id = $2`

	if _, err := r.db.ExecContext(ctx, query, sendErr, id); err != nil {
		r.logger.Error("Failed to stamp email error", "submissionId", id, "error", err)
		return fmt.Errorf("failed to stamp email error: %w", err)
	}

	return nil
}

// CompletedTotals aggregates score totals over completed submissions
func (r *SubmissionRepository) CompletedTotals(ctx context.Context, studentID uuid.UUID) (*secondary.CumulativeTotals, error) {
	query := `
		SELECT COALESCE(SUM(score), 0), COALESCE(SUM(max_score), 0), COUNT(*)
		FROM submissions
		WHERE student_id = $1 AND status = $2
	`

	var totals secondary.CumulativeTotals
	err := r.db.QueryRowContext(ctx, query, studentID, domain.SubmissionCompleted).Scan(
		&totals.TotalScore,
		&totals.TotalMaxScore,
		&totals.CompletedSubmissions,
	)
	if err != nil {
		r.logger.Error("Failed to compute cumulative totals", "studentId", studentID, "error", err)
		return nil, fmt.Errorf("failed to compute cumulative totals: %w", err)
	}

	return &totals, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *SubmissionRepository) scanOne(row rowScanner) (*domain.Submission, error) {
	var submission domain.Submission
	var resultsJSON []byte
	var errorMessage, lastEmailSignature, lastEmailError sql.NullString
	var lastEmailedAt sql.NullTime

	err := row.Scan(
		&submission.ID,
		&submission.StudentID,
		&submission.Week,
		&submission.Session,
		&submission.SubmittedAt,
		&submission.Status,
		&submission.Score,
		&submission.MaxScore,
		&resultsJSON,
		&errorMessage,
		&lastEmailSignature,
		&lastEmailedAt,
		&lastEmailError,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	if errorMessage.Valid {
		submission.ErrorMessage = &errorMessage.String
	}
	if lastEmailSignature.Valid {
		submission.LastEmailSignature = &lastEmailSignature.String
	}
	if lastEmailedAt.Valid {
		submission.LastEmailedAt = &lastEmailedAt.Time
	}
	if lastEmailError.Valid {
		submission.LastEmailError = &lastEmailError.String
	}

	if len(resultsJSON) > 0 {
		if err := json.Unmarshal(resultsJSON, &submission.Results); err != nil {
			return nil, fmt.Errorf("failed to unmarshal submission results: %w", err)
		}
	}

	return &submission, nil
}
