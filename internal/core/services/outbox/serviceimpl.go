package outbox

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/legennd48/backend-js-autograder/internal/core/ports/primary"
	"github.com/legennd48/backend-js-autograder/internal/core/ports/secondary"
	"github.com/legennd48/backend-js-autograder/internal/domain"
)

var _ IOutboxService = (*OutboxService)(nil)

// OutboxService owns every OutboxJob state transition. Jobs are claimed
// atomically by the repository, so overlapping batch passes never process
// the same job twice.
type OutboxService struct {
	outboxRepo     secondary.OutboxRepository
	studentRepo    secondary.StudentRepository
	submissionRepo secondary.SubmissionRepository
	mailer         secondary.Mailer
	catalog        secondary.Catalog
	logger         primary.Logger
	emailEnabled   bool
	now            func() time.Time
}

// NewOutboxService creates a new outbox service
func NewOutboxService(
	outboxRepo secondary.OutboxRepository,
	studentRepo secondary.StudentRepository,
	submissionRepo secondary.SubmissionRepository,
	mailer secondary.Mailer,
	catalog secondary.Catalog,
	logger primary.Logger,
	emailEnabled bool,
) *OutboxService {
	return &OutboxService{
		outboxRepo:     outboxRepo,
		studentRepo:    studentRepo,
		submissionRepo: submissionRepo,
		mailer:         mailer,
		catalog:        catalog,
		logger:         logger,
		emailEnabled:   emailEnabled,
		now:            time.Now,
	}
}

// Enqueue writes a pending job for the submission's current grade unless an
// identical one was already written or sent
func (s *OutboxService) Enqueue(ctx context.Context, student *domain.Student, submission *domain.Submission) (*EnqueueResult, error) {
	if !s.emailEnabled {
		return &EnqueueResult{Skipped: true, Reason: SkipEmailDisabled}, nil
	}
	if submission.Status != domain.SubmissionCompleted {
		return &EnqueueResult{Skipped: true, Reason: SkipSubmissionNotCompleted}, nil
	}

	to := strings.TrimSpace(student.Email)
	if to == "" {
		return &EnqueueResult{Skipped: true, Reason: SkipMissingStudentEmail}, nil
	}

	signature := SubmissionSignature(submission)
	if submission.LastEmailSignature != nil && *submission.LastEmailSignature == signature && submission.LastEmailedAt != nil {
		return &EnqueueResult{Skipped: true, Reason: SkipDeduped, Signature: signature}, nil
	}

	job := domain.NewGradeReportJob(student.ID, submission.ID, to, signature)
	job.NextAttemptAt = s.now()
	job.CreatedAt = s.now()

	inserted, err := s.outboxRepo.Enqueue(ctx, job)
	if err != nil {
		return nil, fmt.Errorf("failed to enqueue job: %w", err)
	}
	if !inserted {
		return &EnqueueResult{Skipped: true, Reason: SkipDeduped, Signature: signature}, nil
	}

	s.logger.Info("Grade report enqueued", "submissionId", submission.ID, "signature", signature)
	return &EnqueueResult{Enqueued: true, Signature: signature}, nil
}

// EnqueueGradeReport adapts Enqueue for callers that only care about errors
func (s *OutboxService) EnqueueGradeReport(ctx context.Context, student *domain.Student, submission *domain.Submission) error {
	res, err := s.Enqueue(ctx, student, submission)
	if err != nil {
		return err
	}
	if res.Skipped {
		s.logger.Debug("Grade report enqueue skipped", "submissionId", submission.ID, "reason", res.Reason)
	}
	return nil
}

// ProcessBatch claims due jobs one at a time until the limit is reached or
// none remain due
func (s *OutboxService) ProcessBatch(ctx context.Context, limit int) (*BatchSummary, error) {
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	summary := &BatchSummary{}
	now := s.now()

	for i := 0; i < limit; i++ {
		job, err := s.outboxRepo.ClaimNextDue(ctx, now)
		if err != nil {
			return summary, fmt.Errorf("failed to claim job: %w", err)
		}
		if job == nil {
			break
		}
		summary.Claimed++

		if err := s.deliver(ctx, job, summary); err != nil {
			s.retry(ctx, job, err, summary)
		}
	}
	return summary, nil
}

// deliver runs the disqualification checks and sends the report. A returned
// error means the job should be retried; cancellations are terminal and
// return nil.
func (s *OutboxService) deliver(ctx context.Context, job *domain.OutboxJob, summary *BatchSummary) error {
	submission, err := s.submissionRepo.Get(ctx, job.SubmissionID)
	if err != nil {
		return fmt.Errorf("failed to get submission: %w", err)
	}
	student, err := s.studentRepo.Get(ctx, job.StudentID)
	if err != nil {
		return fmt.Errorf("failed to get student: %w", err)
	}

	if submission == nil || student == nil {
		return s.cancel(ctx, job, domain.CancelMissingStudentOrSubmission, summary)
	}
	if submission.Status != domain.SubmissionCompleted {
		return s.cancel(ctx, job, domain.CancelSubmissionNotCompleted, summary)
	}

	currentSignature := SubmissionSignature(submission)
	if currentSignature != job.Signature {
		return s.cancel(ctx, job, domain.CancelSupersededByNewGrade, summary)
	}
	if submission.LastEmailSignature != nil && *submission.LastEmailSignature == currentSignature && submission.LastEmailedAt != nil {
		return s.cancel(ctx, job, domain.CancelAlreadySent, summary)
	}

	to := strings.TrimSpace(student.Email)
	if to == "" {
		return s.cancel(ctx, job, domain.CancelMissingStudentEmail, summary)
	}

	msg, err := s.buildGradeReport(ctx, student, submission)
	if err != nil {
		return err
	}
	msg.To = to

	if _, err := s.mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	sentAt := s.now()
	if err := s.outboxRepo.MarkSent(ctx, job.ID, sentAt); err != nil {
		return fmt.Errorf("failed to mark job sent: %w", err)
	}
	if err := s.submissionRepo.StampEmailSent(ctx, submission.ID, currentSignature, sentAt); err != nil {
		s.logger.Error("Failed to stamp submission after send", "submissionId", submission.ID, "error", err)
	}

	summary.Sent++
	s.logger.Info("Grade report sent", "jobId", job.ID, "to", to)
	return nil
}

func (s *OutboxService) cancel(ctx context.Context, job *domain.OutboxJob, reason string, summary *BatchSummary) error {
	if err := s.outboxRepo.Cancel(ctx, job.ID, reason); err != nil {
		return fmt.Errorf("failed to cancel job: %w", err)
	}
	summary.Canceled++
	s.logger.Info("Outbox job canceled", "jobId", job.ID, "reason", reason)
	return nil
}

func (s *OutboxService) retry(ctx context.Context, job *domain.OutboxJob, sendErr error, summary *BatchSummary) {
	attempts := job.Attempts + 1
	nextAttemptAt := s.now().Add(computeBackoff(attempts))

	if err := s.outboxRepo.Reschedule(ctx, job.ID, attempts, nextAttemptAt, sendErr.Error()); err != nil {
		s.logger.Error("Failed to reschedule job", "jobId", job.ID, "error", err)
		return
	}
	if err := s.submissionRepo.StampEmailError(ctx, job.SubmissionID, sendErr.Error()); err != nil {
		s.logger.Error("Failed to stamp submission email error", "submissionId", job.SubmissionID, "error", err)
	}

	summary.Retried++
	s.logger.Warn("Outbox job rescheduled", "jobId", job.ID, "attempts", attempts, "nextAttemptAt", nextAttemptAt, "error", sendErr)
}

// ListRecent returns the newest jobs for inspection
func (s *OutboxService) ListRecent(ctx context.Context, limit int) ([]*domain.OutboxJob, error) {
	if limit < 1 || limit > 200 {
		limit = 50
	}
	return s.outboxRepo.ListRecent(ctx, limit)
}

func (s *OutboxService) buildGradeReport(ctx context.Context, student *domain.Student, submission *domain.Submission) (secondary.MailMessage, error) {
	totals, err := s.submissionRepo.CompletedTotals(ctx, student.ID)
	if err != nil {
		return secondary.MailMessage{}, fmt.Errorf("failed to compute cumulative totals: %w", err)
	}

	title := fmt.Sprintf("Week %d / Session %d", submission.Week, submission.Session)
	if assignment, ok := s.catalog.Assignment(submission.Week, submission.Session); ok && assignment.Title != "" {
		title = assignment.Title
	}

	failed := make([]domain.TestResult, 0)
	for _, r := range submission.Results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}

	overall := 0
	if totals.TotalMaxScore > 0 {
		overall = int(float64(totals.TotalScore)/float64(totals.TotalMaxScore)*100 + 0.5)
	}

	data := reportData{
		StudentName: student.Name,
		CourseName:  s.catalog.Course().Name,
		Week:        submission.Week,
		Session:     submission.Session,
		Title:       title,
		Score:       submission.Score,
		MaxScore:    submission.MaxScore,
		Percentage:  domain.GradeResult{Score: submission.Score, MaxScore: submission.MaxScore}.Percentage(),
		Cumulative: cumulative{
			TotalScore:           totals.TotalScore,
			TotalMaxScore:        totals.TotalMaxScore,
			OverallPercentage:    overall,
			CompletedAssignments: totals.CompletedSubmissions,
			TotalAssignments:     len(s.catalog.List()),
		},
		Failed: failed,
	}
	return buildReport(data), nil
}

// computeBackoff doubles the delay per attempt, 1m after the first failure
// up to a 6h ceiling; retries are unbounded
func computeBackoff(attempts int) time.Duration {
	const base = time.Minute
	const max = 6 * time.Hour
	if attempts < 1 {
		attempts = 1
	}
	shift := attempts - 1
	if shift > 16 {
		return max
	}
	d := base * time.Duration(1<<uint(shift))
	if d > max {
		return max
	}
	return d
}
