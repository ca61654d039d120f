package outbox

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/legennd48/backend-js-autograder/internal/core/ports/secondary"
	"github.com/legennd48/backend-js-autograder/internal/domain"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Warn(string, ...interface{})  {}

type fakeOutboxRepo struct {
	jobs []*domain.OutboxJob
}

func (f *fakeOutboxRepo) Enqueue(_ context.Context, job *domain.OutboxJob) (bool, error) {
	for _, existing := range f.jobs {
		if existing.SubmissionID == job.SubmissionID && existing.Signature == job.Signature {
			return false, nil
		}
	}
	clone := *job
	f.jobs = append(f.jobs, &clone)
	return true, nil
}

func (f *fakeOutboxRepo) ClaimNextDue(_ context.Context, now time.Time) (*domain.OutboxJob, error) {
	var due *domain.OutboxJob
	for _, job := range f.jobs {
		if job.Status != domain.OutboxStatusPending || job.NextAttemptAt.After(now) {
			continue
		}
		if due == nil || job.CreatedAt.Before(due.CreatedAt) {
			due = job
		}
	}
	if due == nil {
		return nil, nil
	}
	due.Status = domain.OutboxStatusProcessing
	started := now
	due.ProcessingStartedAt = &started
	clone := *due
	return &clone, nil
}

func (f *fakeOutboxRepo) MarkSent(_ context.Context, jobID uuid.UUID, sentAt time.Time) error {
	job := f.find(jobID)
	if job == nil || job.Status != domain.OutboxStatusProcessing {
		return errors.New("job not in processing state")
	}
	job.Status = domain.OutboxStatusSent
	job.SentAt = &sentAt
	return nil
}

func (f *fakeOutboxRepo) Reschedule(_ context.Context, jobID uuid.UUID, attempts int, nextAttemptAt time.Time, lastError string) error {
	job := f.find(jobID)
	if job == nil || job.Status != domain.OutboxStatusProcessing {
		return errors.New("job not in processing state")
	}
	job.Status = domain.OutboxStatusPending
	job.Attempts = attempts
	job.NextAttemptAt = nextAttemptAt
	job.LastError = &lastError
	job.ProcessingStartedAt = nil
	return nil
}

func (f *fakeOutboxRepo) Cancel(_ context.Context, jobID uuid.UUID, reason string) error {
	job := f.find(jobID)
	if job == nil || job.Status != domain.OutboxStatusProcessing {
		return errors.New("job not in processing state")
	}
	job.Status = domain.OutboxStatusCanceled
	job.CancelReason = &reason
	return nil
}

func (f *fakeOutboxRepo) ListRecent(_ context.Context, limit int) ([]*domain.OutboxJob, error) {
	out := make([]*domain.OutboxJob, len(f.jobs))
	copy(out, f.jobs)
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeOutboxRepo) find(id uuid.UUID) *domain.OutboxJob {
	for _, job := range f.jobs {
		if job.ID == id {
			return job
		}
	}
	return nil
}

type fakeStudentRepo struct {
	students map[uuid.UUID]*domain.Student
}

func (f *fakeStudentRepo) Create(_ context.Context, s *domain.Student) error {
	f.students[s.ID] = s
	return nil
}

func (f *fakeStudentRepo) Get(_ context.Context, id uuid.UUID) (*domain.Student, error) {
	return f.students[id], nil
}

func (f *fakeStudentRepo) GetAll(_ context.Context) ([]*domain.Student, error) {
	out := make([]*domain.Student, 0, len(f.students))
	for _, s := range f.students {
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeStudentRepo) GetActive(ctx context.Context) ([]*domain.Student, error) {
	all, _ := f.GetAll(ctx)
	active := make([]*domain.Student, 0, len(all))
	for _, s := range all {
		if s.IsActive {
			active = append(active, s)
		}
	}
	return active, nil
}

func (f *fakeStudentRepo) Update(_ context.Context, s *domain.Student) error {
	f.students[s.ID] = s
	return nil
}

func (f *fakeStudentRepo) Deactivate(_ context.Context, id uuid.UUID) error {
	if s, ok := f.students[id]; ok {
		s.IsActive = false
	}
	return nil
}

type fakeSubmissionRepo struct {
	submissions map[uuid.UUID]*domain.Submission
	totals      secondary.CumulativeTotals
}

func (f *fakeSubmissionRepo) Save(_ context.Context, s *domain.Submission) error {
	f.submissions[s.ID] = s
	return nil
}

func (f *fakeSubmissionRepo) Get(_ context.Context, id uuid.UUID) (*domain.Submission, error) {
	return f.submissions[id], nil
}

func (f *fakeSubmissionRepo) GetByStudentWeekSession(_ context.Context, studentID uuid.UUID, week, session int) (*domain.Submission, error) {
	for _, s := range f.submissions {
		if s.StudentID == studentID && s.Week == week && s.Session == session {
			return s, nil
		}
	}
	return nil, nil
}

func (f *fakeSubmissionRepo) List(_ context.Context, _ secondary.SubmissionFilter) ([]*domain.Submission, error) {
	out := make([]*domain.Submission, 0, len(f.submissions))
	for _, s := range f.submissions {
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeSubmissionRepo) StampEmailSent(_ context.Context, id uuid.UUID, signature string, sentAt time.Time) error {
	sub, ok := f.submissions[id]
	if !ok {
		return errors.New("submission not found")
	}
	sub.LastEmailSignature = &signature
	sub.LastEmailedAt = &sentAt
	sub.LastEmailError = nil
	return nil
}

func (f *fakeSubmissionRepo) StampEmailError(_ context.Context, id uuid.UUID, sendErr string) error {
	sub, ok := f.submissions[id]
	if !ok {
		return errors.New("submission not found")
	}
	sub.LastEmailError = &sendErr
	return nil
}

func (f *fakeSubmissionRepo) CompletedTotals(_ context.Context, _ uuid.UUID) (*secondary.CumulativeTotals, error) {
	totals := f.totals
	return &totals, nil
}

type fakeMailer struct {
	sent    []secondary.MailMessage
	failErr error
}

func (f *fakeMailer) Send(_ context.Context, msg secondary.MailMessage) (string, error) {
	if f.failErr != nil {
		return "", f.failErr
	}
	f.sent = append(f.sent, msg)
	return "<test-message-id>", nil
}

type fakeCatalog struct{}

func (fakeCatalog) Assignment(week, session int) (*domain.AssignmentSpec, bool) {
	if week == 1 && session == 1 {
		return &domain.AssignmentSpec{Week: 1, Session: 1, Title: "Functions and Arithmetic"}, true
	}
	return nil, false
}

func (fakeCatalog) List() []domain.AssignmentSummary {
	return []domain.AssignmentSummary{{Week: 1, Session: 1, Title: "Functions and Arithmetic"}}
}

func (fakeCatalog) Course() domain.CourseInfo {
	return domain.CourseInfo{Name: "JavaScript Fundamentals", RepoName: "js-fundamentals-work"}
}

type fixture struct {
	svc        *OutboxService
	outboxRepo *fakeOutboxRepo
	students   *fakeStudentRepo
	subs       *fakeSubmissionRepo
	mailer     *fakeMailer
	now        time.Time
	student    *domain.Student
	submission *domain.Submission
}

func newFixture(t *testing.T, emailEnabled bool) *fixture {
	t.Helper()

	f := &fixture{
		outboxRepo: &fakeOutboxRepo{},
		students:   &fakeStudentRepo{students: make(map[uuid.UUID]*domain.Student)},
		subs:       &fakeSubmissionRepo{submissions: make(map[uuid.UUID]*domain.Submission)},
		mailer:     &fakeMailer{},
		now:        time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	f.subs.totals = secondary.CumulativeTotals{TotalScore: 5, TotalMaxScore: 8, CompletedSubmissions: 1}

	f.svc = NewOutboxService(f.outboxRepo, f.students, f.subs, f.mailer, fakeCatalog{}, nopLogger{}, emailEnabled)
	f.svc.now = func() time.Time { return f.now }

	f.student = domain.NewStudent("Ada Lovelace", "ada@example.com", "ada")
	f.students.students[f.student.ID] = f.student

	f.submission = domain.NewSubmission(f.student.ID, 1, 1)
	f.submission.Status = domain.SubmissionCompleted
	f.submission.Score = 5
	f.submission.MaxScore = 8
	f.submission.Results = []domain.TestResult{
		{FunctionName: "add", TestIndex: 0, Passed: true},
		{FunctionName: "divide", TestIndex: 2, Passed: false},
	}
	f.subs.submissions[f.submission.ID] = f.submission

	return f
}

func TestEnqueueSkipsWhenEmailDisabled(t *testing.T) {
	f := newFixture(t, false)

	res, err := f.svc.Enqueue(context.Background(), f.student, f.submission)

	require.NoError(t, err)
	assert.True(t, res.Skipped)
	assert.Equal(t, SkipEmailDisabled, res.Reason)
	assert.Empty(t, f.outboxRepo.jobs)
}

func TestEnqueueSkipsIncompleteSubmission(t *testing.T) {
	f := newFixture(t, true)
	f.submission.Status = domain.SubmissionError

	res, err := f.svc.Enqueue(context.Background(), f.student, f.submission)

	require.NoError(t, err)
	assert.Equal(t, SkipSubmissionNotCompleted, res.Reason)
}

func TestEnqueueSkipsMissingEmail(t *testing.T) {
	f := newFixture(t, true)
	f.student.Email = "   "

	res, err := f.svc.Enqueue(context.Background(), f.student, f.submission)

	require.NoError(t, err)
	assert.Equal(t, SkipMissingStudentEmail, res.Reason)
}

func TestEnqueueDedupesAgainstLastSentSignature(t *testing.T) {
	f := newFixture(t, true)
	sig := SubmissionSignature(f.submission)
	sentAt := f.now.Add(-time.Hour)
	f.submission.LastEmailSignature = &sig
	f.submission.LastEmailedAt = &sentAt

	res, err := f.svc.Enqueue(context.Background(), f.student, f.submission)

	require.NoError(t, err)
	assert.Equal(t, SkipDeduped, res.Reason)
	assert.Empty(t, f.outboxRepo.jobs)
}

func TestEnqueueDedupesAgainstExistingJob(t *testing.T) {
	f := newFixture(t, true)

	first, err := f.svc.Enqueue(context.Background(), f.student, f.submission)
	require.NoError(t, err)
	assert.True(t, first.Enqueued)

	second, err := f.svc.Enqueue(context.Background(), f.student, f.submission)
	require.NoError(t, err)
	assert.True(t, second.Skipped)
	assert.Equal(t, SkipDeduped, second.Reason)
	assert.Len(t, f.outboxRepo.jobs, 1)
}

func TestEnqueueAfterRegradeCreatesNewJob(t *testing.T) {
	f := newFixture(t, true)

	_, err := f.svc.Enqueue(context.Background(), f.student, f.submission)
	require.NoError(t, err)

	// a regrade with a different outcome has a new signature
	f.submission.Score = 8
	f.submission.Results = []domain.TestResult{
		{FunctionName: "add", TestIndex: 0, Passed: true},
	}

	res, err := f.svc.Enqueue(context.Background(), f.student, f.submission)
	require.NoError(t, err)
	assert.True(t, res.Enqueued)
	assert.Len(t, f.outboxRepo.jobs, 2)
}

func TestProcessBatchSendsDueJob(t *testing.T) {
	f := newFixture(t, true)
	_, err := f.svc.Enqueue(context.Background(), f.student, f.submission)
	require.NoError(t, err)

	summary, err := f.svc.ProcessBatch(context.Background(), 10)

	require.NoError(t, err)
	assert.Equal(t, 1, summary.Claimed)
	assert.Equal(t, 1, summary.Sent)
	assert.Equal(t, 0, summary.Retried)
	assert.Equal(t, 0, summary.Canceled)

	require.Len(t, f.mailer.sent, 1)
	msg := f.mailer.sent[0]
	assert.Equal(t, "ada@example.com", msg.To)
	assert.Contains(t, msg.Subject, "JavaScript Fundamentals")
	assert.Contains(t, msg.Subject, "Week 1 Session 1")
	assert.Contains(t, msg.Subject, "Grade Report")
	assert.Contains(t, msg.HTML, "5/8")
	assert.Contains(t, msg.Text, "divide #2")

	job := f.outboxRepo.jobs[0]
	assert.Equal(t, domain.OutboxStatusSent, job.Status)
	require.NotNil(t, job.SentAt)

	assert.NotNil(t, f.submission.LastEmailSignature)
	assert.Equal(t, SubmissionSignature(f.submission), *f.submission.LastEmailSignature)
	assert.NotNil(t, f.submission.LastEmailedAt)
}

func TestProcessBatchSkipsFutureJobs(t *testing.T) {
	f := newFixture(t, true)
	_, err := f.svc.Enqueue(context.Background(), f.student, f.submission)
	require.NoError(t, err)
	f.outboxRepo.jobs[0].NextAttemptAt = f.now.Add(time.Hour)

	summary, err := f.svc.ProcessBatch(context.Background(), 10)

	require.NoError(t, err)
	assert.Equal(t, 0, summary.Claimed)
	assert.Empty(t, f.mailer.sent)
}

func TestProcessBatchCancelsSupersededJob(t *testing.T) {
	f := newFixture(t, true)
	_, err := f.svc.Enqueue(context.Background(), f.student, f.submission)
	require.NoError(t, err)

	// the submission is regraded before the job is processed
	f.submission.Score = 8
	f.submission.Results = []domain.TestResult{
		{FunctionName: "add", TestIndex: 0, Passed: true},
	}

	summary, err := f.svc.ProcessBatch(context.Background(), 10)

	require.NoError(t, err)
	assert.Equal(t, 1, summary.Canceled)
	assert.Empty(t, f.mailer.sent)

	job := f.outboxRepo.jobs[0]
	assert.Equal(t, domain.OutboxStatusCanceled, job.Status)
	require.NotNil(t, job.CancelReason)
	assert.Equal(t, domain.CancelSupersededByNewGrade, *job.CancelReason)
}

func TestProcessBatchCancelsWhenStudentMissing(t *testing.T) {
	f := newFixture(t, true)
	_, err := f.svc.Enqueue(context.Background(), f.student, f.submission)
	require.NoError(t, err)
	delete(f.students.students, f.student.ID)

	summary, err := f.svc.ProcessBatch(context.Background(), 10)

	require.NoError(t, err)
	assert.Equal(t, 1, summary.Canceled)
	require.NotNil(t, f.outboxRepo.jobs[0].CancelReason)
	assert.Equal(t, domain.CancelMissingStudentOrSubmission, *f.outboxRepo.jobs[0].CancelReason)
}

func TestProcessBatchCancelsAlreadySent(t *testing.T) {
	f := newFixture(t, true)
	_, err := f.svc.Enqueue(context.Background(), f.student, f.submission)
	require.NoError(t, err)

	sig := SubmissionSignature(f.submission)
	sentAt := f.now.Add(-time.Minute)
	f.submission.LastEmailSignature = &sig
	f.submission.LastEmailedAt = &sentAt

	summary, err := f.svc.ProcessBatch(context.Background(), 10)

	require.NoError(t, err)
	assert.Equal(t, 1, summary.Canceled)
	require.NotNil(t, f.outboxRepo.jobs[0].CancelReason)
	assert.Equal(t, domain.CancelAlreadySent, *f.outboxRepo.jobs[0].CancelReason)
}

func TestProcessBatchReschedulesOnSendFailure(t *testing.T) {
	f := newFixture(t, true)
	_, err := f.svc.Enqueue(context.Background(), f.student, f.submission)
	require.NoError(t, err)
	f.mailer.failErr = errors.New("connection refused")

	summary, err := f.svc.ProcessBatch(context.Background(), 10)

	require.NoError(t, err)
	assert.Equal(t, 1, summary.Retried)

	job := f.outboxRepo.jobs[0]
	assert.Equal(t, domain.OutboxStatusPending, job.Status)
	assert.Equal(t, 1, job.Attempts)
	assert.Equal(t, f.now.Add(time.Minute), job.NextAttemptAt, "first retry after one minute")
	require.NotNil(t, job.LastError)
	assert.Contains(t, *job.LastError, "connection refused")

	require.NotNil(t, f.submission.LastEmailError)
	assert.Contains(t, *f.submission.LastEmailError, "connection refused")
}

func TestProcessBatchHonorsLimit(t *testing.T) {
	f := newFixture(t, true)

	for i := 0; i < 3; i++ {
		sub := domain.NewSubmission(f.student.ID, 1, 1)
		sub.Status = domain.SubmissionCompleted
		sub.Score = i
		sub.MaxScore = 10
		f.subs.submissions[sub.ID] = sub
		_, err := f.svc.Enqueue(context.Background(), f.student, sub)
		require.NoError(t, err)
	}

	summary, err := f.svc.ProcessBatch(context.Background(), 2)

	require.NoError(t, err)
	assert.Equal(t, 2, summary.Claimed)
	assert.Len(t, f.mailer.sent, 2)
}

func TestComputeBackoff(t *testing.T) {
	tests := []struct {
		attempts int
		want     time.Duration
	}{
		{attempts: 1, want: time.Minute},
		{attempts: 2, want: 2 * time.Minute},
		{attempts: 3, want: 4 * time.Minute},
		{attempts: 7, want: 64 * time.Minute},
		{attempts: 10, want: 6 * time.Hour},
		{attempts: 50, want: 6 * time.Hour},
		{attempts: 0, want: time.Minute},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, computeBackoff(tt.attempts), "attempts=%d", tt.attempts)
	}
}
