package grading

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/legennd48/backend-js-autograder/internal/core/ports/primary"
	"github.com/legennd48/backend-js-autograder/internal/core/ports/secondary"
	"github.com/legennd48/backend-js-autograder/internal/domain"
	"github.com/legennd48/backend-js-autograder/internal/static/errs"
)

var _ IGradingService = (*GradingService)(nil)

// GradingService orchestrates fetching, sandboxed execution, and persistence
// for whole assignments
type GradingService struct {
	fetcher        secondary.SourceFetcher
	executor       secondary.CodeExecutor
	catalog        secondary.Catalog
	studentRepo    secondary.StudentRepository
	submissionRepo secondary.SubmissionRepository
	enqueuer       ReportEnqueuer
	logger         primary.Logger
	testTimeout    time.Duration
}

// NewGradingService creates a new grading service
func NewGradingService(
	fetcher secondary.SourceFetcher,
	executor secondary.CodeExecutor,
	catalog secondary.Catalog,
	studentRepo secondary.StudentRepository,
	submissionRepo secondary.SubmissionRepository,
	enqueuer ReportEnqueuer,
	logger primary.Logger,
	testTimeout time.Duration,
) *GradingService {
	return &GradingService{
		fetcher:        fetcher,
		executor:       executor,
		catalog:        catalog,
		studentRepo:    studentRepo,
		submissionRepo: submissionRepo,
		enqueuer:       enqueuer,
		logger:         logger,
		testTimeout:    testTimeout,
	}
}

// GradeStudent grades one student's assignment and persists the outcome
func (s *GradingService) GradeStudent(ctx context.Context, studentID uuid.UUID, week, session int) (*domain.Submission, domain.GradeOutcome, error) {
	student, err := s.studentRepo.Get(ctx, studentID)
	if err != nil {
		return nil, domain.OutcomeError, fmt.Errorf("failed to get student: %w", err)
	}
	if student == nil {
		return nil, domain.OutcomeError, fmt.Errorf("%w: %s", errs.StudentNotFound, studentID)
	}

	submission, err := s.submissionRepo.GetByStudentWeekSession(ctx, studentID, week, session)
	if err != nil {
		return nil, domain.OutcomeError, fmt.Errorf("failed to get submission: %w", err)
	}
	if submission == nil {
		submission = domain.NewSubmission(studentID, week, session)
	} else {
		submission.Status = domain.SubmissionGrading
		submission.SubmittedAt = time.Now()
	}
	if err := s.submissionRepo.Save(ctx, submission); err != nil {
		return nil, domain.OutcomeError, fmt.Errorf("failed to save submission: %w", err)
	}

	assignment, ok := s.catalog.Assignment(week, session)
	if !ok {
		msg := fmt.Sprintf("No assignment spec found for week %d session %d", week, session)
		return s.recordError(ctx, submission, msg, domain.OutcomeError)
	}

	course := s.catalog.Course()
	repoExists, err := s.fetcher.RepoExists(ctx, student.GithubUsername, course.RepoName)
	if err != nil {
		return s.recordError(ctx, submission, fmt.Sprintf("Repository check failed: %v", err), domain.OutcomeError)
	}
	if !repoExists {
		msg := fmt.Sprintf("Repository not found: %s/%s", student.GithubUsername, course.RepoName)
		return s.recordError(ctx, submission, msg, domain.OutcomeNotSubmitted)
	}

	result, allMissing, err := s.gradeAssignment(ctx, student, assignment)
	if err != nil {
		return s.recordError(ctx, submission, fmt.Sprintf("Grading failed: %v", err), domain.OutcomeError)
	}

	submission.Score = result.Score
	submission.MaxScore = result.MaxScore
	submission.Results = result.Results

	if allMissing && result.MaxScore > 0 {
		submission.Status = domain.SubmissionError
		msg := "Assignment files not found - not submitted"
		submission.ErrorMessage = &msg
		if err := s.submissionRepo.Save(ctx, submission); err != nil {
			return submission, domain.OutcomeError, fmt.Errorf("failed to save submission: %w", err)
		}
		return submission, domain.OutcomeNotSubmitted, nil
	}

	submission.Status = domain.SubmissionCompleted
	submission.ErrorMessage = nil
	if err := s.submissionRepo.Save(ctx, submission); err != nil {
		return submission, domain.OutcomeError, fmt.Errorf("failed to save submission: %w", err)
	}

	// Notification delivery is fully decoupled from grading
	if s.enqueuer != nil {
		if err := s.enqueuer.EnqueueGradeReport(ctx, student, submission); err != nil {
			s.logger.Error("Failed to enqueue grade report", "submissionId", submission.ID, "error", err)
		}
	}

	if submission.MaxScore > 0 && submission.Score == submission.MaxScore {
		return submission, domain.OutcomePassed, nil
	}
	return submission, domain.OutcomeFailed, nil
}

// GradeBatch grades every active student, isolating failures per student
func (s *GradingService) GradeBatch(ctx context.Context, week, session int) (*BatchReport, error) {
	if _, ok := s.catalog.Assignment(week, session); !ok {
		return nil, fmt.Errorf("no assignment spec found for week %d session %d", week, session)
	}

	students, err := s.studentRepo.GetActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get active students: %w", err)
	}

	report := &BatchReport{Results: make([]StudentVerdict, 0, len(students))}
	for _, student := range students {
		verdict := s.gradeOne(ctx, student, week, session)
		report.Results = append(report.Results, verdict)
		report.Total++
		switch verdict.Status {
		case domain.OutcomePassed:
			report.Passed++
		case domain.OutcomeFailed:
			report.Failed++
		case domain.OutcomeNotSubmitted:
			report.NotSubmitted++
		default:
			report.Errors++
		}
	}
	return report, nil
}

// gradeOne wraps one student's grading run in its own failure boundary
func (s *GradingService) gradeOne(ctx context.Context, student *domain.Student, week, session int) (verdict StudentVerdict) {
	verdict = StudentVerdict{
		StudentID:      student.ID,
		StudentName:    student.Name,
		GithubUsername: student.GithubUsername,
		Status:         domain.OutcomeError,
	}

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Grading panicked", "studentId", student.ID, "panic", r)
			verdict.Status = domain.OutcomeError
			verdict.ErrorMessage = fmt.Sprintf("grading panicked: %v", r)
		}
	}()

	submission, outcome, err := s.GradeStudent(ctx, student.ID, week, session)
	if err != nil {
		s.logger.Error("Grading failed", "studentId", student.ID, "error", err)
		verdict.ErrorMessage = err.Error()
		return verdict
	}

	verdict.Status = outcome
	if submission != nil {
		verdict.Score = submission.Score
		verdict.MaxScore = submission.MaxScore
		verdict.Percentage = domain.GradeResult{Score: submission.Score, MaxScore: submission.MaxScore}.Percentage()
		if submission.ErrorMessage != nil {
			verdict.ErrorMessage = *submission.ErrorMessage
		}
	}
	return verdict
}

// gradeAssignment runs every non-skipped function of every file. A file the
// fetcher reports absent contributes failed results for all its cases; a
// fetcher error aborts the run and is classified by the caller.
func (s *GradingService) gradeAssignment(ctx context.Context, student *domain.Student, assignment *domain.AssignmentSpec) (domain.GradeResult, bool, error) {
	total := domain.GradeResult{Results: make([]domain.TestResult, 0)}
	allMissing := true
	course := s.catalog.Course()

	for _, file := range assignment.Files {
		filePath := assignment.Path + "/" + file.Filename

		code, found, err := s.fetcher.FetchFile(ctx, student.GithubUsername, course.RepoName, filePath)
		if err != nil {
			return total, false, fmt.Errorf("failed to fetch %s: %w", filePath, err)
		}

		if !found {
			for _, fn := range file.Functions {
				if fn.SkipAutoTest {
					continue
				}
				for i, tc := range fn.Tests {
					total.MaxScore++
					total.Results = append(total.Results, domain.TestResult{
						FunctionName: fn.Name,
						TestIndex:    i,
						Input:        tc.Input,
						Expected:     tc.Expected,
						Error:        "File not found: " + filePath,
					})
				}
			}
			continue
		}

		allMissing = false
		for _, fn := range file.Functions {
			if fn.SkipAutoTest {
				continue
			}
			r := RunTests(s.executor, code, fn, s.testTimeout)
			total.Score += r.Score
			total.MaxScore += r.MaxScore
			total.Results = append(total.Results, r.Results...)
		}
	}
	return total, allMissing, nil
}

func (s *GradingService) recordError(ctx context.Context, submission *domain.Submission, msg string, outcome domain.GradeOutcome) (*domain.Submission, domain.GradeOutcome, error) {
	submission.Status = domain.SubmissionError
	submission.ErrorMessage = &msg
	submission.Score = 0
	submission.MaxScore = 0
	submission.Results = nil
	if err := s.submissionRepo.Save(ctx, submission); err != nil {
		return submission, domain.OutcomeError, fmt.Errorf("failed to save submission: %w", err)
	}
	return submission, outcome, nil
}
