package domain

import (
	"time"

	"github.com/google/uuid"
)

// OutboxJobType represents the kind of notification a job delivers
type OutboxJobType string

const (
	OutboxJobGradeReport OutboxJobType = "grade-report"
)

// OutboxJobStatus represents the state of an outbox job
type OutboxJobStatus string

const (
	OutboxStatusPending    OutboxJobStatus = "pending"
	OutboxStatusProcessing OutboxJobStatus = "processing"
	OutboxStatusSent       OutboxJobStatus = "sent"
	OutboxStatusCanceled   OutboxJobStatus = "canceled"
)

// Cancel reasons recorded when a claimed job is disqualified
const (
	CancelMissingStudentOrSubmission = "missing-student-or-submission"
	CancelSubmissionNotCompleted     = "submission-not-completed"
	CancelSupersededByNewGrade       = "superseded-by-new-grade"
	CancelAlreadySent                = "already-sent"
	CancelMissingStudentEmail        = "missing-student-email"
)

// OutboxJob is one durable email delivery job. State transitions are owned
// exclusively by the outbox service; at most one job exists per
// (submissionId, signature) pair.
type OutboxJob struct {
	ID                  uuid.UUID       `db:"id" json:"id"`
	Type                OutboxJobType   `db:"type" json:"type"`
	Status              OutboxJobStatus `db:"status" json:"status"`
	Attempts            int             `db:"attempts" json:"attempts"`
	NextAttemptAt       time.Time       `db:"next_attempt_at" json:"nextAttemptAt"`
	ProcessingStartedAt *time.Time      `db:"processing_started_at" json:"processingStartedAt,omitempty"`
	SentAt              *time.Time      `db:"sent_at" json:"sentAt,omitempty"`
	LastError           *string         `db:"last_error" json:"lastError,omitempty"`
	CancelReason        *string         `db:"cancel_reason" json:"cancelReason,omitempty"`
	StudentID           uuid.UUID       `db:"student_id" json:"studentId"`
	SubmissionID        uuid.UUID       `db:"submission_id" json:"submissionId"`
	To                  string          `db:"to_address" json:"to"`
	Signature           string          `db:"signature" json:"signature"`
	CreatedAt           time.Time       `db:"created_at" json:"createdAt"`
}

// NewGradeReportJob creates a pending job due immediately
func NewGradeReportJob(studentID, submissionID uuid.UUID, to, signature string) *OutboxJob {
	return &OutboxJob{
		ID:            uuid.New(),
		Type:          OutboxJobGradeReport,
		Status:        OutboxStatusPending,
		Attempts:      0,
		NextAttemptAt: time.Now(),
		StudentID:     studentID,
		SubmissionID:  submissionID,
		To:            to,
		Signature:     signature,
		CreatedAt:     time.Now(),
	}
}

type OutboxTable struct {
	ID                  string
	Type                string
	Status              string
	Attempts            string
	NextAttemptAt       string
	ProcessingStartedAt string
	SentAt              string
	LastError           string
	CancelReason        string
	StudentID           string
	SubmissionID        string
	To                  string
	Signature           string
	CreatedAt           string
}

func GetOutboxTable() OutboxTable {
	return OutboxTable{
		ID:                  "id",
		Type:                "type",
		Status:              "status",
		Attempts:            "attempts",
		NextAttemptAt:       "next_attempt_at",
		ProcessingStartedAt: "processing_started_at",
		SentAt:              "sent_at",
		LastError:           "last_error",
		CancelReason:        "cancel_reason",
		StudentID:           "student_id",
		SubmissionID:        "submission_id",
		To:                  "to_address",
		Signature:           "signature",
		CreatedAt:           "created_at",
	}
}

func (t OutboxTable) GetTableName() string {
	return "email_outbox"
}
