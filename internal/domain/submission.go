package domain

import (
	"time"

	"github.com/google/uuid"
)

// SubmissionStatus represents the lifecycle state of a submission
type SubmissionStatus string

const (
	SubmissionPending   SubmissionStatus = "pending"
	SubmissionGrading   SubmissionStatus = "grading"
	SubmissionCompleted SubmissionStatus = "completed"
	SubmissionError     SubmissionStatus = "error"
)

// Submission represents one graded (week, session) attempt for a student
type Submission struct {
	ID                 uuid.UUID        `db:"id" json:"id"`
	StudentID          uuid.UUID        `db:"student_id" json:"studentId"`
	Week               int              `db:"week" json:"week"`
	Session            int              `db:"session" json:"session"`
	SubmittedAt        time.Time        `db:"submitted_at" json:"submittedAt"`
	Status             SubmissionStatus `db:"status" json:"status"`
	Score              int              `db:"score" json:"score"`
	MaxScore           int              `db:"max_score" json:"maxScore"`
	Results            []TestResult     `db:"-" json:"results"`
	ErrorMessage       *string          `db:"error_message" json:"errorMessage,omitempty"`
	LastEmailSignature *string          `db:"last_email_signature" json:"lastEmailSignature,omitempty"`
	LastEmailedAt      *time.Time       `db:"last_emailed_at" json:"lastEmailedAt,omitempty"`
	LastEmailError     *string          `db:"last_email_error" json:"lastEmailError,omitempty"`
}

// NewSubmission creates a submission in the grading state
func NewSubmission(studentID uuid.UUID, week, session int) *Submission {
	return &Submission{
		ID:          uuid.New(),
		StudentID:   studentID,
		Week:        week,
		Session:     session,
		SubmittedAt: time.Now(),
		Status:      SubmissionGrading,
	}
}

type SubmissionsTable struct {
	ID                 string
	StudentID          string
	Week               string
	Session            string
	SubmittedAt        string
	Status             string
	Score              string
	MaxScore           string
	Results            string
	ErrorMessage       string
	LastEmailSignature string
	LastEmailedAt      string
	LastEmailError     string
}

func GetSubmissionTable() SubmissionsTable {
	return SubmissionsTable{
		ID:                 "id",
		StudentID:          "student_id",
		Week:               "week",
		Session:            "session",
		SubmittedAt:        "submitted_at",
		Status:             "status",
		Score:              "score",
		MaxScore:           "max_score",
		Results:            "results",
		ErrorMessage:       "error_message",
		LastEmailSignature: "last_email_signature",
		LastEmailedAt:      "last_emailed_at",
		LastEmailError:     "last_email_error",
	}
}

func (t SubmissionsTable) GetTableName() string {
	return "submissions"
}
