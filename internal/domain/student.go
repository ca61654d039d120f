package domain

import (
	"time"

	"github.com/google/uuid"
)

// Student represents an enrolled student whose repository is graded
type Student struct {
	ID             uuid.UUID `db:"id" json:"id"`
	Name           string    `db:"name" json:"name"`
	Email          string    `db:"email" json:"email"`
	GithubUsername string    `db:"github_username" json:"githubUsername"`
	EnrolledAt     time.Time `db:"enrolled_at" json:"enrolledAt"`
	IsActive       bool      `db:"is_active" json:"isActive"`
}

// NewStudent creates a new active student
func NewStudent(name, email, githubUsername string) *Student {
	return &Student{
		ID:             uuid.New(),
		Name:           name,
		Email:          email,
		GithubUsername: githubUsername,
		EnrolledAt:     time.Now(),
		IsActive:       true,
	}
}

type StudentsTable struct {
	ID             string
	Name           string
	Email          string
	GithubUsername string
	EnrolledAt     string
	IsActive       string
}

func GetStudentTable() StudentsTable {
	return StudentsTable{
		ID:             "id",
		Name:           "name",
		Email:          "email",
		GithubUsername: "github_username",
		EnrolledAt:     "enrolled_at",
		IsActive:       "is_active",
	}
}

func (t StudentsTable) GetTableName() string {
	return "students"
}
