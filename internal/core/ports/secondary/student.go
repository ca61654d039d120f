package secondary

import (
	"context"

	"github.com/google/uuid"

	"github.com/legennd48/backend-js-autograder/internal/domain"
)

type StudentRepository interface {
	// Create inserts a new student
	Create(ctx context.Context, student *domain.Student) error

	// Get retrieves a student by ID, nil when not found
	Get(ctx context.Context, id uuid.UUID) (*domain.Student, error)

	// GetAll retrieves every student
	GetAll(ctx context.Context) ([]*domain.Student, error)

	// GetActive retrieves all active students
	GetActive(ctx context.Context) ([]*domain.Student, error)

	// Update saves mutable student fields
	Update(ctx context.Context, student *domain.Student) error

	// Deactivate marks a student inactive without deleting history
	Deactivate(ctx context.Context, id uuid.UUID) error
}
