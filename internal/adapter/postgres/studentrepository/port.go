// package studentrepository contains the PostgreSQL student repository
package studentrepository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/legennd48/backend-js-autograder/internal/core/ports/primary"
	"github.com/legennd48/backend-js-autograder/internal/core/ports/secondary"
	"github.com/legennd48/backend-js-autograder/internal/domain"
	querybuilder "github.com/legennd48/backend-js-autograder/internal/utils"
)

var _ secondary.StudentRepository = &studentRepo{}

type studentRepo struct {
	db     *sqlx.DB
	logger primary.Logger
	schema string
}

// New creates a new PostgreSQL student repository
func New(db *sqlx.DB, logger primary.Logger, schema string) secondary.StudentRepository {
	return &studentRepo{
		db:     db,
		logger: logger,
		schema: schema,
	}
}

func (s *studentRepo) Create(ctx context.Context, student *domain.Student) error {
	tbl := domain.GetStudentTable()
	query, args := querybuilder.NewQueryBuilder(s.schema).
		Insert(
			tbl.ID, tbl.Name, tbl.Email,
			tbl.GithubUsername, tbl.EnrolledAt, tbl.IsActive,
		).
		Into(tbl.GetTableName()).
		Values(
			student.ID, student.Name, student.Email,
			student.GithubUsername, student.EnrolledAt, student.IsActive,
		).
		Build()

	query = sqlx.Rebind(sqlx.DOLLAR, query)
	_, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		s.logger.Error("Failed to create student", "error", err)
		return fmt.Errorf("failed to create student: %w", err)
	}

	return nil
}

func (s *studentRepo) Get(ctx context.Context, id uuid.UUID) (*domain.Student, error) {
	tbl := domain.GetStudentTable()
	query, args := querybuilder.NewQueryBuilder(s.schema).
		Select(
			tbl.ID, tbl.Name, tbl.Email,
			tbl.GithubUsername, tbl.EnrolledAt, tbl.IsActive,
		).
		From(tbl.GetTableName()).
		Where(fmt.Sprintf("%s = ?", tbl.ID), id).
		Build()

	query = sqlx.Rebind(sqlx.DOLLAR, query)
	var student domain.Student
	err := s.db.GetContext(ctx, &student, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		s.logger.Error("Failed to get student", "studentId", id, "error", err)
		return nil, fmt.Errorf("failed to get student: %w", err)
	}

	return &student, nil
}

func (s *studentRepo) GetAll(ctx context.Context) ([]*domain.Student, error) {
	return s.list(ctx, false)
}

func (s *studentRepo) GetActive(ctx context.Context) ([]*domain.Student, error) {
	return s.list(ctx, true)
}

func (s *studentRepo) list(ctx context.Context, activeOnly bool) ([]*domain.Student, error) {
	tbl := domain.GetStudentTable()
	builder := querybuilder.NewQueryBuilder(s.schema).
		Select(
			tbl.ID, tbl.Name, tbl.Email,
			tbl.GithubUsername, tbl.EnrolledAt, tbl.IsActive,
		).
		From(tbl.GetTableName())

	if activeOnly {
		builder = builder.Where(fmt.Sprintf("%s = ?", tbl.IsActive), true)
	}

	query, args := builder.OrderBy(tbl.Name, true).Build()
	query = sqlx.Rebind(sqlx.DOLLAR, query)

	students := make([]*domain.Student, 0)
	if err := s.db.SelectContext(ctx, &students, query, args...); err != nil {
		s.logger.Error("Failed to list students", "error", err)
		return nil, fmt.Errorf("failed to list students: %w", err)
	}

	return students, nil
}

func (s *studentRepo) Update(ctx context.Context, student *domain.Student) error {
	tbl := domain.GetStudentTable()
	query, args := querybuilder.NewQueryBuilder(s.schema).
		Update(tbl.GetTableName(), querybuilder.UpdateData{
			tbl.Name:           student.Name,
			tbl.Email:          student.Email,
			tbl.GithubUsername: student.GithubUsername,
			tbl.IsActive:       student.IsActive,
		}).
		Where(fmt.Sprintf("%s = ?", tbl.ID), student.ID).
		Build()

	query = sqlx.Rebind(sqlx.DOLLAR, query)
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		s.logger.Error("Failed to update student", "studentId", student.ID, "error", err)
		return fmt.Errorf("failed to update student: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("student not found: %s", student.ID)
	}

	return nil
}

func (s *studentRepo) Deactivate(ctx context.Context, id uuid.UUID) error {
	tbl := domain.GetStudentTable()
	query, args := querybuilder.NewQueryBuilder(s.schema).
		Update(tbl.GetTableName(), querybuilder.UpdateData{
			tbl.IsActive: false,
		}).
		Where(fmt.Sprintf("%s = ?", tbl.ID), id).
		Build()

	query = sqlx.Rebind(sqlx.DOLLAR, query)
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		s.logger.Error("Failed to deactivate student", "studentId", id, "error", err)
		return fmt.Errorf("failed to deactivate student: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("student not found: %s", id)
	}

	return nil
}
