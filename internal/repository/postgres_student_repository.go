package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/openlearn/lmd-api/internal/models"
	"github.com/openlearn/lmd-api/internal/store"
)

// PostgresStudentRepository persists students in PostgreSQL.
type PostgresStudentRepository struct {
	db *sqlx.DB
}

// NewPostgresStudentRepository constructs a PostgresStudentRepository.
func NewPostgresStudentRepository(db *sqlx.DB) *PostgresStudentRepository {
	return &PostgresStudentRepository{db: db}
}

// List returns all students in insertion order.
func (r *PostgresStudentRepository) List(ctx context.Context) ([]models.Student, error) {
	query := `SELECT id, first_name, last_name, email, created_at FROM students ORDER BY id`
	students := []models.Student{}
	if err := r.db.SelectContext(ctx, &students, query); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}

// FindByID fetches a student by ID.
func (r *PostgresStudentRepository) FindByID(ctx context.Context, id int64) (*models.Student, error) {
	query := `SELECT id, first_name, last_name, email, created_at FROM students WHERE id = $1`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("find student: %w", err)
	}
	return &student, nil
}

// Create inserts a new student and backfills the generated identifier.
func (r *PostgresStudentRepository) Create(ctx context.Context, student *models.Student) error {
	query := `INSERT INTO students (first_name, last_name, email, created_at)
        VALUES ($1, $2, $3, NOW()) RETURNING id, created_at`
	row := r.db.QueryRowxContext(ctx, query, student.FirstName, student.LastName, student.Email)
	if err := row.Scan(&student.ID, &student.CreatedAt); err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}

// Exists reports whether a student exists.
func (r *PostgresStudentRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	if err := r.db.GetContext(ctx, &exists, "SELECT EXISTS (SELECT 1 FROM students WHERE id = $1)", id); err != nil {
		return false, fmt.Errorf("student exists: %w", err)
	}
	return exists, nil
}
