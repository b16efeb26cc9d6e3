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

// PostgresCourseRepository persists courses in PostgreSQL behind the same
// contract as the memory variant. Identifier assignment rides the sequence,
// which is monotonic and never reuses values.
type PostgresCourseRepository struct {
	db *sqlx.DB
}

// NewPostgresCourseRepository constructs a PostgresCourseRepository.
func NewPostgresCourseRepository(db *sqlx.DB) *PostgresCourseRepository {
	return &PostgresCourseRepository{db: db}
}

// List returns all courses in insertion order.
func (r *PostgresCourseRepository) List(ctx context.Context) ([]models.Course, error) {
	query := `SELECT id, title, description, code, max_capacity, is_active, created_at, updated_at
        FROM courses ORDER BY id`
	courses := []models.Course{}
	if err := r.db.SelectContext(ctx, &courses, query); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

// FindByID fetches a course by ID.
func (r *PostgresCourseRepository) FindByID(ctx context.Context, id int64) (*models.Course, error) {
	query := `SELECT id, title, description, code, max_capacity, is_active, created_at, updated_at
        FROM courses WHERE id = $1`
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("find course: %w", err)
	}
	return &course, nil
}

// Create inserts a new course and backfills the generated identifier and
// timestamps.
func (r *PostgresCourseRepository) Create(ctx context.Context, course *models.Course) error {
	query := `INSERT INTO courses (title, description, code, max_capacity, is_active, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
        RETURNING id, created_at, updated_at`
	row := r.db.QueryRowxContext(ctx, query, course.Title, course.Description, course.Code, course.MaxCapacity, course.IsActive)
	if err := row.Scan(&course.ID, &course.CreatedAt, &course.UpdatedAt); err != nil {
		return fmt.Errorf("create course: %w", err)
	}
	return nil
}

// Update replaces the stored course and refreshes updated_at.
func (r *PostgresCourseRepository) Update(ctx context.Context, course *models.Course) error {
	query := `UPDATE courses SET title = $1, description = $2, code = $3, max_capacity = $4, is_active = $5, updated_at = NOW()
        WHERE id = $6 RETURNING updated_at`
	row := r.db.QueryRowxContext(ctx, query, course.Title, course.Description, course.Code, course.MaxCapacity, course.IsActive, course.ID)
	if err := row.Scan(&course.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.ErrNotFound
		}
		return fmt.Errorf("update course: %w", err)
	}
	return nil
}

// Delete removes a course, reporting whether one existed.
func (r *PostgresCourseRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM courses WHERE id = $1", id)
	if err != nil {
		return false, fmt.Errorf("delete course: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete course: %w", err)
	}
	return affected > 0, nil
}

// Exists reports whether a course exists.
func (r *PostgresCourseRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	if err := r.db.GetContext(ctx, &exists, "SELECT EXISTS (SELECT 1 FROM courses WHERE id = $1)", id); err != nil {
		return false, fmt.Errorf("course exists: %w", err)
	}
	return exists, nil
}
