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

// PostgresEnrollmentRepository persists enrollments in PostgreSQL.
type PostgresEnrollmentRepository struct {
	db *sqlx.DB
}

// NewPostgresEnrollmentRepository constructs a PostgresEnrollmentRepository.
func NewPostgresEnrollmentRepository(db *sqlx.DB) *PostgresEnrollmentRepository {
	return &PostgresEnrollmentRepository{db: db}
}

const enrollmentColumns = "id, student_id, course_id, enrollment_date, status"

// List returns all enrollments in insertion order.
func (r *PostgresEnrollmentRepository) List(ctx context.Context) ([]models.Enrollment, error) {
	query := fmt.Sprintf("SELECT %s FROM enrollments ORDER BY id", enrollmentColumns)
	enrollments := []models.Enrollment{}
	if err := r.db.SelectContext(ctx, &enrollments, query); err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	return enrollments, nil
}

// FindByID fetches an enrollment by ID.
func (r *PostgresEnrollmentRepository) FindByID(ctx context.Context, id int64) (*models.Enrollment, error) {
	query := fmt.Sprintf("SELECT %s FROM enrollments WHERE id = $1", enrollmentColumns)
	var enrollment models.Enrollment
	if err := r.db.GetContext(ctx, &enrollment, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("find enrollment: %w", err)
	}
	return &enrollment, nil
}

// Create inserts a new enrollment and backfills the generated identifier and
// enrollment date.
func (r *PostgresEnrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	query := `INSERT INTO enrollments (student_id, course_id, enrollment_date, status)
        VALUES ($1, $2, NOW(), $3) RETURNING id, enrollment_date`
	row := r.db.QueryRowxContext(ctx, query, enrollment.StudentID, enrollment.CourseID, enrollment.Status)
	if err := row.Scan(&enrollment.ID, &enrollment.EnrollmentDate); err != nil {
		return fmt.Errorf("create enrollment: %w", err)
	}
	return nil
}

// UpdateStatus replaces the status of an existing enrollment.
func (r *PostgresEnrollmentRepository) UpdateStatus(ctx context.Context, id int64, status models.EnrollmentStatus) error {
	res, err := r.db.ExecContext(ctx, "UPDATE enrollments SET status = $1 WHERE id = $2", status, id)
	if err != nil {
		return fmt.Errorf("update enrollment status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update enrollment status: %w", err)
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// Delete removes an enrollment, reporting whether one existed.
func (r *PostgresEnrollmentRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM enrollments WHERE id = $1", id)
	if err != nil {
		return false, fmt.Errorf("delete enrollment: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete enrollment: %w", err)
	}
	return affected > 0, nil
}

// ListByStudent returns the enrollments referencing studentID.
func (r *PostgresEnrollmentRepository) ListByStudent(ctx context.Context, studentID int64) ([]models.Enrollment, error) {
	query := fmt.Sprintf("SELECT %s FROM enrollments WHERE student_id = $1 ORDER BY id", enrollmentColumns)
	enrollments := []models.Enrollment{}
	if err := r.db.SelectContext(ctx, &enrollments, query, studentID); err != nil {
		return nil, fmt.Errorf("list enrollments by student: %w", err)
	}
	return enrollments, nil
}

// ListByCourse returns the enrollments referencing courseID.
func (r *PostgresEnrollmentRepository) ListByCourse(ctx context.Context, courseID int64) ([]models.Enrollment, error) {
	query := fmt.Sprintf("SELECT %s FROM enrollments WHERE course_id = $1 ORDER BY id", enrollmentColumns)
	enrollments := []models.Enrollment{}
	if err := r.db.SelectContext(ctx, &enrollments, query, courseID); err != nil {
		return nil, fmt.Errorf("list enrollments by course: %w", err)
	}
	return enrollments, nil
}

// CountActiveByCourse returns the live count of Active enrollments for a course.
func (r *PostgresEnrollmentRepository) CountActiveByCourse(ctx context.Context, courseID int64) (int, error) {
	var count int
	query := "SELECT COUNT(*) FROM enrollments WHERE course_id = $1 AND status = $2"
	if err := r.db.GetContext(ctx, &count, query, courseID, models.EnrollmentStatusActive); err != nil {
		return 0, fmt.Errorf("count active enrollments: %w", err)
	}
	return count, nil
}

// ExistsActive reports whether the student already holds an Active
// enrollment in the course.
func (r *PostgresEnrollmentRepository) ExistsActive(ctx context.Context, studentID, courseID int64) (bool, error) {
	var exists bool
	query := "SELECT EXISTS (SELECT 1 FROM enrollments WHERE student_id = $1 AND course_id = $2 AND status = $3)"
	if err := r.db.GetContext(ctx, &exists, query, studentID, courseID, models.EnrollmentStatusActive); err != nil {
		return false, fmt.Errorf("active enrollment exists: %w", err)
	}
	return exists, nil
}
