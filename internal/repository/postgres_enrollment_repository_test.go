package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openlearn/lmd-api/internal/models"
	"github.com/openlearn/lmd-api/internal/store"
)

func TestPostgresEnrollmentRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newPostgresMock(t)
	defer cleanup()
	repo := NewPostgresEnrollmentRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO enrollments")).
		WithArgs(int64(3), int64(5), models.EnrollmentStatusActive).
		WillReturnRows(sqlmock.NewRows([]string{"id", "enrollment_date"}).AddRow(11, now))

	enrollment := models.Enrollment{StudentID: 3, CourseID: 5, Status: models.EnrollmentStatusActive}
	require.NoError(t, repo.Create(context.Background(), &enrollment))
	assert.Equal(t, int64(11), enrollment.ID)
	assert.Equal(t, now, enrollment.EnrollmentDate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresEnrollmentRepositoryUpdateStatusNotFound(t *testing.T) {
	db, mock, cleanup := newPostgresMock(t)
	defer cleanup()
	repo := NewPostgresEnrollmentRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE enrollments SET status = $1 WHERE id = $2")).
		WithArgs(models.EnrollmentStatusCompleted, int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), 99, models.EnrollmentStatusCompleted)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresEnrollmentRepositoryCountActiveByCourse(t *testing.T) {
	db, mock, cleanup := newPostgresMock(t)
	defer cleanup()
	repo := NewPostgresEnrollmentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM enrollments WHERE course_id = $1 AND status = $2")).
		WithArgs(int64(5), models.EnrollmentStatusActive).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	count, err := repo.CountActiveByCourse(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, 4, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresEnrollmentRepositoryExistsActive(t *testing.T) {
	db, mock, cleanup := newPostgresMock(t)
	defer cleanup()
	repo := NewPostgresEnrollmentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS (SELECT 1 FROM enrollments WHERE student_id = $1 AND course_id = $2 AND status = $3)")).
		WithArgs(int64(3), int64(5), models.EnrollmentStatusActive).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.ExistsActive(context.Background(), 3, 5)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresEnrollmentRepositoryListByCourse(t *testing.T) {
	db, mock, cleanup := newPostgresMock(t)
	defer cleanup()
	repo := NewPostgresEnrollmentRepository(db)

	rows := sqlmock.NewRows([]string{"id", "student_id", "course_id", "enrollment_date", "status"}).
		AddRow(1, 3, 5, time.Now(), models.EnrollmentStatusActive).
		AddRow(2, 4, 5, time.Now(), models.EnrollmentStatusDropped)
	mock.ExpectQuery(regexp.QuoteMeta("FROM enrollments WHERE course_id = $1 ORDER BY id")).
		WithArgs(int64(5)).
		WillReturnRows(rows)

	enrollments, err := repo.ListByCourse(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, enrollments, 2)
	assert.Equal(t, models.EnrollmentStatusDropped, enrollments[1].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
