package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openlearn/lmd-api/internal/models"
	"github.com/openlearn/lmd-api/internal/store"
)

func seedEnrollment(t *testing.T, repo *MemoryEnrollmentRepository, studentID, courseID int64, status models.EnrollmentStatus) models.Enrollment {
	t.Helper()
	enrollment := models.Enrollment{StudentID: studentID, CourseID: courseID, Status: status}
	require.NoError(t, repo.Create(context.Background(), &enrollment))
	return enrollment
}

func TestMemoryEnrollmentRepositoryCreateStampsDate(t *testing.T) {
	repo := NewMemoryEnrollmentRepository()

	enrollment := seedEnrollment(t, repo, 1, 1, models.EnrollmentStatusActive)
	assert.Equal(t, int64(1), enrollment.ID)
	assert.False(t, enrollment.EnrollmentDate.IsZero())
}

func TestMemoryEnrollmentRepositoryCountActiveByCourse(t *testing.T) {
	repo := NewMemoryEnrollmentRepository()
	seedEnrollment(t, repo, 1, 7, models.EnrollmentStatusActive)
	seedEnrollment(t, repo, 2, 7, models.EnrollmentStatusActive)
	seedEnrollment(t, repo, 3, 7, models.EnrollmentStatusDropped)
	seedEnrollment(t, repo, 4, 8, models.EnrollmentStatusActive)

	count, err := repo.CountActiveByCourse(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestMemoryEnrollmentRepositoryExistsActive(t *testing.T) {
	repo := NewMemoryEnrollmentRepository()
	seedEnrollment(t, repo, 1, 7, models.EnrollmentStatusDropped)

	exists, err := repo.ExistsActive(context.Background(), 1, 7)
	require.NoError(t, err)
	assert.False(t, exists, "non-active enrollment must not count")

	seedEnrollment(t, repo, 1, 7, models.EnrollmentStatusActive)
	exists, err = repo.ExistsActive(context.Background(), 1, 7)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestMemoryEnrollmentRepositoryListByStudentAndCourse(t *testing.T) {
	repo := NewMemoryEnrollmentRepository()
	seedEnrollment(t, repo, 1, 7, models.EnrollmentStatusActive)
	seedEnrollment(t, repo, 1, 8, models.EnrollmentStatusCompleted)
	seedEnrollment(t, repo, 2, 7, models.EnrollmentStatusActive)

	byStudent, err := repo.ListByStudent(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, byStudent, 2)

	byCourse, err := repo.ListByCourse(context.Background(), 7)
	require.NoError(t, err)
	assert.Len(t, byCourse, 2)
}

func TestMemoryEnrollmentRepositoryUpdateStatus(t *testing.T) {
	repo := NewMemoryEnrollmentRepository()
	enrollment := seedEnrollment(t, repo, 1, 7, models.EnrollmentStatusActive)

	require.NoError(t, repo.UpdateStatus(context.Background(), enrollment.ID, models.EnrollmentStatusCompleted))
	stored, err := repo.FindByID(context.Background(), enrollment.ID)
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentStatusCompleted, stored.Status)

	err = repo.UpdateStatus(context.Background(), 999, models.EnrollmentStatusActive)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestMemoryCourseRepositoryRoundTrip(t *testing.T) {
	repo := NewMemoryCourseRepository()
	course := models.Course{Title: "Algorithms", Description: "Sorting, searching, graphs", Code: "CS201", MaxCapacity: 25, IsActive: true}
	require.NoError(t, repo.Create(context.Background(), &course))
	require.NotZero(t, course.ID)
	assert.False(t, course.CreatedAt.IsZero())
	assert.False(t, course.UpdatedAt.IsZero())

	stored, err := repo.FindByID(context.Background(), course.ID)
	require.NoError(t, err)
	assert.Equal(t, course.Title, stored.Title)
	assert.Equal(t, course.Code, stored.Code)

	course.MaxCapacity = 30
	require.NoError(t, repo.Update(context.Background(), &course))
	stored, err = repo.FindByID(context.Background(), course.ID)
	require.NoError(t, err)
	assert.Equal(t, 30, stored.MaxCapacity)

	removed, err := repo.Delete(context.Background(), course.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	_, err = repo.FindByID(context.Background(), course.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}
