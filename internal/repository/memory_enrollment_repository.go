package repository

import (
	"context"
	"time"

	"github.com/openlearn/lmd-api/internal/models"
	"github.com/openlearn/lmd-api/internal/store"
)

// MemoryEnrollmentRepository keeps enrollments in an in-process store.
type MemoryEnrollmentRepository struct {
	store *store.Store[models.Enrollment]
}

// NewMemoryEnrollmentRepository constructs a MemoryEnrollmentRepository.
func NewMemoryEnrollmentRepository() *MemoryEnrollmentRepository {
	return &MemoryEnrollmentRepository{
		store: store.New(store.Hooks[models.Enrollment]{
			Key: func(e models.Enrollment) int64 { return e.ID },
			OnCreate: func(e models.Enrollment, id int64, now time.Time) models.Enrollment {
				e.ID = id
				if e.EnrollmentDate.IsZero() {
					e.EnrollmentDate = now
				}
				return e
			},
		}),
	}
}

// List returns all enrollments in insertion order.
func (r *MemoryEnrollmentRepository) List(ctx context.Context) ([]models.Enrollment, error) {
	return r.store.All(), nil
}

// FindByID fetches an enrollment by ID.
func (r *MemoryEnrollmentRepository) FindByID(ctx context.Context, id int64) (*models.Enrollment, error) {
	enrollment, ok := r.store.Get(id)
	if !ok {
		return nil, store.ErrNotFound
	}
	return &enrollment, nil
}

// Create stores a new enrollment, assigning its identifier and stamping the
// enrollment date when unset.
func (r *MemoryEnrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	*enrollment = r.store.Create(*enrollment)
	return nil
}

// UpdateStatus replaces the status of an existing enrollment.
func (r *MemoryEnrollmentRepository) UpdateStatus(ctx context.Context, id int64, status models.EnrollmentStatus) error {
	enrollment, ok := r.store.Get(id)
	if !ok {
		return store.ErrNotFound
	}
	enrollment.Status = status
	_, err := r.store.Update(enrollment)
	return err
}

// Delete removes an enrollment, reporting whether one existed.
func (r *MemoryEnrollmentRepository) Delete(ctx context.Context, id int64) (bool, error) {
	return r.store.Delete(id), nil
}

// ListByStudent returns the enrollments referencing studentID.
func (r *MemoryEnrollmentRepository) ListByStudent(ctx context.Context, studentID int64) ([]models.Enrollment, error) {
	return r.store.Filter(func(e models.Enrollment) bool { return e.StudentID == studentID }), nil
}

// ListByCourse returns the enrollments referencing courseID.
func (r *MemoryEnrollmentRepository) ListByCourse(ctx context.Context, courseID int64) ([]models.Enrollment, error) {
	return r.store.Filter(func(e models.Enrollment) bool { return e.CourseID == courseID }), nil
}

// CountActiveByCourse returns the live count of Active enrollments for a
// course. The count is always derived, never cached.
func (r *MemoryEnrollmentRepository) CountActiveByCourse(ctx context.Context, courseID int64) (int, error) {
	return r.store.Count(func(e models.Enrollment) bool {
		return e.CourseID == courseID && e.Status == models.EnrollmentStatusActive
	}), nil
}

// ExistsActive reports whether the student already holds an Active
// enrollment in the course.
func (r *MemoryEnrollmentRepository) ExistsActive(ctx context.Context, studentID, courseID int64) (bool, error) {
	return r.store.Count(func(e models.Enrollment) bool {
		return e.StudentID == studentID && e.CourseID == courseID && e.Status == models.EnrollmentStatusActive
	}) > 0, nil
}
