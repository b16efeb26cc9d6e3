package repository

import (
	"context"
	"time"

	"github.com/openlearn/lmd-api/internal/models"
	"github.com/openlearn/lmd-api/internal/store"
)

// MemoryCourseRepository keeps courses in an in-process store.
type MemoryCourseRepository struct {
	store *store.Store[models.Course]
}

// NewMemoryCourseRepository constructs a MemoryCourseRepository.
func NewMemoryCourseRepository() *MemoryCourseRepository {
	return &MemoryCourseRepository{
		store: store.New(store.Hooks[models.Course]{
			Key: func(c models.Course) int64 { return c.ID },
			OnCreate: func(c models.Course, id int64, now time.Time) models.Course {
				c.ID = id
				c.CreatedAt = now
				c.UpdatedAt = now
				return c
			},
			OnUpdate: func(c models.Course, now time.Time) models.Course {
				c.UpdatedAt = now
				return c
			},
		}),
	}
}

// List returns all courses in insertion order.
func (r *MemoryCourseRepository) List(ctx context.Context) ([]models.Course, error) {
	return r.store.All(), nil
}

// FindByID fetches a course by ID.
func (r *MemoryCourseRepository) FindByID(ctx context.Context, id int64) (*models.Course, error) {
	course, ok := r.store.Get(id)
	if !ok {
		return nil, store.ErrNotFound
	}
	return &course, nil
}

// Create stores a new course, assigning its identifier and timestamps.
func (r *MemoryCourseRepository) Create(ctx context.Context, course *models.Course) error {
	*course = r.store.Create(*course)
	return nil
}

// Update replaces the stored course.
func (r *MemoryCourseRepository) Update(ctx context.Context, course *models.Course) error {
	updated, err := r.store.Update(*course)
	if err != nil {
		return err
	}
	*course = updated
	return nil
}

// Delete removes a course, reporting whether one existed.
func (r *MemoryCourseRepository) Delete(ctx context.Context, id int64) (bool, error) {
	return r.store.Delete(id), nil
}

// Exists reports whether a course exists.
func (r *MemoryCourseRepository) Exists(ctx context.Context, id int64) (bool, error) {
	return r.store.Exists(id), nil
}
