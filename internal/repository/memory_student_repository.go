package repository

import (
	"context"
	"time"

	"github.com/openlearn/lmd-api/internal/models"
	"github.com/openlearn/lmd-api/internal/store"
)

// MemoryStudentRepository keeps students in an in-process store.
type MemoryStudentRepository struct {
	store *store.Store[models.Student]
}

// NewMemoryStudentRepository constructs a MemoryStudentRepository.
func NewMemoryStudentRepository() *MemoryStudentRepository {
	return &MemoryStudentRepository{
		store: store.New(store.Hooks[models.Student]{
			Key: func(s models.Student) int64 { return s.ID },
			OnCreate: func(s models.Student, id int64, now time.Time) models.Student {
				s.ID = id
				s.CreatedAt = now
				return s
			},
		}),
	}
}

// List returns all students in insertion order.
func (r *MemoryStudentRepository) List(ctx context.Context) ([]models.Student, error) {
	return r.store.All(), nil
}

// FindByID fetches a student by ID.
func (r *MemoryStudentRepository) FindByID(ctx context.Context, id int64) (*models.Student, error) {
	student, ok := r.store.Get(id)
	if !ok {
		return nil, store.ErrNotFound
	}
	return &student, nil
}

// Create registers a new student, assigning its identifier.
func (r *MemoryStudentRepository) Create(ctx context.Context, student *models.Student) error {
	*student = r.store.Create(*student)
	return nil
}

// Exists reports whether a student exists.
func (r *MemoryStudentRepository) Exists(ctx context.Context, id int64) (bool, error) {
	return r.store.Exists(id), nil
}
