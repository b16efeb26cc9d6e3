package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/openlearn/lmd-api/internal/models"
	"github.com/openlearn/lmd-api/internal/store"
	appErrors "github.com/openlearn/lmd-api/pkg/errors"
)

type courseRepository interface {
	List(ctx context.Context) ([]models.Course, error)
	FindByID(ctx context.Context, id int64) (*models.Course, error)
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id int64) (bool, error)
}

type activeEnrollmentCounter interface {
	CountActiveByCourse(ctx context.Context, courseID int64) (int, error)
}

// CreateCourseRequest describes the course creation payload.
type CreateCourseRequest struct {
	Title       string `json:"title" validate:"required,min=3,max=100"`
	Description string `json:"description" validate:"required,min=10,max=500"`
	Code        string `json:"code" validate:"required"`
	MaxCapacity int    `json:"maxCapacity" validate:"required,gt=0,lte=1000"`
}

// UpdateCourseRequest describes the course update payload.
type UpdateCourseRequest struct {
	Title       string `json:"title" validate:"required,min=3,max=100"`
	Description string `json:"description" validate:"required,min=10,max=500"`
	Code        string `json:"code" validate:"required"`
	MaxCapacity int    `json:"maxCapacity" validate:"required,gt=0,lte=1000"`
	IsActive    bool   `json:"isActive"`
}

// CourseService enforces course invariants over the course store, reading
// enrollment counts from the enrollment store.
type CourseService struct {
	courses     courseRepository
	enrollments activeEnrollmentCounter
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewCourseService constructs CourseService.
func NewCourseService(courses courseRepository, enrollments activeEnrollmentCounter, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{courses: courses, enrollments: enrollments, validator: validate, logger: logger}
}

// List returns every course joined with its live active-enrollment count.
func (s *CourseService) List(ctx context.Context) ([]models.CourseView, error) {
	courses, err := s.courses.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	views := make([]models.CourseView, 0, len(courses))
	for _, course := range courses {
		view, err := s.assembleView(ctx, course)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

// Get returns one course view by ID.
func (s *CourseService) Get(ctx context.Context, id int64) (*models.CourseView, error) {
	course, err := s.courses.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("Course with ID %d not found", id))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	view, err := s.assembleView(ctx, *course)
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// Create validates and stores a new course. New courses are active and have
// no enrollments.
func (s *CourseService) Create(ctx context.Context, req CreateCourseRequest) (*models.CourseView, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.CloneWithDetails(appErrors.ErrValidation, "Invalid course payload", validationDetails(err))
	}
	course := models.Course{
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Code:        strings.ToUpper(strings.TrimSpace(req.Code)),
		MaxCapacity: req.MaxCapacity,
		IsActive:    true,
	}
	if err := s.courses.Create(ctx, &course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create course")
	}
	s.logger.Info("course created", zap.Int64("course_id", course.ID), zap.String("code", course.Code))
	return &models.CourseView{Course: course, EnrolledStudents: 0}, nil
}

// Update validates and overwrites an existing course. The new capacity may
// never drop below the current count of Active enrollments.
func (s *CourseService) Update(ctx context.Context, id int64, req UpdateCourseRequest) (*models.CourseView, error) {
	course, err := s.courses.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("Course with ID %d not found", id))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.CloneWithDetails(appErrors.ErrValidation, "Invalid course payload", validationDetails(err))
	}
	activeCount, err := s.enrollments.CountActiveByCourse(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count enrollments")
	}
	if req.MaxCapacity < activeCount {
		return nil, appErrors.Clone(appErrors.ErrBusinessRule,
			fmt.Sprintf("Cannot reduce capacity below current active enrollment count (%d)", activeCount))
	}

	course.Title = strings.TrimSpace(req.Title)
	course.Description = strings.TrimSpace(req.Description)
	course.Code = strings.ToUpper(strings.TrimSpace(req.Code))
	course.MaxCapacity = req.MaxCapacity
	course.IsActive = req.IsActive
	if err := s.courses.Update(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update course")
	}
	return &models.CourseView{Course: *course, EnrolledStudents: activeCount}, nil
}

// Delete removes a course. A course with any Active enrollment cannot be
// deleted.
func (s *CourseService) Delete(ctx context.Context, id int64) error {
	if _, err := s.courses.FindByID(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("Course with ID %d not found", id))
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	activeCount, err := s.enrollments.CountActiveByCourse(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count enrollments")
	}
	if activeCount > 0 {
		return appErrors.Clone(appErrors.ErrConflict, "Cannot delete course with active enrollments")
	}
	removed, err := s.courses.Delete(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete course")
	}
	if !removed {
		return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("Course with ID %d not found", id))
	}
	s.logger.Info("course deleted", zap.Int64("course_id", id))
	return nil
}

func (s *CourseService) assembleView(ctx context.Context, course models.Course) (models.CourseView, error) {
	activeCount, err := s.enrollments.CountActiveByCourse(ctx, course.ID)
	if err != nil {
		return models.CourseView{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count enrollments")
	}
	return models.CourseView{Course: course, EnrolledStudents: activeCount}, nil
}
