package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/openlearn/lmd-api/internal/models"
	"github.com/openlearn/lmd-api/internal/store"
	appErrors "github.com/openlearn/lmd-api/pkg/errors"
)

type studentRepository interface {
	List(ctx context.Context) ([]models.Student, error)
	FindByID(ctx context.Context, id int64) (*models.Student, error)
}

type enrollmentsByStudentReader interface {
	ListByStudent(ctx context.Context, studentID int64) ([]models.Enrollment, error)
	CountActiveByCourse(ctx context.Context, courseID int64) (int, error)
}

type courseByIDReader interface {
	FindByID(ctx context.Context, id int64) (*models.Course, error)
}

// StudentService reads and searches students, assembling each with their
// enrolled courses. Enrollments of every status are included in the course
// list; missing course references are skipped.
type StudentService struct {
	students    studentRepository
	enrollments enrollmentsByStudentReader
	courses     courseByIDReader
	logger      *zap.Logger
}

// NewStudentService constructs StudentService.
func NewStudentService(students studentRepository, enrollments enrollmentsByStudentReader, courses courseByIDReader, logger *zap.Logger) *StudentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{students: students, enrollments: enrollments, courses: courses, logger: logger}
}

// List returns every student with their enrolled courses.
func (s *StudentService) List(ctx context.Context) ([]models.StudentView, error) {
	students, err := s.students.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	views := make([]models.StudentView, 0, len(students))
	for _, student := range students {
		view, err := s.assembleView(ctx, student)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

// Get returns one student view by ID.
func (s *StudentService) Get(ctx context.Context, id int64) (*models.StudentView, error) {
	student, err := s.students.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("Student with ID %d not found", id))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	view, err := s.assembleView(ctx, *student)
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// Search returns students whose full name or email contains term,
// case-insensitively. Blank terms are guarded at the transport boundary; an
// empty term here matches every student.
func (s *StudentService) Search(ctx context.Context, term string) ([]models.StudentView, error) {
	students, err := s.students.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	needle := strings.ToLower(term)
	views := make([]models.StudentView, 0)
	for _, student := range students {
		if !strings.Contains(strings.ToLower(student.FullName()), needle) &&
			!strings.Contains(strings.ToLower(student.Email), needle) {
			continue
		}
		view, err := s.assembleView(ctx, student)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *StudentService) assembleView(ctx context.Context, student models.Student) (models.StudentView, error) {
	enrollments, err := s.enrollments.ListByStudent(ctx, student.ID)
	if err != nil {
		return models.StudentView{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrollments")
	}
	courses := make([]models.CourseView, 0, len(enrollments))
	for _, enrollment := range enrollments {
		course, err := s.courses.FindByID(ctx, enrollment.CourseID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				continue
			}
			return models.StudentView{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
		}
		activeCount, err := s.enrollments.CountActiveByCourse(ctx, course.ID)
		if err != nil {
			return models.StudentView{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count enrollments")
		}
		courses = append(courses, models.CourseView{Course: *course, EnrolledStudents: activeCount})
	}
	return models.StudentView{
		ID:              student.ID,
		FirstName:       student.FirstName,
		LastName:        student.LastName,
		FullName:        student.FullName(),
		Email:           student.Email,
		CreatedAt:       student.CreatedAt,
		EnrolledCourses: courses,
	}, nil
}
