package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/openlearn/lmd-api/internal/models"
	"github.com/openlearn/lmd-api/internal/store"
	appErrors "github.com/openlearn/lmd-api/pkg/errors"
	"github.com/openlearn/lmd-api/pkg/export"
)

type enrollmentRepository interface {
	List(ctx context.Context) ([]models.Enrollment, error)
	FindByID(ctx context.Context, id int64) (*models.Enrollment, error)
	Create(ctx context.Context, enrollment *models.Enrollment) error
	UpdateStatus(ctx context.Context, id int64, status models.EnrollmentStatus) error
	Delete(ctx context.Context, id int64) (bool, error)
	CountActiveByCourse(ctx context.Context, courseID int64) (int, error)
	ExistsActive(ctx context.Context, studentID, courseID int64) (bool, error)
}

type studentReader interface {
	FindByID(ctx context.Context, id int64) (*models.Student, error)
}

type courseReader interface {
	List(ctx context.Context) ([]models.Course, error)
	FindByID(ctx context.Context, id int64) (*models.Course, error)
}

// ReportCache holds rendered enrollment reports for a short TTL.
type ReportCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

type cacheObserver interface {
	RecordReportCache(hit bool)
}

const reportCacheKey = "report:enrollments"

// CreateEnrollmentRequest describes the enrollment creation payload.
type CreateEnrollmentRequest struct {
	StudentID int64 `json:"studentId" validate:"required,gt=0"`
	CourseID  int64 `json:"courseId" validate:"required,gt=0"`
}

// UpdateEnrollmentStatusRequest describes a status transition payload.
type UpdateEnrollmentStatusRequest struct {
	Status models.EnrollmentStatus `json:"status" validate:"required"`
}

// EnrollmentService owns the enrollment lifecycle. Student and course stores
// are read-only collaborators, consulted in that order when enrolling.
type EnrollmentService struct {
	enrollments enrollmentRepository
	students    studentReader
	courses     courseReader
	validator   *validator.Validate
	logger      *zap.Logger
	cache       ReportCache
	cacheTTL    time.Duration
	metrics     cacheObserver
}

// NewEnrollmentService constructs EnrollmentService.
func NewEnrollmentService(enrollments enrollmentRepository, students studentReader, courses courseReader, validate *validator.Validate, logger *zap.Logger) *EnrollmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{enrollments: enrollments, students: students, courses: courses, validator: validate, logger: logger}
}

// WithReportCache enables short-lived caching of the enrollment report.
// Mutations within the TTL serve a slightly stale report, which is accepted.
func (s *EnrollmentService) WithReportCache(cache ReportCache, ttl time.Duration, metrics cacheObserver) *EnrollmentService {
	s.cache = cache
	s.cacheTTL = ttl
	s.metrics = metrics
	return s
}

// List returns every enrollment joined with its student and course. Rows
// whose referenced student or course is missing are silently excluded.
func (s *EnrollmentService) List(ctx context.Context) ([]models.EnrollmentView, error) {
	enrollments, err := s.enrollments.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrollments")
	}
	views := make([]models.EnrollmentView, 0, len(enrollments))
	for _, enrollment := range enrollments {
		view, err := s.assembleView(ctx, enrollment)
		if err != nil {
			if appErrors.Is(err, appErrors.ErrNotFound) {
				s.logger.Debug("skipping orphaned enrollment",
					zap.Int64("enrollment_id", enrollment.ID),
					zap.Int64("student_id", enrollment.StudentID),
					zap.Int64("course_id", enrollment.CourseID))
				continue
			}
			return nil, err
		}
		views = append(views, *view)
	}
	return views, nil
}

// Get returns one enrollment view by ID. An enrollment whose referenced
// student or course has since been removed reads as absent.
func (s *EnrollmentService) Get(ctx context.Context, id int64) (*models.EnrollmentView, error) {
	enrollment, err := s.enrollments.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("Enrollment with ID %d not found", id))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment")
	}
	view, err := s.assembleView(ctx, *enrollment)
	if err != nil {
		if appErrors.Is(err, appErrors.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("Enrollment with ID %d not found", id))
		}
		return nil, err
	}
	return view, nil
}

// Create enrolls a student into a course after the sequential checks:
// student exists, course exists, course is active, no duplicate Active
// enrollment, capacity not reached. Each failure short-circuits.
//
// The capacity check and the insert are not wrapped in a cross-store
// transaction; concurrent enrollments into the same course can exceed
// capacity by a small margin under load.
func (s *EnrollmentService) Create(ctx context.Context, req CreateEnrollmentRequest) (*models.EnrollmentView, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.CloneWithDetails(appErrors.ErrValidation, "Invalid enrollment payload", validationDetails(err))
	}
	student, err := s.students.FindByID(ctx, req.StudentID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("Student with ID %d not found", req.StudentID))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	course, err := s.courses.FindByID(ctx, req.CourseID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("Course with ID %d not found", req.CourseID))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	if !course.IsActive {
		return nil, appErrors.Clone(appErrors.ErrBusinessRule, "Cannot enroll in an inactive course")
	}
	enrolled, err := s.enrollments.ExistsActive(ctx, req.StudentID, req.CourseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate enrollment")
	}
	if enrolled {
		return nil, appErrors.Clone(appErrors.ErrConflict, "Student is already enrolled in this course")
	}
	activeCount, err := s.enrollments.CountActiveByCourse(ctx, req.CourseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count enrollments")
	}
	if activeCount >= course.MaxCapacity {
		return nil, appErrors.Clone(appErrors.ErrBusinessRule, "Course has reached maximum capacity.")
	}

	enrollment := models.Enrollment{
		StudentID:      req.StudentID,
		CourseID:       req.CourseID,
		EnrollmentDate: time.Now().UTC(),
		Status:         models.EnrollmentStatusActive,
	}
	if err := s.enrollments.Create(ctx, &enrollment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create enrollment")
	}
	s.logger.Info("student enrolled",
		zap.Int64("enrollment_id", enrollment.ID),
		zap.Int64("student_id", req.StudentID),
		zap.Int64("course_id", req.CourseID))
	view := models.EnrollmentView{
		Enrollment:   enrollment,
		StudentName:  student.FullName(),
		StudentEmail: student.Email,
		CourseTitle:  course.Title,
		CourseCode:   course.Code,
	}
	return &view, nil
}

// UpdateStatus transitions an enrollment's status along
// Pending -> Active -> {Completed, Dropped}. Completed and Dropped are
// terminal; a same-status transition is a no-op.
func (s *EnrollmentService) UpdateStatus(ctx context.Context, id int64, req UpdateEnrollmentStatusRequest) (*models.EnrollmentView, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.CloneWithDetails(appErrors.ErrValidation, "Invalid status payload", validationDetails(err))
	}
	if !req.Status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("Unknown enrollment status %q", req.Status))
	}
	enrollment, err := s.enrollments.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("Enrollment with ID %d not found", id))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment")
	}
	if enrollment.Status != req.Status {
		if enrollment.Status.Terminal() {
			return nil, appErrors.Clone(appErrors.ErrBusinessRule,
				fmt.Sprintf("Cannot change status of a %s enrollment", enrollment.Status))
		}
		if !enrollment.Status.CanTransitionTo(req.Status) {
			return nil, appErrors.Clone(appErrors.ErrBusinessRule,
				fmt.Sprintf("Cannot change enrollment status from %s to %s", enrollment.Status, req.Status))
		}
		if err := s.enrollments.UpdateStatus(ctx, id, req.Status); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update enrollment status")
		}
		enrollment.Status = req.Status
	}
	view, err := s.assembleView(ctx, *enrollment)
	if err != nil {
		return nil, err
	}
	return view, nil
}

// Delete removes an enrollment. Course counts shrink implicitly since they
// are always derived live.
func (s *EnrollmentService) Delete(ctx context.Context, id int64) error {
	if _, err := s.enrollments.FindByID(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("Enrollment with ID %d not found", id))
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment")
	}
	removed, err := s.enrollments.Delete(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete enrollment")
	}
	if !removed {
		return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("Enrollment with ID %d not found", id))
	}
	return nil
}

// GenerateReport aggregates enrollment figures per course, ordered by course
// code ascending.
func (s *EnrollmentService) GenerateReport(ctx context.Context) ([]models.CourseReportRow, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, reportCacheKey); err == nil && cached != nil {
			var rows []models.CourseReportRow
			if err := json.Unmarshal(cached, &rows); err == nil {
				if s.metrics != nil {
					s.metrics.RecordReportCache(true)
				}
				return rows, nil
			}
		}
		if s.metrics != nil {
			s.metrics.RecordReportCache(false)
		}
	}

	courses, err := s.courses.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	enrollments, err := s.enrollments.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrollments")
	}

	byCourse := make(map[int64][]models.Enrollment, len(courses))
	for _, enrollment := range enrollments {
		byCourse[enrollment.CourseID] = append(byCourse[enrollment.CourseID], enrollment)
	}

	rows := make([]models.CourseReportRow, 0, len(courses))
	for _, course := range courses {
		row := models.CourseReportRow{
			CourseID:    course.ID,
			CourseTitle: course.Title,
			CourseCode:  course.Code,
			MaxCapacity: course.MaxCapacity,
		}
		for _, enrollment := range byCourse[course.ID] {
			row.TotalEnrollments++
			switch enrollment.Status {
			case models.EnrollmentStatusActive:
				row.ActiveCount++
			case models.EnrollmentStatusCompleted:
				row.CompletedCount++
			case models.EnrollmentStatusDropped:
				row.DroppedCount++
			case models.EnrollmentStatusPending:
				row.PendingCount++
			}
		}
		row.CapacityUtilization = utilization(row.ActiveCount, course.MaxCapacity)
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].CourseCode < rows[j].CourseCode })

	if s.cache != nil {
		if encoded, err := json.Marshal(rows); err == nil {
			if err := s.cache.Set(ctx, reportCacheKey, encoded, s.cacheTTL); err != nil {
				s.logger.Warn("failed to cache enrollment report", zap.Error(err))
			}
		}
	}
	return rows, nil
}

// ExportReport renders the enrollment report as CSV or PDF.
func (s *EnrollmentService) ExportReport(ctx context.Context, format string) ([]byte, string, error) {
	rows, err := s.GenerateReport(ctx)
	if err != nil {
		return nil, "", err
	}
	dataset := reportDataset(rows)
	switch format {
	case "csv", "":
		data, err := export.CSV(dataset)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render report")
		}
		return data, "text/csv", nil
	case "pdf":
		data, err := export.PDF(dataset, "Enrollment Report")
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render report")
		}
		return data, "application/pdf", nil
	}
	return nil, "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("Unsupported export format %q", format))
}

func reportDataset(rows []models.CourseReportRow) export.Dataset {
	headers := []string{"Code", "Title", "Capacity", "Total", "Active", "Completed", "Dropped", "Pending", "Utilization %"}
	out := export.Dataset{Headers: headers, Rows: make([]map[string]string, 0, len(rows))}
	for _, row := range rows {
		out.Rows = append(out.Rows, map[string]string{
			"Code":          row.CourseCode,
			"Title":         row.CourseTitle,
			"Capacity":      strconv.Itoa(row.MaxCapacity),
			"Total":         strconv.Itoa(row.TotalEnrollments),
			"Active":        strconv.Itoa(row.ActiveCount),
			"Completed":     strconv.Itoa(row.CompletedCount),
			"Dropped":       strconv.Itoa(row.DroppedCount),
			"Pending":       strconv.Itoa(row.PendingCount),
			"Utilization %": strconv.FormatFloat(row.CapacityUtilization, 'f', 2, 64),
		})
	}
	return out
}

// utilization is active/capacity as a percentage rounded to two decimals,
// defined as 0 when capacity is 0.
func utilization(active, capacity int) float64 {
	if capacity <= 0 {
		return 0
	}
	return math.Round(float64(active)/float64(capacity)*10000) / 100
}

func (s *EnrollmentService) assembleView(ctx context.Context, enrollment models.Enrollment) (*models.EnrollmentView, error) {
	student, err := s.students.FindByID(ctx, enrollment.StudentID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("Student with ID %d not found", enrollment.StudentID))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	course, err := s.courses.FindByID(ctx, enrollment.CourseID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("Course with ID %d not found", enrollment.CourseID))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	return &models.EnrollmentView{
		Enrollment:   enrollment,
		StudentName:  student.FullName(),
		StudentEmail: student.Email,
		CourseTitle:  course.Title,
		CourseCode:   course.Code,
	}, nil
}
