// Package seed loads sample data into the memory store so a freshly started
// server has something for the dashboard to show.
package seed

import (
	"context"

	"go.uber.org/zap"

	"github.com/openlearn/lmd-api/internal/models"
)

type courseWriter interface {
	Create(ctx context.Context, course *models.Course) error
}

type studentWriter interface {
	Create(ctx context.Context, student *models.Student) error
}

type enrollmentWriter interface {
	Create(ctx context.Context, enrollment *models.Enrollment) error
}

// Load inserts sample courses, students, and enrollments.
func Load(ctx context.Context, courses courseWriter, students studentWriter, enrollments enrollmentWriter, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	sampleCourses := []models.Course{
		{Title: "Introduction to Programming", Description: "Learn the fundamentals of programming with Go", Code: "CS101", MaxCapacity: 30, IsActive: true},
		{Title: "Web Development Basics", Description: "Introduction to HTML, CSS, and JavaScript", Code: "WEB201", MaxCapacity: 25, IsActive: true},
		{Title: "Database Design", Description: "Learn database design principles and SQL", Code: "DB301", MaxCapacity: 20, IsActive: true},
	}
	for i := range sampleCourses {
		if err := courses.Create(ctx, &sampleCourses[i]); err != nil {
			return err
		}
	}

	sampleStudents := []models.Student{
		{FirstName: "Alice", LastName: "Johnson", Email: "alice.johnson@example.com"},
		{FirstName: "Bob", LastName: "Smith", Email: "bob.smith@example.com"},
		{FirstName: "Carol", LastName: "Williams", Email: "carol.williams@example.com"},
		{FirstName: "David", LastName: "Brown", Email: "david.brown@example.com"},
	}
	for i := range sampleStudents {
		if err := students.Create(ctx, &sampleStudents[i]); err != nil {
			return err
		}
	}

	sampleEnrollments := []models.Enrollment{
		{StudentID: sampleStudents[0].ID, CourseID: sampleCourses[0].ID, Status: models.EnrollmentStatusActive},
		{StudentID: sampleStudents[1].ID, CourseID: sampleCourses[0].ID, Status: models.EnrollmentStatusActive},
		{StudentID: sampleStudents[1].ID, CourseID: sampleCourses[1].ID, Status: models.EnrollmentStatusCompleted},
		{StudentID: sampleStudents[2].ID, CourseID: sampleCourses[1].ID, Status: models.EnrollmentStatusActive},
		{StudentID: sampleStudents[3].ID, CourseID: sampleCourses[2].ID, Status: models.EnrollmentStatusDropped},
	}
	for i := range sampleEnrollments {
		if err := enrollments.Create(ctx, &sampleEnrollments[i]); err != nil {
			return err
		}
	}

	logger.Info("sample data loaded",
		zap.Int("courses", len(sampleCourses)),
		zap.Int("students", len(sampleStudents)),
		zap.Int("enrollments", len(sampleEnrollments)))
	return nil
}
