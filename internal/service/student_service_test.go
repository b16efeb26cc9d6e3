package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openlearn/lmd-api/internal/models"
	appErrors "github.com/openlearn/lmd-api/pkg/errors"
)

func TestStudentServiceGet(t *testing.T) {
	f := newFixture(t)
	course := f.addCourse(t, "Databases", "DB301", 10)
	alice := f.addStudent(t, "Alice", "Johnson", "alice@example.com")
	f.enroll(t, alice.ID, course.ID)

	view, err := f.studentSvc.Get(context.Background(), alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice Johnson", view.FullName)
	require.Len(t, view.EnrolledCourses, 1)
	assert.Equal(t, "DB301", view.EnrolledCourses[0].Code)
	assert.Equal(t, 1, view.EnrolledCourses[0].EnrolledStudents)
}

func TestStudentServiceGetNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.studentSvc.Get(context.Background(), 9999)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
	assert.Equal(t, "Student with ID 9999 not found", appErrors.FromError(err).Message)
}

func TestStudentServiceGetIncludesNonActiveEnrollments(t *testing.T) {
	f := newFixture(t)
	course := f.addCourse(t, "Databases", "DB301", 10)
	alice := f.addStudent(t, "Alice", "Johnson", "alice@example.com")
	enrollment := f.enroll(t, alice.ID, course.ID)
	_, err := f.enrollmentSvc.UpdateStatus(context.Background(), enrollment.ID,
		UpdateEnrollmentStatusRequest{Status: models.EnrollmentStatusCompleted})
	require.NoError(t, err)

	view, err := f.studentSvc.Get(context.Background(), alice.ID)
	require.NoError(t, err)

	// The course history keeps completed enrollments, but they no longer
	// count against capacity.
	require.Len(t, view.EnrolledCourses, 1)
	assert.Equal(t, 0, view.EnrolledCourses[0].EnrolledStudents)
}

func TestStudentServiceGetSkipsMissingCourses(t *testing.T) {
	f := newFixture(t)
	course := f.addCourse(t, "Databases", "DB301", 10)
	alice := f.addStudent(t, "Alice", "Johnson", "alice@example.com")
	f.enroll(t, alice.ID, course.ID)

	_, err := f.courses.Delete(context.Background(), course.ID)
	require.NoError(t, err)

	view, err := f.studentSvc.Get(context.Background(), alice.ID)
	require.NoError(t, err)
	assert.Empty(t, view.EnrolledCourses)
}

func TestStudentServiceSearch(t *testing.T) {
	f := newFixture(t)
	f.addStudent(t, "Alice", "Johnson", "alice@example.com")
	f.addStudent(t, "Bob", "Smith", "bob.smith@campus.edu")
	f.addStudent(t, "Carol", "Johnson", "carol@example.com")

	tests := []struct {
		name string
		term string
		want []string
	}{
		{name: "surname case-insensitive", term: "jOhNsOn", want: []string{"Alice Johnson", "Carol Johnson"}},
		{name: "email domain", term: "campus.edu", want: []string{"Bob Smith"}},
		{name: "full name substring", term: "alice john", want: []string{"Alice Johnson"}},
		{name: "no match", term: "zzz", want: []string{}},
		{name: "empty term matches all", term: "", want: []string{"Alice Johnson", "Bob Smith", "Carol Johnson"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			views, err := f.studentSvc.Search(context.Background(), tc.term)
			require.NoError(t, err)
			names := make([]string, 0, len(views))
			for _, view := range views {
				names = append(names, view.FullName)
			}
			assert.Equal(t, tc.want, names)
		})
	}
}

func TestStudentServiceList(t *testing.T) {
	f := newFixture(t)
	f.addStudent(t, "Alice", "Johnson", "alice@example.com")
	f.addStudent(t, "Bob", "Smith", "bob@example.com")

	views, err := f.studentSvc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "Alice Johnson", views[0].FullName)
	assert.Empty(t, views[0].EnrolledCourses)
}
