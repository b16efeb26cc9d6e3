package models

import "time"

// EnrollmentStatus represents the lifecycle of an enrollment.
type EnrollmentStatus string

// Possible enrollment statuses. Only Active counts against course capacity
// and duplicate-enrollment checks.
const (
	EnrollmentStatusPending   EnrollmentStatus = "Pending"
	EnrollmentStatusActive    EnrollmentStatus = "Active"
	EnrollmentStatusCompleted EnrollmentStatus = "Completed"
	EnrollmentStatusDropped   EnrollmentStatus = "Dropped"
)

// Valid reports whether s is a known status.
func (s EnrollmentStatus) Valid() bool {
	switch s {
	case EnrollmentStatusPending, EnrollmentStatusActive, EnrollmentStatusCompleted, EnrollmentStatusDropped:
		return true
	}
	return false
}

// Terminal reports whether s admits no further transitions.
func (s EnrollmentStatus) Terminal() bool {
	return s == EnrollmentStatusCompleted || s == EnrollmentStatusDropped
}

// CanTransitionTo reports whether s may move to next. Pending precedes
// Active, Active precedes Completed and Dropped; nothing else.
func (s EnrollmentStatus) CanTransitionTo(next EnrollmentStatus) bool {
	switch s {
	case EnrollmentStatusPending:
		return next == EnrollmentStatusActive
	case EnrollmentStatusActive:
		return next == EnrollmentStatusCompleted || next == EnrollmentStatusDropped
	}
	return false
}

// Enrollment captures a student's registration to a course. Re-enrollment
// after a Dropped or Completed enrollment is a new row; history is preserved.
type Enrollment struct {
	ID             int64            `db:"id" json:"id"`
	StudentID      int64            `db:"student_id" json:"studentId"`
	CourseID       int64            `db:"course_id" json:"courseId"`
	EnrollmentDate time.Time        `db:"enrollment_date" json:"enrollmentDate"`
	Status         EnrollmentStatus `db:"status" json:"status"`
}

// EnrollmentView enriches an Enrollment with student and course info.
type EnrollmentView struct {
	Enrollment
	StudentName  string `json:"studentName"`
	StudentEmail string `json:"studentEmail"`
	CourseTitle  string `json:"courseTitle"`
	CourseCode   string `json:"courseCode"`
}
