package models

import "time"

// Student represents a learner registered on the dashboard.
type Student struct {
	ID        int64     `db:"id" json:"id"`
	FirstName string    `db:"first_name" json:"firstName"`
	LastName  string    `db:"last_name" json:"lastName"`
	Email     string    `db:"email" json:"email"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// FullName derives the display name; it is computed on read, never stored.
func (s Student) FullName() string {
	return s.FirstName + " " + s.LastName
}

// StudentView is a Student assembled with the courses they are enrolled in.
type StudentView struct {
	ID              int64        `json:"id"`
	FirstName       string       `json:"firstName"`
	LastName        string       `json:"lastName"`
	FullName        string       `json:"fullName"`
	Email           string       `json:"email"`
	CreatedAt       time.Time    `json:"createdAt"`
	EnrolledCourses []CourseView `json:"enrolledCourses"`
}
