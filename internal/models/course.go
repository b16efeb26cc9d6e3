package models

import "time"

// Course represents a course offered on the dashboard.
type Course struct {
	ID          int64     `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	Code        string    `db:"code" json:"code"`
	MaxCapacity int       `db:"max_capacity" json:"maxCapacity"`
	IsActive    bool      `db:"is_active" json:"isActive"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// CourseView enriches a Course with its live active-enrollment count.
type CourseView struct {
	Course
	EnrolledStudents int `json:"enrolledStudents"`
}
