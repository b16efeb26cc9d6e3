package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnrollmentStatusValid(t *testing.T) {
	assert.True(t, EnrollmentStatusPending.Valid())
	assert.True(t, EnrollmentStatusActive.Valid())
	assert.True(t, EnrollmentStatusCompleted.Valid())
	assert.True(t, EnrollmentStatusDropped.Valid())
	assert.False(t, EnrollmentStatus("Paused").Valid())
	assert.False(t, EnrollmentStatus("").Valid())
}

func TestEnrollmentStatusCanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to EnrollmentStatus
		want     bool
	}{
		{EnrollmentStatusPending, EnrollmentStatusActive, true},
		{EnrollmentStatusActive, EnrollmentStatusCompleted, true},
		{EnrollmentStatusActive, EnrollmentStatusDropped, true},
		{EnrollmentStatusPending, EnrollmentStatusCompleted, false},
		{EnrollmentStatusPending, EnrollmentStatusDropped, false},
		{EnrollmentStatusActive, EnrollmentStatusPending, false},
		{EnrollmentStatusCompleted, EnrollmentStatusActive, false},
		{EnrollmentStatusDropped, EnrollmentStatusActive, false},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}
