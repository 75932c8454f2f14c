package scheduling

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func slotTime(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := ParseTime(value)
	require.NoError(t, err)
	return parsed
}

func TestConflictDetector_NoConflict(t *testing.T) {
	repo := &MockRepository{}
	repo.On("PatientHasActiveOn", mock.Anything, "patient-1", "2099-06-15").Return(false, nil)
	repo.On("DoctorHasActiveBetween", mock.Anything, "doctor-1", "2099-06-15", "09:15", "10:45").Return(false, nil)

	conflict, err := NewConflictDetector(repo).Check(
		context.Background(), "doctor-1", "patient-1", "2099-06-15", slotTime(t, "10:00"))

	require.NoError(t, err)
	assert.Nil(t, conflict)
	repo.AssertExpectations(t)
}

func TestConflictDetector_PatientRuleShortCircuits(t *testing.T) {
	repo := &MockRepository{}
	repo.On("PatientHasActiveOn", mock.Anything, "patient-1", "2099-06-15").Return(true, nil)

	conflict, err := NewConflictDetector(repo).Check(
		context.Background(), "doctor-1", "patient-1", "2099-06-15", slotTime(t, "10:00"))

	require.NoError(t, err)
	require.NotNil(t, conflict)
	assert.Equal(t, ConflictPatient, conflict.Type)
	repo.AssertNotCalled(t, "DoctorHasActiveBetween",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestConflictDetector_DoctorSpacingWindow(t *testing.T) {
	tests := []struct {
		name        string
		slot        string
		windowStart string
		windowEnd   string
	}{
		{name: "mid morning", slot: "10:00", windowStart: "09:15", windowEnd: "10:45"},
		{name: "opening slot", slot: "08:00", windowStart: "07:15", windowEnd: "08:45"},
		{name: "closing slot", slot: "19:30", windowStart: "18:45", windowEnd: "20:15"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &MockRepository{}
			repo.On("PatientHasActiveOn", mock.Anything, "patient-1", "2099-06-15").Return(false, nil)
			repo.On("DoctorHasActiveBetween", mock.Anything, "doctor-1", "2099-06-15", tt.windowStart, tt.windowEnd).Return(true, nil)

			conflict, err := NewConflictDetector(repo).Check(
				context.Background(), "doctor-1", "patient-1", "2099-06-15", slotTime(t, tt.slot))

			require.NoError(t, err)
			require.NotNil(t, conflict)
			assert.Equal(t, ConflictDoctor, conflict.Type)
			repo.AssertExpectations(t)
		})
	}
}

func TestConflictDetector_RepositoryError(t *testing.T) {
	dbErr := errors.New("connection reset")

	repo := &MockRepository{}
	repo.On("PatientHasActiveOn", mock.Anything, "patient-1", "2099-06-15").Return(false, dbErr)

	conflict, err := NewConflictDetector(repo).Check(
		context.Background(), "doctor-1", "patient-1", "2099-06-15", slotTime(t, "10:00"))

	assert.ErrorIs(t, err, dbErr)
	assert.Nil(t, conflict)
}
