package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppointmentStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from AppointmentStatus
		to   AppointmentStatus
		want bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusRejected, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusRejected, true},
		{StatusConfirmed, StatusPending, false},
		{StatusCancelled, StatusConfirmed, false},
		{StatusCancelled, StatusPending, false},
		{StatusRejected, StatusConfirmed, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"_to_"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestAppointmentStatus_Predicates(t *testing.T) {
	assert.True(t, StatusPending.IsActive())
	assert.True(t, StatusConfirmed.IsActive())
	assert.False(t, StatusCancelled.IsActive())
	assert.False(t, StatusRejected.IsActive())

	assert.True(t, StatusCancelled.IsTerminal())
	assert.True(t, StatusRejected.IsTerminal())
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusConfirmed.IsTerminal())
}

func TestAppointment_StartsAt(t *testing.T) {
	appt := &Appointment{Date: "2099-06-15", Time: "10:30"}

	startsAt, err := appt.StartsAt()

	require.NoError(t, err)
	assert.Equal(t, time.Date(2099, time.June, 15, 10, 30, 0, 0, time.Local), startsAt)

	_, err = (&Appointment{Date: "2099-06-15", Time: "25:99"}).StartsAt()
	assert.Error(t, err)
}

func TestAppointment_IsRemote(t *testing.T) {
	assert.True(t, (&Appointment{ConsultationMode: ModeTelemedicine}).IsRemote())
	assert.False(t, (&Appointment{ConsultationMode: ModeInPerson}).IsRemote())
	assert.False(t, (&Appointment{}).IsRemote())
}

func TestWorkingHours_ForDay(t *testing.T) {
	hours := WorkingHours{
		{Day: "monday", Hours: "09:00-17:00"},
		{Day: "Friday", Hours: "09:00-12:00"},
	}

	entry, ok := hours.ForDay("monday")
	require.True(t, ok)
	assert.Equal(t, "09:00-17:00", entry.Hours)

	// Day matching is case-insensitive.
	entry, ok = hours.ForDay("friday")
	require.True(t, ok)
	assert.Equal(t, "09:00-12:00", entry.Hours)

	_, ok = hours.ForDay("sunday")
	assert.False(t, ok)
}
