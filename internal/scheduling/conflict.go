package scheduling

import (
	"context"
	"time"

	"clinic-booking-server/internal/models"
)

// doctorSpacing is the minimum gap between two appointments of the same
// doctor on one day. The exclusion interval is inclusive on both ends.
const doctorSpacing = 45 * time.Minute

// ConflictType identifies which booking rule was violated.
type ConflictType string

const (
	ConflictPatient ConflictType = "patient"
	ConflictDoctor  ConflictType = "doctor"
)

// Conflict describes a policy violation preventing a booking.
type Conflict struct {
	Type    ConflictType `json:"type"`
	Message string       `json:"message"`
}

// ConflictDetector evaluates the booking rules against existing appointments.
// It must run against the transactional repository handed out by
// Repository.InTransaction so the read and the subsequent insert stay atomic.
type ConflictDetector struct {
	repo Repository
}

// NewConflictDetector creates a detector bound to the given repository view.
func NewConflictDetector(repo Repository) *ConflictDetector {
	return &ConflictDetector{repo: repo}
}

// Check evaluates the rules in order and returns the first violation, or nil
// when the slot is free. The patient same-day rule wins over the doctor
// spacing rule and short-circuits it.
func (d *ConflictDetector) Check(ctx context.Context, doctorID, patientID, date string, timeOfDay time.Time) (*Conflict, error) {
	held, err := d.repo.PatientHasActiveOn(ctx, patientID, date)
	if err != nil {
		return nil, err
	}
	if held {
		return &Conflict{
			Type:    ConflictPatient,
			Message: "You already have an appointment on this day.",
		}, nil
	}

	windowStart := timeOfDay.Add(-doctorSpacing).Format(models.TimeLayout)
	windowEnd := timeOfDay.Add(doctorSpacing).Format(models.TimeLayout)

	booked, err := d.repo.DoctorHasActiveBetween(ctx, doctorID, date, windowStart, windowEnd)
	if err != nil {
		return nil, err
	}
	if booked {
		return &Conflict{
			Type:    ConflictDoctor,
			Message: "The doctor is not available at this time.",
		}, nil
	}

	return nil, nil
}
