package scheduling

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"clinic-booking-server/internal/models"
)

// cancelWindow is the minimum notice a patient must give before the slot.
const cancelWindow = 24 * time.Hour

// Notifier submits best-effort notification emails for a freshly confirmed
// appointment. The returned flag only acknowledges that the messages were
// accepted for delivery; failures never reach the booking path.
type Notifier interface {
	AppointmentConfirmed(appt *models.Appointment, patient, doctor *models.User) bool
}

// Service orchestrates the appointment lifecycle: validation, conflict
// detection, persistence and notification dispatch.
type Service struct {
	repo     Repository
	notifier Notifier
	log      *logrus.Logger
	now      func() time.Time
}

// NewService creates the appointment lifecycle service.
func NewService(repo Repository, notifier Notifier, log *logrus.Logger) *Service {
	return &Service{
		repo:     repo,
		notifier: notifier,
		log:      log,
		now:      time.Now,
	}
}

// CreateInput is a patient-initiated booking request.
type CreateInput struct {
	DoctorID         string
	Date             string
	Time             string
	ConsultationType string
	ConsultationMode models.ConsultationMode
}

// Create books an appointment for the patient. Patient-created bookings are
// confirmed immediately; there is no staff approval gate on this path. The
// returned flag reports whether the confirmation emails were accepted for
// dispatch.
func (s *Service) Create(ctx context.Context, patientID string, in CreateInput) (*models.Appointment, bool, error) {
	doctor, err := s.repo.GetUser(ctx, in.DoctorID, models.RoleDoctor)
	if err != nil {
		return nil, false, err
	}
	if len(doctor.WorkingHours) == 0 {
		return nil, false, ErrDoctorUnavailable
	}
	patient, err := s.repo.GetUser(ctx, patientID, models.RolePatient)
	if err != nil {
		return nil, false, err
	}

	date, err := ParseDate(in.Date)
	if err != nil {
		return nil, false, &ValidationError{Reason: "invalid date, expected " + models.DateLayout}
	}
	timeOfDay, err := ParseTime(in.Time)
	if err != nil {
		return nil, false, &ValidationError{Reason: "invalid time, expected " + models.TimeLayout}
	}

	now := s.now()
	if !IsBookableDate(date, now) {
		return nil, false, &ValidationError{Reason: "date is outside the booking period"}
	}
	if !IsBookableTime(timeOfDay) {
		return nil, false, &ValidationError{Reason: "appointments run between 08:00 and 19:30"}
	}

	mode := in.ConsultationMode
	if mode == "" {
		mode = models.ModeInPerson
	}

	appt := &models.Appointment{
		PatientID:        patientID,
		DoctorID:         in.DoctorID,
		Date:             date.Format(models.DateLayout),
		Time:             timeOfDay.Format(models.TimeLayout),
		ConsultationType: in.ConsultationType,
		ConsultationMode: mode,
		Status:           models.StatusConfirmed,
		CreatedBy:        models.ActorPatient,
		ConfirmedAt:      &now,
	}

	// Conflict check and insert share one transaction; the check's range
	// locks keep concurrent bookings for overlapping slots serialized.
	err = s.repo.InTransaction(ctx, func(tx Repository) error {
		conflict, err := NewConflictDetector(tx).Check(ctx, in.DoctorID, patientID, appt.Date, timeOfDay)
		if err != nil {
			return err
		}
		if conflict != nil {
			return &ConflictError{Conflict: *conflict}
		}
		return tx.Create(ctx, appt)
	})
	if err != nil {
		var conflictErr *ConflictError
		if !errors.As(err, &conflictErr) {
			s.log.WithError(err).WithFields(logrus.Fields{
				"patient_id": patientID,
				"doctor_id":  in.DoctorID,
			}).Error("appointment creation failed")
		}
		return nil, false, err
	}

	emailSent := s.notifier.AppointmentConfirmed(appt, patient, doctor)
	if !emailSent {
		s.log.WithField("appointment_id", appt.ID).
			Warn("confirmation emails were not dispatched")
	}

	s.log.WithFields(logrus.Fields{
		"appointment_id": appt.ID,
		"patient_id":     patientID,
		"doctor_id":      in.DoctorID,
		"date":           appt.Date,
		"time":           appt.Time,
	}).Info("appointment confirmed")

	return appt, emailSent, nil
}

// Cancel withdraws the patient's own appointment. It is only permitted while
// the appointment still occupies its slot and at least 24 hours before the
// scheduled time, measured against wall-clock now.
func (s *Service) Cancel(ctx context.Context, patientID, appointmentID string) error {
	appt, err := s.repo.GetForPatient(ctx, patientID, appointmentID)
	if err != nil {
		return err
	}
	if !appt.Status.CanTransitionTo(models.StatusCancelled) {
		return ErrNotCancellable
	}
	startsAt, err := appt.StartsAt()
	if err != nil {
		return err
	}
	now := s.now()
	if startsAt.Sub(now) < cancelWindow {
		return ErrCancelWindowClosed
	}

	appt.Status = models.StatusCancelled
	appt.CancelledAt = &now
	appt.CancelledBy = models.ActorPatient
	if err := s.repo.Save(ctx, appt); err != nil {
		s.log.WithError(err).WithField("appointment_id", appointmentID).
			Error("appointment cancellation failed")
		return err
	}

	s.log.WithFields(logrus.Fields{
		"appointment_id": appointmentID,
		"patient_id":     patientID,
	}).Info("appointment cancelled")
	return nil
}

// CanBeCancelled reports whether Cancel would currently succeed; lists expose
// it so clients can grey out the cancel action.
func (s *Service) CanBeCancelled(appt *models.Appointment) bool {
	if !appt.Status.CanTransitionTo(models.StatusCancelled) {
		return false
	}
	startsAt, err := appt.StartsAt()
	if err != nil {
		return false
	}
	return startsAt.Sub(s.now()) >= cancelWindow
}

// ListForPatient returns the patient's appointments, newest slot first, with
// the doctor relation preloaded for display.
func (s *Service) ListForPatient(ctx context.Context, patientID string) ([]models.Appointment, error) {
	return s.repo.ListForPatient(ctx, patientID)
}

// ListForDoctor returns the doctor's appointments, newest slot first, with
// the patient relation preloaded for display.
func (s *Service) ListForDoctor(ctx context.Context, doctorID string) ([]models.Appointment, error) {
	return s.repo.ListForDoctor(ctx, doctorID)
}

// GetForDoctor fetches one of the doctor's appointments with both parties
// preloaded.
func (s *Service) GetForDoctor(ctx context.Context, doctorID, appointmentID string) (*models.Appointment, error) {
	return s.repo.GetDetailForDoctor(ctx, doctorID, appointmentID)
}

// Stats aggregates the patient's appointment counts.
func (s *Service) Stats(ctx context.Context, patientID string) (*Stats, error) {
	return s.repo.CountStats(ctx, patientID, s.now().Format(models.DateLayout))
}

// GlobalStats aggregates clinic-wide appointment counts.
func (s *Service) GlobalStats(ctx context.Context) (*Stats, error) {
	return s.repo.CountStats(ctx, "", s.now().Format(models.DateLayout))
}
