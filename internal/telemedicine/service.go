// Package telemedicine tracks the lifecycle of video consultation sessions:
// lazy session creation for confirmed remote appointments, participant join
// tracking and duration computation.
package telemedicine

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"clinic-booking-server/internal/models"
)

// Sentinel errors surfaced to handlers.
var (
	ErrSessionNotFound     = errors.New("session not found")
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrNotRemote           = errors.New("this appointment is not configured for remote consultation")
	ErrNotConfirmed        = errors.New("the appointment must be confirmed")
	ErrNotParticipant      = errors.New("you are not a participant of this session")
)

// Start eligibility window around the scheduled appointment time.
const (
	startLead  = 15 * time.Minute
	startGrace = 2 * time.Hour
)

// Party is the already-resolved identity of the caller.
type Party struct {
	UserID string
	Role   models.Role
}

// SessionInfo bundles a session with its appointment and the advisory
// can-start flag. The flag is informational only; Start does not enforce it.
type SessionInfo struct {
	Session     *models.TelemedicineSession `json:"session"`
	Appointment *models.Appointment         `json:"appointment"`
	CanStart    bool                        `json:"canStart"`
}

// Service manages telemedicine sessions.
type Service struct {
	repo        Repository
	log         *logrus.Logger
	roomBaseURL string
	now         func() time.Time
}

// NewService creates the telemedicine session service. roomBaseURL is the
// conferencing endpoint rooms are derived from, e.g. "https://meet.jit.si".
func NewService(repo Repository, roomBaseURL string, log *logrus.Logger) *Service {
	return &Service{
		repo:        repo,
		log:         log,
		roomBaseURL: roomBaseURL,
		now:         time.Now,
	}
}

// GetOrCreate returns the session for a confirmed telemedicine appointment,
// creating it on first access. The unique appointment index makes the
// operation idempotent; a lost create race falls back to the winner's row.
// The appointment's video room reference is back-filled exactly once.
func (s *Service) GetOrCreate(ctx context.Context, caller Party, appointmentID string) (*SessionInfo, error) {
	appt, err := s.repo.GetAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if err := authorize(caller, appt); err != nil {
		return nil, err
	}
	if !appt.IsRemote() {
		return nil, ErrNotRemote
	}
	if appt.Status != models.StatusConfirmed {
		return nil, ErrNotConfirmed
	}

	session, err := s.repo.GetSessionByAppointment(ctx, appointmentID)
	if errors.Is(err, ErrSessionNotFound) {
		roomID := "consult-" + uuid.New().String()
		session = &models.TelemedicineSession{
			AppointmentID: appointmentID,
			RoomID:        roomID,
			RoomURL:       s.roomBaseURL + "/" + roomID,
			Status:        models.SessionPending,
		}
		if createErr := s.repo.CreateSession(ctx, session); createErr != nil {
			// A concurrent caller may have won the unique-index race.
			session, err = s.repo.GetSessionByAppointment(ctx, appointmentID)
			if err != nil {
				return nil, createErr
			}
		} else {
			s.log.WithFields(logrus.Fields{
				"appointment_id": appointmentID,
				"room_id":        roomID,
			}).Info("telemedicine session created")
		}
	} else if err != nil {
		return nil, err
	}

	if appt.VideoRoomID == "" {
		appt.VideoRoomID = session.RoomID
		if err := s.repo.SaveAppointment(ctx, appt); err != nil {
			return nil, err
		}
	}

	return &SessionInfo{
		Session:     session,
		Appointment: appt,
		CanStart:    s.canStart(appt),
	}, nil
}

// Get returns the existing session for an appointment without creating one.
func (s *Service) Get(ctx context.Context, caller Party, appointmentID string) (*SessionInfo, error) {
	session, err := s.repo.GetSessionByAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	appt, err := s.repo.GetAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if err := authorize(caller, appt); err != nil {
		return nil, err
	}
	return &SessionInfo{
		Session:     session,
		Appointment: appt,
		CanStart:    s.canStart(appt),
	}, nil
}

// Start records the calling participant's join. The first join overall moves
// the session to active, sets started_at and stamps the appointment's video
// start time; later joins only refresh the caller's own join mark.
func (s *Service) Start(ctx context.Context, caller Party, sessionID string) (*models.TelemedicineSession, error) {
	session, err := s.repo.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := authorize(caller, &session.Appointment); err != nil {
		return nil, err
	}

	now := s.now()
	session.MarkJoined(caller.Role, now)

	if session.StartedAt == nil {
		session.MarkStarted(now)
		session.Appointment.VideoStartedAt = &now
		if err := s.repo.SaveAppointment(ctx, &session.Appointment); err != nil {
			return nil, err
		}
		s.log.WithField("session_id", sessionID).Info("telemedicine session started")
	}

	if err := s.repo.SaveSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// EndInput carries the optional wrap-up details a participant may leave.
type EndInput struct {
	Notes             string
	ConnectionQuality string
}

// End completes the session. Duration is derived from started_at and now,
// zero when the session was never started, and stamps the appointment's
// video end time.
func (s *Service) End(ctx context.Context, caller Party, sessionID string, in EndInput) (*models.TelemedicineSession, error) {
	session, err := s.repo.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := authorize(caller, &session.Appointment); err != nil {
		return nil, err
	}

	now := s.now()
	session.MarkCompleted(now, in.Notes)
	if in.ConnectionQuality != "" {
		session.ConnectionQuality = in.ConnectionQuality
	}

	session.Appointment.VideoEndedAt = &now
	if err := s.repo.SaveAppointment(ctx, &session.Appointment); err != nil {
		return nil, err
	}
	if err := s.repo.SaveSession(ctx, session); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"session_id":       sessionID,
		"duration_minutes": session.DurationMinutes,
	}).Info("telemedicine session completed")
	return session, nil
}

// History returns the caller's past and present sessions, newest first.
func (s *Service) History(ctx context.Context, caller Party) ([]models.TelemedicineSession, error) {
	switch caller.Role {
	case models.RoleDoctor:
		return s.repo.ListForDoctor(ctx, caller.UserID)
	case models.RolePatient:
		return s.repo.ListForPatient(ctx, caller.UserID)
	default:
		return nil, ErrNotParticipant
	}
}

// canStart reports whether now falls in the advisory start window
// [appointment time − 15min, appointment time + 2h].
func (s *Service) canStart(appt *models.Appointment) bool {
	startsAt, err := appt.StartsAt()
	if err != nil {
		return false
	}
	now := s.now()
	return !now.Before(startsAt.Add(-startLead)) && !now.After(startsAt.Add(startGrace))
}

// authorize accepts only the doctor or the patient of the appointment.
func authorize(caller Party, appt *models.Appointment) error {
	switch caller.Role {
	case models.RoleDoctor:
		if appt.DoctorID == caller.UserID {
			return nil
		}
	case models.RolePatient:
		if appt.PatientID == caller.UserID {
			return nil
		}
	}
	return ErrNotParticipant
}
