package models

import (
	"time"
)

// SessionStatus represents the lifecycle state of a telemedicine session.
type SessionStatus string

const (
	SessionPending   SessionStatus = "pending"
	SessionActive    SessionStatus = "active"
	SessionCompleted SessionStatus = "completed"
	SessionCancelled SessionStatus = "cancelled"
)

// Connection quality ratings a participant may leave when a session ends.
const (
	QualityExcellent = "excellent"
	QualityGood      = "good"
	QualityFair      = "fair"
	QualityPoor      = "poor"
)

// TelemedicineSession is one video consultation, owned 1:1 by an appointment.
// The unique index on AppointmentID is what makes get-or-create idempotent
// under concurrent requests.
type TelemedicineSession struct {
	BaseModel
	AppointmentID     string        `gorm:"size:36;uniqueIndex" json:"appointmentId"`
	RoomID            string        `gorm:"size:64;uniqueIndex" json:"roomId"`
	RoomURL           string        `gorm:"size:255" json:"roomUrl"`
	Status            SessionStatus `gorm:"size:20;default:'pending';index" json:"status"`
	StartedAt         *time.Time    `gorm:"index" json:"startedAt,omitempty"`
	EndedAt           *time.Time    `json:"endedAt,omitempty"`
	DurationMinutes   int           `json:"durationMinutes"`
	Notes             string        `gorm:"type:text" json:"notes,omitempty"`
	ConnectionQuality string        `gorm:"size:20" json:"connectionQuality,omitempty"`
	DoctorJoined      bool          `gorm:"default:false" json:"doctorJoined"`
	PatientJoined     bool          `gorm:"default:false" json:"patientJoined"`
	DoctorJoinedAt    *time.Time    `json:"doctorJoinedAt,omitempty"`
	PatientJoinedAt   *time.Time    `json:"patientJoinedAt,omitempty"`

	// Relation
	Appointment Appointment `gorm:"foreignKey:AppointmentID;constraint:OnDelete:CASCADE" json:"-"`
}

// MarkJoined records that a participant connected. Re-joining only refreshes
// the participant's own flag and timestamp.
func (s *TelemedicineSession) MarkJoined(role Role, at time.Time) {
	switch role {
	case RoleDoctor:
		s.DoctorJoined = true
		s.DoctorJoinedAt = &at
	case RolePatient:
		s.PatientJoined = true
		s.PatientJoinedAt = &at
	}
}

// MarkStarted moves the session to active on the first join.
func (s *TelemedicineSession) MarkStarted(at time.Time) {
	s.StartedAt = &at
	s.Status = SessionActive
}

// MarkCompleted closes the session and derives its duration. The duration is
// always computed here, never supplied by a caller, and is zero when the
// session was never started.
func (s *TelemedicineSession) MarkCompleted(at time.Time, notes string) {
	duration := 0
	if s.StartedAt != nil {
		duration = int(at.Sub(*s.StartedAt).Minutes())
	}
	s.EndedAt = &at
	s.DurationMinutes = duration
	s.Status = SessionCompleted
	s.Notes = notes
}
