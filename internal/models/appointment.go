package models

import (
	"time"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusRejected  AppointmentStatus = "rejected"
)

// IsActive reports whether the appointment still occupies its slot for
// conflict checking.
func (s AppointmentStatus) IsActive() bool {
	return s == StatusPending || s == StatusConfirmed
}

// IsTerminal reports whether no further transition may leave this status.
func (s AppointmentStatus) IsTerminal() bool {
	return s == StatusCancelled || s == StatusRejected
}

// CanTransitionTo reports whether moving to next is a legal status change.
// Transitions are one-directional; terminal states are never left.
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusConfirmed || next == StatusCancelled || next == StatusRejected
	case StatusConfirmed:
		return next == StatusCancelled || next == StatusRejected
	case StatusCancelled, StatusRejected:
		return false
	default:
		return false
	}
}

// ActiveStatuses is the set used by the conflict detector.
var ActiveStatuses = []AppointmentStatus{StatusPending, StatusConfirmed}

// ConsultationMode distinguishes in-person visits from remote ones.
type ConsultationMode string

const (
	ModeInPerson     ConsultationMode = "in_person"
	ModeTelemedicine ConsultationMode = "telemedicine"
)

// Actor identifies which kind of user performed a lifecycle action.
type Actor string

const (
	ActorPatient Actor = "patient"
	ActorDoctor  Actor = "doctor"
	ActorAdmin   Actor = "admin"
)

// Layouts for the date and time-of-day columns.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Appointment represents a scheduled medical consultation. Date and Time are
// stored as strings in DateLayout/TimeLayout form; two-digit hours keep the
// lexicographic ordering used by the doctor spacing query correct.
type Appointment struct {
	BaseModel
	PatientID        string            `gorm:"size:36;index:idx_appointments_patient_date" json:"patientId"`
	DoctorID         string            `gorm:"size:36;index:idx_appointments_doctor_date" json:"doctorId"`
	Date             string            `gorm:"size:10;index:idx_appointments_patient_date;index:idx_appointments_doctor_date" json:"date"`
	Time             string            `gorm:"size:5" json:"time"`
	ConsultationType string            `gorm:"size:255" json:"consultationType"`
	ConsultationMode ConsultationMode  `gorm:"size:20;default:'in_person'" json:"consultationMode"`
	Status           AppointmentStatus `gorm:"size:20;default:'pending'" json:"status"`
	CreatedBy        Actor             `gorm:"size:20" json:"createdBy"`
	ConfirmedAt      *time.Time        `json:"confirmedAt,omitempty"`
	CancelledAt      *time.Time        `json:"cancelledAt,omitempty"`
	CancelledBy      Actor             `gorm:"size:20" json:"cancelledBy,omitempty"`
	VideoRoomID      string            `gorm:"size:64" json:"videoRoomId,omitempty"`
	VideoStartedAt   *time.Time        `json:"videoStartedAt,omitempty"`
	VideoEndedAt     *time.Time        `json:"videoEndedAt,omitempty"`

	// Relations
	Patient User `gorm:"foreignKey:PatientID;constraint:OnDelete:CASCADE" json:"-"`
	Doctor  User `gorm:"foreignKey:DoctorID;constraint:OnDelete:CASCADE" json:"-"`
}

// StartsAt combines the date and time-of-day columns into a single instant.
func (a *Appointment) StartsAt() (time.Time, error) {
	return time.ParseInLocation(DateLayout+" "+TimeLayout, a.Date+" "+a.Time, time.Local)
}

// IsRemote reports whether the appointment is a telemedicine consultation.
func (a *Appointment) IsRemote() bool {
	return a.ConsultationMode == ModeTelemedicine
}
