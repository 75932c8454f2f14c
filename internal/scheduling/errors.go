package scheduling

import "errors"

// Sentinel errors surfaced to handlers; each maps to a specific HTTP status.
var (
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrDoctorNotFound      = errors.New("doctor not found")
	ErrPatientNotFound     = errors.New("patient not found")
	ErrDoctorUnavailable   = errors.New("this doctor is currently unavailable for appointments")
	ErrNotCancellable      = errors.New("this appointment can no longer be cancelled")
	ErrCancelWindowClosed  = errors.New("appointments cannot be cancelled within 24 hours of the scheduled time")
)

// ValidationError reports malformed or out-of-policy input.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// ConflictError wraps a scheduling conflict detected before the insert.
type ConflictError struct {
	Conflict Conflict
}

func (e *ConflictError) Error() string {
	return e.Conflict.Message
}
