package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"clinic-booking-server/internal/middleware"
	"clinic-booking-server/internal/models"
	"clinic-booking-server/internal/scheduling"
	"clinic-booking-server/internal/utils"
)

// AppointmentHandler handles appointment related requests.
type AppointmentHandler struct {
	Service *scheduling.Service
}

// NewAppointmentHandler creates a new AppointmentHandler.
func NewAppointmentHandler(service *scheduling.Service) *AppointmentHandler {
	return &AppointmentHandler{Service: service}
}

// CreateAppointmentRequest represents the request body for creating an appointment.
type CreateAppointmentRequest struct {
	DoctorID         string `json:"doctorId" binding:"required,uuid"`
	Date             string `json:"date" binding:"required"`
	Time             string `json:"time" binding:"required"`
	ConsultationType string `json:"consultationType" binding:"required,max=255"`
	ConsultationMode string `json:"consultationMode" binding:"omitempty,oneof=in_person telemedicine"`
}

// CreateAppointment books an appointment for the authenticated patient.
func (h *AppointmentHandler) CreateAppointment(c *gin.Context) {
	patientID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "Patient not authenticated")
		return
	}

	var req CreateAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	appt, emailSent, err := h.Service.Create(c.Request.Context(), patientID, scheduling.CreateInput{
		DoctorID:         req.DoctorID,
		Date:             req.Date,
		Time:             req.Time,
		ConsultationType: req.ConsultationType,
		ConsultationMode: models.ConsultationMode(req.ConsultationMode),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	message := "Appointment confirmed successfully."
	if !emailSent {
		message += " (Email notification could not be sent)"
	}
	utils.Created(c, message, gin.H{
		"appointment": appt,
		"emailSent":   emailSent,
	})
}

// CancelAppointment cancels one of the authenticated patient's appointments.
func (h *AppointmentHandler) CancelAppointment(c *gin.Context) {
	patientID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "Patient not authenticated")
		return
	}

	if err := h.Service.Cancel(c.Request.Context(), patientID, c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	utils.Success(c, "Appointment cancelled successfully.", nil)
}

// patientAppointmentView is the list projection for patients. Rows with a
// missing doctor record degrade to placeholder display values.
type patientAppointmentView struct {
	ID               string                   `json:"id"`
	Doctor           string                   `json:"doctor"`
	Specialty        string                   `json:"specialty"`
	Date             string                   `json:"date"`
	Time             string                   `json:"time"`
	Status           models.AppointmentStatus `json:"status"`
	ConsultationType string                   `json:"consultationType"`
	ConsultationMode models.ConsultationMode  `json:"consultationMode"`
	CanCancel        bool                     `json:"canCancel"`
}

// GetPatientAppointments lists the authenticated patient's appointments.
func (h *AppointmentHandler) GetPatientAppointments(c *gin.Context) {
	patientID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "Patient not authenticated")
		return
	}

	appointments, err := h.Service.ListForPatient(c.Request.Context(), patientID)
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch appointments")
		return
	}

	views := make([]patientAppointmentView, 0, len(appointments))
	for i := range appointments {
		appt := &appointments[i]
		view := patientAppointmentView{
			ID:               appt.ID,
			Doctor:           "Doctor unavailable",
			Specialty:        "Not specified",
			Date:             appt.Date,
			Time:             appt.Time,
			Status:           appt.Status,
			ConsultationType: appt.ConsultationType,
			ConsultationMode: appt.ConsultationMode,
			CanCancel:        h.Service.CanBeCancelled(appt),
		}
		if appt.Doctor.ID != "" {
			view.Doctor = "Dr. " + appt.Doctor.FullName()
			if appt.Doctor.Specialty != "" {
				view.Specialty = appt.Doctor.Specialty
			}
		}
		views = append(views, view)
	}

	utils.Success(c, "Appointments fetched successfully", views)
}

// doctorAppointmentView is the list projection for doctors. Rows with a
// missing patient record degrade to placeholder display values.
type doctorAppointmentView struct {
	ID               string                   `json:"id"`
	Patient          string                   `json:"patient"`
	PatientID        string                   `json:"patientId"`
	PatientEmail     string                   `json:"patientEmail"`
	PatientPhone     string                   `json:"patientPhone"`
	Date             string                   `json:"date"`
	Time             string                   `json:"time"`
	Status           models.AppointmentStatus `json:"status"`
	ConsultationType string                   `json:"consultationType"`
	ConsultationMode models.ConsultationMode  `json:"consultationMode"`
}

// GetDoctorAppointments lists the authenticated doctor's appointments.
func (h *AppointmentHandler) GetDoctorAppointments(c *gin.Context) {
	doctorID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "Doctor not authenticated")
		return
	}

	appointments, err := h.Service.ListForDoctor(c.Request.Context(), doctorID)
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch appointments")
		return
	}

	views := make([]doctorAppointmentView, 0, len(appointments))
	for i := range appointments {
		appt := &appointments[i]
		view := doctorAppointmentView{
			ID:               appt.ID,
			Patient:          "Patient unavailable",
			PatientID:        appt.PatientID,
			Date:             appt.Date,
			Time:             appt.Time,
			Status:           appt.Status,
			ConsultationType: appt.ConsultationType,
			ConsultationMode: appt.ConsultationMode,
		}
		if appt.Patient.ID != "" {
			view.Patient = appt.Patient.FullName()
			view.PatientEmail = appt.Patient.Email
			view.PatientPhone = appt.Patient.PhoneNumber
		}
		views = append(views, view)
	}

	utils.Success(c, "Appointments fetched successfully", views)
}

// GetDoctorAppointmentByID returns a single appointment of the authenticated
// doctor as a flattened patient plus doctor detail projection.
func (h *AppointmentHandler) GetDoctorAppointmentByID(c *gin.Context) {
	doctorID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "Doctor not authenticated")
		return
	}

	appt, err := h.Service.GetForDoctor(c.Request.Context(), doctorID, c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	utils.Success(c, "Appointment fetched successfully", gin.H{
		"id":               appt.ID,
		"date":             appt.Date,
		"time":             appt.Time,
		"consultationType": appt.ConsultationType,
		"consultationMode": appt.ConsultationMode,
		"status":           appt.Status,
		"videoRoomId":      appt.VideoRoomID,
		"patientId":        appt.Patient.ID,
		"patientName":      appt.Patient.FullName(),
		"patientEmail":     appt.Patient.Email,
		"patientPhone":     appt.Patient.PhoneNumber,
		"patientAddress":   appt.Patient.Address,
		"doctorId":         appt.Doctor.ID,
		"doctorName":       appt.Doctor.FullName(),
		"doctorSpecialty":  appt.Doctor.Specialty,
		"createdAt":        appt.CreatedAt,
		"updatedAt":        appt.UpdatedAt,
	})
}

// GetPatientStats returns the authenticated patient's appointment counts.
func (h *AppointmentHandler) GetPatientStats(c *gin.Context) {
	patientID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "Patient not authenticated")
		return
	}

	stats, err := h.Service.Stats(c.Request.Context(), patientID)
	if err != nil {
		utils.InternalServerError(c, "Failed to compute stats")
		return
	}
	utils.Success(c, "Stats fetched successfully", stats)
}

// GetGlobalStats returns clinic-wide appointment counts.
func (h *AppointmentHandler) GetGlobalStats(c *gin.Context) {
	stats, err := h.Service.GlobalStats(c.Request.Context())
	if err != nil {
		utils.InternalServerError(c, "Failed to compute stats")
		return
	}
	utils.Success(c, "Stats fetched successfully", stats)
}

// respondError maps scheduling errors onto the response taxonomy.
func (h *AppointmentHandler) respondError(c *gin.Context, err error) {
	var validationErr *scheduling.ValidationError
	var conflictErr *scheduling.ConflictError
	switch {
	case errors.As(err, &conflictErr):
		utils.Conflict(c, conflictErr.Conflict.Message, gin.H{"type": conflictErr.Conflict.Type})
	case errors.As(err, &validationErr):
		utils.UnprocessableEntity(c, validationErr.Reason)
	case errors.Is(err, scheduling.ErrDoctorUnavailable),
		errors.Is(err, scheduling.ErrNotCancellable),
		errors.Is(err, scheduling.ErrCancelWindowClosed):
		utils.UnprocessableEntity(c, err.Error())
	case errors.Is(err, scheduling.ErrAppointmentNotFound),
		errors.Is(err, scheduling.ErrDoctorNotFound),
		errors.Is(err, scheduling.ErrPatientNotFound):
		utils.NotFound(c, err.Error())
	default:
		utils.InternalServerError(c, "Internal error while processing the appointment")
	}
}
