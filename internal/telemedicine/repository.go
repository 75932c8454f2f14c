package telemedicine

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"clinic-booking-server/internal/models"
)

// Repository is the persistence surface of the telemedicine service.
type Repository interface {
	GetAppointment(ctx context.Context, id string) (*models.Appointment, error)
	SaveAppointment(ctx context.Context, appt *models.Appointment) error
	GetSession(ctx context.Context, id string) (*models.TelemedicineSession, error)
	GetSessionByAppointment(ctx context.Context, appointmentID string) (*models.TelemedicineSession, error)
	CreateSession(ctx context.Context, session *models.TelemedicineSession) error
	SaveSession(ctx context.Context, session *models.TelemedicineSession) error
	ListForDoctor(ctx context.Context, doctorID string) ([]models.TelemedicineSession, error)
	ListForPatient(ctx context.Context, patientID string) ([]models.TelemedicineSession, error)
}

// GormRepository implements Repository on gorm.
type GormRepository struct {
	db *gorm.DB
}

// NewRepository creates the gorm-backed telemedicine repository.
func NewRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) GetAppointment(ctx context.Context, id string) (*models.Appointment, error) {
	var appt models.Appointment
	err := r.db.WithContext(ctx).
		Preload("Patient").Preload("Doctor").
		First(&appt, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &appt, nil
}

func (r *GormRepository) SaveAppointment(ctx context.Context, appt *models.Appointment) error {
	return r.db.WithContext(ctx).Save(appt).Error
}

func (r *GormRepository) GetSession(ctx context.Context, id string) (*models.TelemedicineSession, error) {
	var session models.TelemedicineSession
	err := r.db.WithContext(ctx).
		Preload("Appointment").
		First(&session, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *GormRepository) GetSessionByAppointment(ctx context.Context, appointmentID string) (*models.TelemedicineSession, error) {
	var session models.TelemedicineSession
	err := r.db.WithContext(ctx).
		Where("appointment_id = ?", appointmentID).
		First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *GormRepository) CreateSession(ctx context.Context, session *models.TelemedicineSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *GormRepository) SaveSession(ctx context.Context, session *models.TelemedicineSession) error {
	return r.db.WithContext(ctx).Save(session).Error
}

func (r *GormRepository) ListForDoctor(ctx context.Context, doctorID string) ([]models.TelemedicineSession, error) {
	var sessions []models.TelemedicineSession
	err := r.db.WithContext(ctx).
		Joins("JOIN appointments ON appointments.id = telemedicine_sessions.appointment_id").
		Where("appointments.doctor_id = ?", doctorID).
		Preload("Appointment").Preload("Appointment.Patient").
		Order("telemedicine_sessions.created_at desc").
		Find(&sessions).Error
	return sessions, err
}

func (r *GormRepository) ListForPatient(ctx context.Context, patientID string) ([]models.TelemedicineSession, error) {
	var sessions []models.TelemedicineSession
	err := r.db.WithContext(ctx).
		Joins("JOIN appointments ON appointments.id = telemedicine_sessions.appointment_id").
		Where("appointments.patient_id = ?", patientID).
		Preload("Appointment").Preload("Appointment.Doctor").
		Order("telemedicine_sessions.created_at desc").
		Find(&sessions).Error
	return sessions, err
}
