package scheduling

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"clinic-booking-server/internal/models"
)

// Stats aggregates appointment counts. Today and Upcoming only count
// confirmed appointments; Pending counts the staff-approval backlog.
type Stats struct {
	Total    int64 `json:"total"`
	Today    int64 `json:"today"`
	Upcoming int64 `json:"upcoming"`
	Pending  int64 `json:"pending"`
}

// Repository is the persistence surface of the scheduling service. The two
// existence queries take row locks when called through the repository view
// passed to an InTransaction callback.
type Repository interface {
	InTransaction(ctx context.Context, fn func(tx Repository) error) error
	GetUser(ctx context.Context, id string, role models.Role) (*models.User, error)
	GetForPatient(ctx context.Context, patientID, id string) (*models.Appointment, error)
	GetDetailForDoctor(ctx context.Context, doctorID, id string) (*models.Appointment, error)
	PatientHasActiveOn(ctx context.Context, patientID, date string) (bool, error)
	DoctorHasActiveBetween(ctx context.Context, doctorID, date, startTime, endTime string) (bool, error)
	Create(ctx context.Context, appt *models.Appointment) error
	Save(ctx context.Context, appt *models.Appointment) error
	ListForPatient(ctx context.Context, patientID string) ([]models.Appointment, error)
	ListForDoctor(ctx context.Context, doctorID string) ([]models.Appointment, error)
	CountStats(ctx context.Context, patientID, today string) (*Stats, error)
}

// GormRepository implements Repository on gorm.
type GormRepository struct {
	db     *gorm.DB
	locked bool
}

// NewRepository creates the gorm-backed scheduling repository.
func NewRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

// InTransaction runs fn against a repository bound to a single transaction.
// The existence queries of that view lock the matched index range, which is
// what keeps two concurrent bookings for the same slot serialized.
func (r *GormRepository) InTransaction(ctx context.Context, fn func(tx Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormRepository{db: tx, locked: true})
	})
}

func (r *GormRepository) GetUser(ctx context.Context, id string, role models.Role) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("id = ? AND role = ?", id, role).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		switch role {
		case models.RoleDoctor:
			return nil, ErrDoctorNotFound
		case models.RolePatient:
			return nil, ErrPatientNotFound
		}
		return nil, ErrPatientNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepository) GetForPatient(ctx context.Context, patientID, id string) (*models.Appointment, error) {
	var appt models.Appointment
	err := r.db.WithContext(ctx).
		Where("id = ? AND patient_id = ?", id, patientID).
		First(&appt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &appt, nil
}

func (r *GormRepository) GetDetailForDoctor(ctx context.Context, doctorID, id string) (*models.Appointment, error) {
	var appt models.Appointment
	err := r.db.WithContext(ctx).
		Preload("Patient").Preload("Doctor").
		Where("id = ? AND doctor_id = ?", id, doctorID).
		First(&appt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &appt, nil
}

func (r *GormRepository) PatientHasActiveOn(ctx context.Context, patientID, date string) (bool, error) {
	query := r.db.WithContext(ctx).
		Where("patient_id = ? AND date = ? AND status IN ?", patientID, date, models.ActiveStatuses).
		Limit(1)
	if r.locked {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var matches []models.Appointment
	if err := query.Find(&matches).Error; err != nil {
		return false, err
	}
	return len(matches) > 0, nil
}

func (r *GormRepository) DoctorHasActiveBetween(ctx context.Context, doctorID, date, startTime, endTime string) (bool, error) {
	query := r.db.WithContext(ctx).
		Where("doctor_id = ? AND date = ? AND time BETWEEN ? AND ? AND status IN ?",
			doctorID, date, startTime, endTime, models.ActiveStatuses).
		Limit(1)
	if r.locked {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var matches []models.Appointment
	if err := query.Find(&matches).Error; err != nil {
		return false, err
	}
	return len(matches) > 0, nil
}

func (r *GormRepository) Create(ctx context.Context, appt *models.Appointment) error {
	return r.db.WithContext(ctx).Create(appt).Error
}

func (r *GormRepository) Save(ctx context.Context, appt *models.Appointment) error {
	return r.db.WithContext(ctx).Save(appt).Error
}

func (r *GormRepository) ListForPatient(ctx context.Context, patientID string) ([]models.Appointment, error) {
	var appointments []models.Appointment
	err := r.db.WithContext(ctx).
		Preload("Doctor").
		Where("patient_id = ?", patientID).
		Order("date desc, time desc").
		Find(&appointments).Error
	return appointments, err
}

func (r *GormRepository) ListForDoctor(ctx context.Context, doctorID string) ([]models.Appointment, error) {
	var appointments []models.Appointment
	err := r.db.WithContext(ctx).
		Preload("Patient").
		Where("doctor_id = ?", doctorID).
		Order("date desc, time desc").
		Find(&appointments).Error
	return appointments, err
}

// CountStats aggregates counts for one patient, or globally when patientID is
// empty.
func (r *GormRepository) CountStats(ctx context.Context, patientID, today string) (*Stats, error) {
	stats := &Stats{}
	scoped := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&models.Appointment{})
		if patientID != "" {
			q = q.Where("patient_id = ?", patientID)
		}
		return q
	}

	if err := scoped().Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	if err := scoped().Where("date = ? AND status = ?", today, models.StatusConfirmed).
		Count(&stats.Today).Error; err != nil {
		return nil, err
	}
	if err := scoped().Where("date > ? AND status = ?", today, models.StatusConfirmed).
		Count(&stats.Upcoming).Error; err != nil {
		return nil, err
	}
	if err := scoped().Where("status = ?", models.StatusPending).
		Count(&stats.Pending).Error; err != nil {
		return nil, err
	}
	return stats, nil
}
