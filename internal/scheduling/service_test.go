package scheduling

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"clinic-booking-server/internal/models"
)

// MockRepository is a mock implementation of Repository.
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) InTransaction(ctx context.Context, fn func(tx Repository) error) error {
	args := m.Called(ctx)
	if args.Error(0) != nil {
		return args.Error(0)
	}
	return fn(m)
}

func (m *MockRepository) GetUser(ctx context.Context, id string, role models.Role) (*models.User, error) {
	args := m.Called(ctx, id, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockRepository) GetForPatient(ctx context.Context, patientID, id string) (*models.Appointment, error) {
	args := m.Called(ctx, patientID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Appointment), args.Error(1)
}

func (m *MockRepository) GetDetailForDoctor(ctx context.Context, doctorID, id string) (*models.Appointment, error) {
	args := m.Called(ctx, doctorID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Appointment), args.Error(1)
}

func (m *MockRepository) PatientHasActiveOn(ctx context.Context, patientID, date string) (bool, error) {
	args := m.Called(ctx, patientID, date)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) DoctorHasActiveBetween(ctx context.Context, doctorID, date, startTime, endTime string) (bool, error) {
	args := m.Called(ctx, doctorID, date, startTime, endTime)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) Create(ctx context.Context, appt *models.Appointment) error {
	args := m.Called(ctx, appt)
	return args.Error(0)
}

func (m *MockRepository) Save(ctx context.Context, appt *models.Appointment) error {
	args := m.Called(ctx, appt)
	return args.Error(0)
}

func (m *MockRepository) ListForPatient(ctx context.Context, patientID string) ([]models.Appointment, error) {
	args := m.Called(ctx, patientID)
	return args.Get(0).([]models.Appointment), args.Error(1)
}

func (m *MockRepository) ListForDoctor(ctx context.Context, doctorID string) ([]models.Appointment, error) {
	args := m.Called(ctx, doctorID)
	return args.Get(0).([]models.Appointment), args.Error(1)
}

func (m *MockRepository) CountStats(ctx context.Context, patientID, today string) (*Stats, error) {
	args := m.Called(ctx, patientID, today)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Stats), args.Error(1)
}

// MockNotifier is a mock implementation of Notifier.
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) AppointmentConfirmed(appt *models.Appointment, patient, doctor *models.User) bool {
	args := m.Called(appt, patient, doctor)
	return args.Bool(0)
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func setupTestService(now time.Time) (*Service, *MockRepository, *MockNotifier) {
	repo := &MockRepository{}
	notifier := &MockNotifier{}
	service := NewService(repo, notifier, testLogger())
	service.now = func() time.Time { return now }
	return service, repo, notifier
}

func testDoctor() *models.User {
	return &models.User{
		BaseModel: models.BaseModel{ID: "doctor-1"},
		Email:     "doctor@example.com",
		FirstName: "Alice",
		LastName:  "Martin",
		Role:      models.RoleDoctor,
		WorkingHours: models.WorkingHours{
			{Day: "monday", Hours: "09:00-17:00"},
		},
	}
}

func testPatient() *models.User {
	return &models.User{
		BaseModel: models.BaseModel{ID: "patient-1"},
		Email:     "patient@example.com",
		FirstName: "Bob",
		LastName:  "Diallo",
		Role:      models.RolePatient,
	}
}

func validCreateInput() CreateInput {
	return CreateInput{
		DoctorID:         "doctor-1",
		Date:             "2099-06-15",
		Time:             "10:00",
		ConsultationType: "Consultation",
	}
}

func TestCreate_Success(t *testing.T) {
	service, repo, notifier := setupTestService(fixedNow)

	repo.On("GetUser", mock.Anything, "doctor-1", models.RoleDoctor).Return(testDoctor(), nil)
	repo.On("GetUser", mock.Anything, "patient-1", models.RolePatient).Return(testPatient(), nil)
	repo.On("InTransaction", mock.Anything).Return(nil)
	repo.On("PatientHasActiveOn", mock.Anything, "patient-1", "2099-06-15").Return(false, nil)
	repo.On("DoctorHasActiveBetween", mock.Anything, "doctor-1", "2099-06-15", "09:15", "10:45").Return(false, nil)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*models.Appointment")).Return(nil)
	notifier.On("AppointmentConfirmed", mock.Anything, mock.Anything, mock.Anything).Return(true)

	appt, emailSent, err := service.Create(context.Background(), "patient-1", validCreateInput())

	require.NoError(t, err)
	assert.True(t, emailSent)
	assert.Equal(t, models.StatusConfirmed, appt.Status)
	assert.Equal(t, models.ActorPatient, appt.CreatedBy)
	assert.Equal(t, models.ModeInPerson, appt.ConsultationMode)
	require.NotNil(t, appt.ConfirmedAt)
	assert.Equal(t, fixedNow, *appt.ConfirmedAt)
	repo.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestCreate_DoctorWithoutWorkingHours(t *testing.T) {
	service, repo, _ := setupTestService(fixedNow)

	doctor := testDoctor()
	doctor.WorkingHours = nil
	repo.On("GetUser", mock.Anything, "doctor-1", models.RoleDoctor).Return(doctor, nil)

	_, _, err := service.Create(context.Background(), "patient-1", validCreateInput())

	assert.ErrorIs(t, err, ErrDoctorUnavailable)
	repo.AssertNotCalled(t, "InTransaction", mock.Anything)
}

func TestCreate_UnknownDoctor(t *testing.T) {
	service, repo, _ := setupTestService(fixedNow)

	repo.On("GetUser", mock.Anything, "doctor-1", models.RoleDoctor).Return(nil, ErrDoctorNotFound)

	_, _, err := service.Create(context.Background(), "patient-1", validCreateInput())

	assert.ErrorIs(t, err, ErrDoctorNotFound)
}

func TestCreate_RejectsSunday(t *testing.T) {
	service, repo, _ := setupTestService(fixedNow)

	repo.On("GetUser", mock.Anything, "doctor-1", models.RoleDoctor).Return(testDoctor(), nil)
	repo.On("GetUser", mock.Anything, "patient-1", models.RolePatient).Return(testPatient(), nil)

	in := validCreateInput()
	in.Date = "2099-06-07"
	_, _, err := service.Create(context.Background(), "patient-1", in)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	repo.AssertNotCalled(t, "InTransaction", mock.Anything)
}

func TestCreate_RejectsOutOfHoursTime(t *testing.T) {
	service, repo, _ := setupTestService(fixedNow)

	repo.On("GetUser", mock.Anything, "doctor-1", models.RoleDoctor).Return(testDoctor(), nil)
	repo.On("GetUser", mock.Anything, "patient-1", models.RolePatient).Return(testPatient(), nil)

	in := validCreateInput()
	in.Time = "07:30"
	_, _, err := service.Create(context.Background(), "patient-1", in)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestCreate_PatientSameDayConflict(t *testing.T) {
	service, repo, notifier := setupTestService(fixedNow)

	repo.On("GetUser", mock.Anything, "doctor-1", models.RoleDoctor).Return(testDoctor(), nil)
	repo.On("GetUser", mock.Anything, "patient-1", models.RolePatient).Return(testPatient(), nil)
	repo.On("InTransaction", mock.Anything).Return(nil)
	repo.On("PatientHasActiveOn", mock.Anything, "patient-1", "2099-06-15").Return(true, nil)

	_, _, err := service.Create(context.Background(), "patient-1", validCreateInput())

	var conflictErr *ConflictError
	require.ErrorAs(t, err, &conflictErr)
	assert.Equal(t, ConflictPatient, conflictErr.Conflict.Type)
	repo.AssertNotCalled(t, "DoctorHasActiveBetween",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	notifier.AssertNotCalled(t, "AppointmentConfirmed", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreate_DoctorSpacingConflict(t *testing.T) {
	service, repo, _ := setupTestService(fixedNow)

	repo.On("GetUser", mock.Anything, "doctor-1", models.RoleDoctor).Return(testDoctor(), nil)
	repo.On("GetUser", mock.Anything, "patient-1", models.RolePatient).Return(testPatient(), nil)
	repo.On("InTransaction", mock.Anything).Return(nil)
	repo.On("PatientHasActiveOn", mock.Anything, "patient-1", "2099-06-15").Return(false, nil)
	repo.On("DoctorHasActiveBetween", mock.Anything, "doctor-1", "2099-06-15", "09:15", "10:45").Return(true, nil)

	_, _, err := service.Create(context.Background(), "patient-1", validCreateInput())

	var conflictErr *ConflictError
	require.ErrorAs(t, err, &conflictErr)
	assert.Equal(t, ConflictDoctor, conflictErr.Conflict.Type)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreate_NotificationFailureDoesNotFailBooking(t *testing.T) {
	service, repo, notifier := setupTestService(fixedNow)

	repo.On("GetUser", mock.Anything, "doctor-1", models.RoleDoctor).Return(testDoctor(), nil)
	repo.On("GetUser", mock.Anything, "patient-1", models.RolePatient).Return(testPatient(), nil)
	repo.On("InTransaction", mock.Anything).Return(nil)
	repo.On("PatientHasActiveOn", mock.Anything, mock.Anything, mock.Anything).Return(false, nil)
	repo.On("DoctorHasActiveBetween", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(false, nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	notifier.On("AppointmentConfirmed", mock.Anything, mock.Anything, mock.Anything).Return(false)

	appt, emailSent, err := service.Create(context.Background(), "patient-1", validCreateInput())

	require.NoError(t, err)
	assert.False(t, emailSent)
	assert.Equal(t, models.StatusConfirmed, appt.Status)
}

func TestCancel_Success(t *testing.T) {
	// Appointment is 25 hours ahead of now.
	now := time.Date(2099, time.June, 14, 9, 0, 0, 0, time.Local)
	service, repo, _ := setupTestService(now)

	appt := &models.Appointment{
		BaseModel: models.BaseModel{ID: "appt-1"},
		PatientID: "patient-1",
		Date:      "2099-06-15",
		Time:      "10:00",
		Status:    models.StatusConfirmed,
	}
	repo.On("GetForPatient", mock.Anything, "patient-1", "appt-1").Return(appt, nil)
	repo.On("Save", mock.Anything, appt).Return(nil)

	err := service.Cancel(context.Background(), "patient-1", "appt-1")

	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, appt.Status)
	assert.Equal(t, models.ActorPatient, appt.CancelledBy)
	require.NotNil(t, appt.CancelledAt)
	assert.Equal(t, now, *appt.CancelledAt)
}

func TestCancel_InsideTwentyFourHourWindow(t *testing.T) {
	// Appointment is only 23 hours ahead of now.
	now := time.Date(2099, time.June, 14, 11, 0, 0, 0, time.Local)
	service, repo, _ := setupTestService(now)

	appt := &models.Appointment{
		BaseModel: models.BaseModel{ID: "appt-1"},
		PatientID: "patient-1",
		Date:      "2099-06-15",
		Time:      "10:00",
		Status:    models.StatusConfirmed,
	}
	repo.On("GetForPatient", mock.Anything, "patient-1", "appt-1").Return(appt, nil)

	err := service.Cancel(context.Background(), "patient-1", "appt-1")

	assert.ErrorIs(t, err, ErrCancelWindowClosed)
	assert.Equal(t, models.StatusConfirmed, appt.Status)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCancel_ExactTwentyFourHourBoundary(t *testing.T) {
	now := time.Date(2099, time.June, 14, 10, 0, 0, 0, time.Local)
	service, repo, _ := setupTestService(now)

	appt := &models.Appointment{
		BaseModel: models.BaseModel{ID: "appt-1"},
		PatientID: "patient-1",
		Date:      "2099-06-15",
		Time:      "10:00",
		Status:    models.StatusPending,
	}
	repo.On("GetForPatient", mock.Anything, "patient-1", "appt-1").Return(appt, nil)
	repo.On("Save", mock.Anything, appt).Return(nil)

	assert.NoError(t, service.Cancel(context.Background(), "patient-1", "appt-1"))
}

func TestCancel_TerminalState(t *testing.T) {
	for _, status := range []models.AppointmentStatus{models.StatusCancelled, models.StatusRejected} {
		t.Run(string(status), func(t *testing.T) {
			now := time.Date(2099, time.June, 1, 9, 0, 0, 0, time.Local)
			service, repo, _ := setupTestService(now)

			appt := &models.Appointment{
				BaseModel: models.BaseModel{ID: "appt-1"},
				PatientID: "patient-1",
				Date:      "2099-06-15",
				Time:      "10:00",
				Status:    status,
			}
			repo.On("GetForPatient", mock.Anything, "patient-1", "appt-1").Return(appt, nil)

			err := service.Cancel(context.Background(), "patient-1", "appt-1")

			assert.ErrorIs(t, err, ErrNotCancellable)
			assert.Equal(t, status, appt.Status)
			repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		})
	}
}

func TestCancel_NotFound(t *testing.T) {
	service, repo, _ := setupTestService(fixedNow)

	repo.On("GetForPatient", mock.Anything, "patient-1", "missing").Return(nil, ErrAppointmentNotFound)

	err := service.Cancel(context.Background(), "patient-1", "missing")

	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestCanBeCancelled(t *testing.T) {
	now := time.Date(2099, time.June, 14, 9, 0, 0, 0, time.Local)
	service, _, _ := setupTestService(now)

	cancellable := &models.Appointment{Date: "2099-06-15", Time: "10:00", Status: models.StatusConfirmed}
	tooLate := &models.Appointment{Date: "2099-06-14", Time: "10:00", Status: models.StatusConfirmed}
	terminal := &models.Appointment{Date: "2099-06-15", Time: "10:00", Status: models.StatusRejected}

	assert.True(t, service.CanBeCancelled(cancellable))
	assert.False(t, service.CanBeCancelled(tooLate))
	assert.False(t, service.CanBeCancelled(terminal))
}

func TestStats_UsesInjectedClock(t *testing.T) {
	service, repo, _ := setupTestService(fixedNow)

	want := &Stats{Total: 4, Today: 1, Upcoming: 2, Pending: 1}
	repo.On("CountStats", mock.Anything, "patient-1", "2099-06-01").Return(want, nil)

	stats, err := service.Stats(context.Background(), "patient-1")

	require.NoError(t, err)
	assert.Equal(t, want, stats)
}

func TestGlobalStats(t *testing.T) {
	service, repo, _ := setupTestService(fixedNow)

	want := &Stats{Total: 100, Today: 7, Upcoming: 30, Pending: 5}
	repo.On("CountStats", mock.Anything, "", "2099-06-01").Return(want, nil)

	stats, err := service.GlobalStats(context.Background())

	require.NoError(t, err)
	assert.Equal(t, want, stats)
}
