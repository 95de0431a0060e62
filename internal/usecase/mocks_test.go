package usecase

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/clinica-crm/internal/entity"
	"github.com/xavierca1/clinica-crm/internal/infra/queue"
)

type MockPatientRepository struct {
	mock.Mock
}

func (m *MockPatientRepository) Create(ctx context.Context, p *entity.Patient) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPatientRepository) FindByID(ctx context.Context, clinicID string, id int64) (*entity.Patient, error) {
	args := m.Called(ctx, clinicID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Patient), args.Error(1)
}

func (m *MockPatientRepository) ListByStatus(ctx context.Context, clinicID string, status entity.Status) ([]*entity.Patient, error) {
	args := m.Called(ctx, clinicID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Patient), args.Error(1)
}

func (m *MockPatientRepository) ListByClinic(ctx context.Context, clinicID string) ([]*entity.Patient, error) {
	args := m.Called(ctx, clinicID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Patient), args.Error(1)
}

func (m *MockPatientRepository) UpdateStatus(ctx context.Context, clinicID string, id int64, status entity.Status, outcome entity.AttendanceStatus) error {
	args := m.Called(ctx, clinicID, id, status, outcome)
	return args.Error(0)
}

type MockClinicRepository struct {
	mock.Mock
}

func (m *MockClinicRepository) Create(ctx context.Context, c *entity.Clinic) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockClinicRepository) FindByID(ctx context.Context, id string) (*entity.Clinic, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Clinic), args.Error(1)
}

func (m *MockClinicRepository) List(ctx context.Context) ([]*entity.Clinic, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Clinic), args.Error(1)
}

func (m *MockClinicRepository) Update(ctx context.Context, c *entity.Clinic) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

type MockAppointmentRepository struct {
	mock.Mock
}

func (m *MockAppointmentRepository) Create(ctx context.Context, a *entity.Appointment) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAppointmentRepository) ListByRange(ctx context.Context, clinicID string, from, to time.Time) ([]*entity.Appointment, error) {
	args := m.Called(ctx, clinicID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) ListStartingBetween(ctx context.Context, from, to time.Time) ([]*entity.Appointment, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) CountOverlapping(ctx context.Context, clinicID string, start time.Time, durationMin int) (int, error) {
	args := m.Called(ctx, clinicID, start, durationMin)
	return args.Int(0), args.Error(1)
}

func (m *MockAppointmentRepository) UpdateStatus(ctx context.Context, clinicID string, id int64, status entity.AppointmentStatus) error {
	args := m.Called(ctx, clinicID, id, status)
	return args.Error(0)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishEvent(ctx context.Context, payload queue.EventPayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendLeadConfirmation(to, name, clinicName string) error {
	args := m.Called(to, name, clinicName)
	return args.Error(0)
}

func (m *MockEmailService) SendAppointmentReminder(to, name, clinicName, when string) error {
	args := m.Called(to, name, clinicName, when)
	return args.Error(0)
}
