package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/clinica-crm/internal/entity"
	"github.com/xavierca1/clinica-crm/internal/infra/queue"
)

func activeClinic() *entity.Clinic {
	return &entity.Clinic{ID: "clinic-1", Name: "Clínica Vida", Slug: "vida", PlanTier: entity.TierPro}
}

func TestCreateLeadSuccess(t *testing.T) {
	patientRepo := new(MockPatientRepository)
	clinicRepo := new(MockClinicRepository)
	producer := new(MockEventPublisher)

	clinicRepo.On("FindByID", mock.Anything, "clinic-1").Return(activeClinic(), nil)
	patientRepo.On("Create", mock.Anything, mock.MatchedBy(func(p *entity.Patient) bool {
		return p.Status == entity.StatusWaiting && p.Name == "João Silva"
	})).Return(nil).Run(func(args mock.Arguments) {
		args.Get(1).(*entity.Patient).ID = 42
	})
	producer.On("PublishEvent", mock.Anything, mock.MatchedBy(func(p queue.EventPayload) bool {
		return p.Kind == queue.EventLeadCreated && p.PatientID == 42
	})).Return(nil)

	uc := NewCreateLeadUseCase(patientRepo, clinicRepo, producer, nil)
	output, err := uc.Execute(context.Background(), CreateLeadInput{
		ClinicID: "clinic-1",
		Name:     "João Silva",
		Phone:    "(11) 99999-9999",
		Email:    "joao@example.com",
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(42), output.ID)
	assert.Equal(t, entity.StatusWaiting, output.Status)
	patientRepo.AssertExpectations(t)
	producer.AssertExpectations(t)
}

func TestCreateLeadValidationError(t *testing.T) {
	uc := NewCreateLeadUseCase(nil, nil, nil, nil)

	_, err := uc.Execute(context.Background(), CreateLeadInput{
		ClinicID: "clinic-1",
		Name:     "Jo",
		Phone:    "123",
	})

	assert.Error(t, err)
	assert.True(t, IsDomainError(err))
	assert.Equal(t, "VALIDATION_ERROR", err.(*DomainError).Code)
}

func TestCreateLeadUnknownClinic(t *testing.T) {
	clinicRepo := new(MockClinicRepository)
	clinicRepo.On("FindByID", mock.Anything, "ghost").Return(nil, entity.ErrClinicNotFound)

	uc := NewCreateLeadUseCase(new(MockPatientRepository), clinicRepo, nil, nil)
	_, err := uc.Execute(context.Background(), CreateLeadInput{
		ClinicID: "ghost",
		Name:     "João Silva",
		Phone:    "11999999999",
	})

	assert.True(t, IsDomainError(err))
	assert.Equal(t, "CLINIC_NOT_FOUND", err.(*DomainError).Code)
}

func TestCreateLeadSuspendedClinic(t *testing.T) {
	clinicRepo := new(MockClinicRepository)
	suspended := activeClinic()
	suspended.Suspended = true
	clinicRepo.On("FindByID", mock.Anything, "clinic-1").Return(suspended, nil)

	uc := NewCreateLeadUseCase(new(MockPatientRepository), clinicRepo, nil, nil)
	_, err := uc.Execute(context.Background(), CreateLeadInput{
		ClinicID: "clinic-1",
		Name:     "João Silva",
		Phone:    "11999999999",
	})

	assert.True(t, IsDomainError(err))
	assert.Equal(t, "CLINIC_SUSPENDED", err.(*DomainError).Code)
}

func TestCreateLeadStoredWhenEventFails(t *testing.T) {
	patientRepo := new(MockPatientRepository)
	clinicRepo := new(MockClinicRepository)
	producer := new(MockEventPublisher)

	clinicRepo.On("FindByID", mock.Anything, "clinic-1").Return(activeClinic(), nil)
	patientRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	producer.On("PublishEvent", mock.Anything, mock.Anything).Return(assert.AnError)

	uc := NewCreateLeadUseCase(patientRepo, clinicRepo, producer, nil)
	output, err := uc.Execute(context.Background(), CreateLeadInput{
		ClinicID: "clinic-1",
		Name:     "João Silva",
		Phone:    "11999999999",
	})

	// the lead is already persisted; the event is best-effort
	assert.NoError(t, err)
	assert.NotNil(t, output)
}
