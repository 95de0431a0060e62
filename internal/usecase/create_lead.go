package usecase

import (
	"context"

	"github.com/xavierca1/clinica-crm/internal/entity"
	"github.com/xavierca1/clinica-crm/internal/infra/logger"
	"github.com/xavierca1/clinica-crm/internal/infra/queue"
)

type CreateLeadInput struct {
	ClinicID string `json:"clinic_id"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Email    string `json:"email,omitempty"`
}

type CreateLeadOutput struct {
	ID     int64         `json:"id"`
	Status entity.Status `json:"status"`
	Msg    string        `json:"msg"`
}

type CreateLeadUseCase struct {
	PatientRepo entity.PatientRepositoryInterface
	ClinicRepo  entity.ClinicRepositoryInterface
	Queue       EventPublisherInterface
	Email       EmailService
}

func NewCreateLeadUseCase(
	patientRepo entity.PatientRepositoryInterface,
	clinicRepo entity.ClinicRepositoryInterface,
	eventQueue EventPublisherInterface,
	email EmailService,
) *CreateLeadUseCase {
	return &CreateLeadUseCase{
		PatientRepo: patientRepo,
		ClinicRepo:  clinicRepo,
		Queue:       eventQueue,
		Email:       email,
	}
}

// Execute handles the public appointment-request form: validates, stores the
// lead at the head of the pipeline and fans out the confirmation.
func (uc *CreateLeadUseCase) Execute(ctx context.Context, input CreateLeadInput) (*CreateLeadOutput, error) {
	validationErrors := ValidateCreateLeadInput(input)
	if len(validationErrors) > 0 {
		errMsg := "validation failed: "
		for _, e := range validationErrors {
			errMsg += e.Field + " (" + e.Message + "), "
		}
		return nil, &DomainError{
			Code:    "VALIDATION_ERROR",
			Message: errMsg,
		}
	}

	clinic, err := uc.ClinicRepo.FindByID(ctx, input.ClinicID)
	if err != nil {
		return nil, &DomainError{
			Code:    "CLINIC_NOT_FOUND",
			Message: "unknown clinic: " + input.ClinicID,
		}
	}
	if clinic.Suspended {
		return nil, &DomainError{
			Code:    "CLINIC_SUSPENDED",
			Message: "this clinic is not accepting requests",
		}
	}

	patient, err := entity.NewPatient(clinic.ID, input.Name, input.Phone, input.Email)
	if err != nil {
		return nil, &DomainError{Code: "INVALID_LEAD", Message: err.Error()}
	}

	if err := uc.PatientRepo.Create(ctx, patient); err != nil {
		return nil, &TechnicalError{
			Code:    "DATABASE_ERROR",
			Message: "failed to persist lead: " + err.Error(),
		}
	}

	// confirmation is best-effort: the lead is already stored
	if uc.Queue != nil {
		err := uc.Queue.PublishEvent(ctx, queue.EventPayload{
			Kind:         queue.EventLeadCreated,
			ClinicID:     clinic.ID,
			ClinicName:   clinic.Name,
			PatientID:    patient.ID,
			PatientName:  patient.Name,
			PatientEmail: patient.Email,
		})
		if err != nil {
			logger.Log.Warnf("lead %d stored but event not published: %s", patient.ID, err)
		}
	}

	go func() {
		if uc.Email != nil && patient.Email != "" {
			uc.Email.SendLeadConfirmation(patient.Email, patient.Name, clinic.Name)
		}
	}()

	return &CreateLeadOutput{
		ID:     patient.ID,
		Status: patient.Status,
		Msg:    "Solicitação recebida com sucesso!",
	}, nil
}
