package usecase

import (
	"context"
	"errors"

	"github.com/xavierca1/clinica-crm/internal/entity"
	"github.com/xavierca1/clinica-crm/internal/infra/logger"
	"github.com/xavierca1/clinica-crm/internal/infra/queue"
)

type MovePatientInput struct {
	ClinicID         string
	PatientID        int64
	Status           entity.Status           `json:"status"`
	AttendanceStatus entity.AttendanceStatus `json:"attendance_status,omitempty"`
}

type MovePatientOutput struct {
	ID               int64                   `json:"id"`
	Status           entity.Status           `json:"status"`
	AttendanceStatus entity.AttendanceStatus `json:"attendance_status,omitempty"`
}

// MovePatientUseCase is the server-authoritative side of the pipeline: the
// board client moves cards optimistically, this decides what actually holds.
type MovePatientUseCase struct {
	PatientRepo entity.PatientRepositoryInterface
	Queue       EventPublisherInterface
}

func NewMovePatientUseCase(patientRepo entity.PatientRepositoryInterface, eventQueue EventPublisherInterface) *MovePatientUseCase {
	return &MovePatientUseCase{
		PatientRepo: patientRepo,
		Queue:       eventQueue,
	}
}

func (uc *MovePatientUseCase) Execute(ctx context.Context, input MovePatientInput) (*MovePatientOutput, error) {
	patient, err := uc.PatientRepo.FindByID(ctx, input.ClinicID, input.PatientID)
	if err != nil {
		if errors.Is(err, entity.ErrPatientNotFound) {
			return nil, &DomainError{Code: "PATIENT_NOT_FOUND", Message: "patient not found"}
		}
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: err.Error()}
	}

	fromStatus := patient.Status
	if err := patient.Transition(input.Status, input.AttendanceStatus); err != nil {
		switch {
		case errors.Is(err, entity.ErrInvalidStatus):
			return nil, &DomainError{Code: "INVALID_STATUS", Message: "unknown pipeline status: " + string(input.Status)}
		case errors.Is(err, entity.ErrOutcomeRequired):
			return nil, &DomainError{Code: "OUTCOME_REQUIRED", Message: "finished status requires an attendance outcome"}
		case errors.Is(err, entity.ErrInvalidOutcome):
			return nil, &DomainError{Code: "INVALID_OUTCOME", Message: "unknown attendance outcome: " + string(input.AttendanceStatus)}
		default:
			return nil, &DomainError{Code: "INVALID_TRANSITION", Message: err.Error()}
		}
	}

	// no-op transitions persist nothing and publish nothing
	if fromStatus == patient.Status && fromStatus != entity.StatusFinished {
		return &MovePatientOutput{ID: patient.ID, Status: patient.Status, AttendanceStatus: patient.AttendanceStatus}, nil
	}

	err = uc.PatientRepo.UpdateStatus(ctx, input.ClinicID, patient.ID, patient.Status, patient.AttendanceStatus)
	if err != nil {
		return nil, &TechnicalError{
			Code:    "DATABASE_ERROR",
			Message: "failed to update status: " + err.Error(),
		}
	}

	if uc.Queue != nil {
		err := uc.Queue.PublishEvent(ctx, queue.EventPayload{
			Kind:        queue.EventPatientMoved,
			ClinicID:    input.ClinicID,
			PatientID:   patient.ID,
			PatientName: patient.Name,
			FromStatus:  string(fromStatus),
			ToStatus:    string(patient.Status),
			Outcome:     string(patient.AttendanceStatus),
		})
		if err != nil {
			logger.Log.Warnf("patient %d moved but event not published: %s", patient.ID, err)
		}
	}

	return &MovePatientOutput{
		ID:               patient.ID,
		Status:           patient.Status,
		AttendanceStatus: patient.AttendanceStatus,
	}, nil
}
