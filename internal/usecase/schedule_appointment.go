package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/xavierca1/clinica-crm/internal/entity"
)

type ScheduleAppointmentInput struct {
	ClinicID    string
	PatientID   int64  `json:"patient_id"`
	ScheduledAt string `json:"scheduled_at"` // RFC3339
	DurationMin int    `json:"duration_min,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

type ScheduleAppointmentOutput struct {
	ID          int64                    `json:"id"`
	ScheduledAt time.Time                `json:"scheduled_at"`
	Status      entity.AppointmentStatus `json:"status"`
}

type ScheduleAppointmentUseCase struct {
	AppointmentRepo entity.AppointmentRepositoryInterface
	PatientRepo     entity.PatientRepositoryInterface
}

func NewScheduleAppointmentUseCase(
	appointmentRepo entity.AppointmentRepositoryInterface,
	patientRepo entity.PatientRepositoryInterface,
) *ScheduleAppointmentUseCase {
	return &ScheduleAppointmentUseCase{
		AppointmentRepo: appointmentRepo,
		PatientRepo:     patientRepo,
	}
}

func (uc *ScheduleAppointmentUseCase) Execute(ctx context.Context, input ScheduleAppointmentInput) (*ScheduleAppointmentOutput, error) {
	scheduledAt, err := time.Parse(time.RFC3339, input.ScheduledAt)
	if err != nil {
		return nil, &DomainError{Code: "INVALID_DATE", Message: "scheduled_at must be RFC3339"}
	}
	if scheduledAt.Before(time.Now()) {
		return nil, &DomainError{Code: "PAST_DATE", Message: "cannot schedule in the past"}
	}

	if _, err := uc.PatientRepo.FindByID(ctx, input.ClinicID, input.PatientID); err != nil {
		if errors.Is(err, entity.ErrPatientNotFound) {
			return nil, &DomainError{Code: "PATIENT_NOT_FOUND", Message: "patient not found"}
		}
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: err.Error()}
	}

	appointment, err := entity.NewAppointment(input.ClinicID, input.PatientID, scheduledAt, input.DurationMin, input.Notes)
	if err != nil {
		return nil, &DomainError{Code: "INVALID_APPOINTMENT", Message: err.Error()}
	}

	overlapping, err := uc.AppointmentRepo.CountOverlapping(ctx, input.ClinicID, appointment.ScheduledAt, appointment.DurationMin)
	if err != nil {
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: err.Error()}
	}
	if overlapping > 0 {
		return nil, &DomainError{Code: "SLOT_TAKEN", Message: entity.ErrSlotTaken.Error()}
	}

	if err := uc.AppointmentRepo.Create(ctx, appointment); err != nil {
		return nil, &TechnicalError{
			Code:    "DATABASE_ERROR",
			Message: "failed to persist appointment: " + err.Error(),
		}
	}

	return &ScheduleAppointmentOutput{
		ID:          appointment.ID,
		ScheduledAt: appointment.ScheduledAt,
		Status:      appointment.Status,
	}, nil
}
