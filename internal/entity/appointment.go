package entity

import (
	"context"
	"errors"
	"time"
)

type AppointmentStatus string

const (
	AppointmentScheduled AppointmentStatus = "agendado"
	AppointmentConfirmed AppointmentStatus = "confirmado"
	AppointmentCancelled AppointmentStatus = "cancelado"
)

var (
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrSlotTaken           = errors.New("time slot already booked")
)

type Appointment struct {
	ID          int64             `json:"id"`
	ClinicID    string            `json:"clinic_id"`
	PatientID   int64             `json:"patient_id"`
	ScheduledAt time.Time         `json:"scheduled_at"`
	DurationMin int               `json:"duration_min"`
	Notes       string            `json:"notes,omitempty"`
	Status      AppointmentStatus `json:"status"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

func NewAppointment(clinicID string, patientID int64, scheduledAt time.Time, durationMin int, notes string) (*Appointment, error) {
	if clinicID == "" {
		return nil, errors.New("clinic_id is required")
	}
	if patientID <= 0 {
		return nil, errors.New("patient_id is required")
	}
	if scheduledAt.IsZero() {
		return nil, errors.New("scheduled_at is required")
	}
	if durationMin <= 0 {
		durationMin = 30
	}
	return &Appointment{
		ClinicID:    clinicID,
		PatientID:   patientID,
		ScheduledAt: scheduledAt,
		DurationMin: durationMin,
		Notes:       notes,
		Status:      AppointmentScheduled,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}, nil
}

type AppointmentRepositoryInterface interface {
	Create(ctx context.Context, a *Appointment) error
	ListByRange(ctx context.Context, clinicID string, from, to time.Time) ([]*Appointment, error)
	ListStartingBetween(ctx context.Context, from, to time.Time) ([]*Appointment, error)
	CountOverlapping(ctx context.Context, clinicID string, start time.Time, durationMin int) (int, error)
	UpdateStatus(ctx context.Context, clinicID string, id int64, status AppointmentStatus) error
}
