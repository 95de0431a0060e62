package entity

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Status is the pipeline column a patient currently occupies.
type Status string

const (
	StatusWaiting      Status = "waiting"
	StatusTriage       Status = "triage"
	StatusConsultation Status = "consultation"
	StatusFinished     Status = "finished" // terminal
)

// PipelineStatuses returns the canonical column order of the board.
func PipelineStatuses() []Status {
	return []Status{StatusWaiting, StatusTriage, StatusConsultation, StatusFinished}
}

func (s Status) Valid() bool {
	switch s {
	case StatusWaiting, StatusTriage, StatusConsultation, StatusFinished:
		return true
	}
	return false
}

func (s Status) Terminal() bool {
	return s == StatusFinished
}

// AttendanceStatus classifies the outcome of a finished lead.
type AttendanceStatus string

const (
	AttendanceCompareceu     AttendanceStatus = "compareceu"
	AttendanceNaoCompareceu  AttendanceStatus = "nao_compareceu"
	AttendanceCancelado      AttendanceStatus = "cancelado"
	AttendanceRemarcado      AttendanceStatus = "remarcado"
)

// DefaultAttendance is applied when staff dismiss the outcome prompt.
const DefaultAttendance = AttendanceCompareceu

func AttendanceStatuses() []AttendanceStatus {
	return []AttendanceStatus{AttendanceCompareceu, AttendanceNaoCompareceu, AttendanceCancelado, AttendanceRemarcado}
}

func (a AttendanceStatus) Valid() bool {
	switch a {
	case AttendanceCompareceu, AttendanceNaoCompareceu, AttendanceCancelado, AttendanceRemarcado:
		return true
	}
	return false
}

var (
	ErrPatientNotFound   = errors.New("patient not found")
	ErrInvalidStatus     = errors.New("invalid pipeline status")
	ErrOutcomeRequired   = errors.New("attendance outcome is required for finished status")
	ErrInvalidOutcome    = errors.New("invalid attendance outcome")
)

type Patient struct {
	ID               int64            `json:"id"`
	ClinicID         string           `json:"clinic_id"`
	Name             string           `json:"name"`
	Phone            string           `json:"phone"`
	Email            string           `json:"email,omitempty"`
	Status           Status           `json:"status"`
	AttendanceStatus AttendanceStatus `json:"attendance_status,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// NewPatient creates a lead at the head of the pipeline.
func NewPatient(clinicID, name, phone, email string) (*Patient, error) {
	p := &Patient{
		ClinicID:  clinicID,
		Name:      name,
		Phone:     phone,
		Email:     email,
		Status:    StatusWaiting,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Patient) Validate() error {
	if p.ClinicID == "" {
		return errors.New("clinic_id is required")
	}
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("name is required")
	}
	if strings.TrimSpace(p.Phone) == "" {
		return errors.New("phone is required")
	}
	if !p.Status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}

// Transition applies a server-authoritative status change.
// A move into the terminal column must carry an outcome.
func (p *Patient) Transition(target Status, outcome AttendanceStatus) error {
	if !target.Valid() {
		return ErrInvalidStatus
	}
	if target.Terminal() {
		if outcome == "" {
			return ErrOutcomeRequired
		}
		if !outcome.Valid() {
			return ErrInvalidOutcome
		}
		p.AttendanceStatus = outcome
	}
	p.Status = target
	p.UpdatedAt = time.Now()
	return nil
}

type PatientRepositoryInterface interface {
	Create(ctx context.Context, p *Patient) error
	FindByID(ctx context.Context, clinicID string, id int64) (*Patient, error)
	ListByStatus(ctx context.Context, clinicID string, status Status) ([]*Patient, error)
	ListByClinic(ctx context.Context, clinicID string) ([]*Patient, error)
	UpdateStatus(ctx context.Context, clinicID string, id int64, status Status, outcome AttendanceStatus) error
}
