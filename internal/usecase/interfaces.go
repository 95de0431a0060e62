package usecase

import (
	"context"

	"github.com/xavierca1/clinica-crm/internal/infra/queue"
)

type EventPublisherInterface interface {
	PublishEvent(ctx context.Context, payload queue.EventPayload) error
}

type EmailService interface {
	SendLeadConfirmation(to, name, clinicName string) error
	SendAppointmentReminder(to, name, clinicName, when string) error
}
