package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Event kinds carried on the CRM queue.
const (
	EventLeadCreated         = "lead.created"
	EventPatientMoved        = "patient.moved"
	EventAppointmentReminder = "appointment.reminder"
)

type EventPayload struct {
	EventID    string `json:"event_id"`
	Kind       string `json:"kind"`
	ClinicID   string `json:"clinic_id"`
	ClinicName string `json:"clinic_name,omitempty"`

	PatientID    int64  `json:"patient_id,omitempty"`
	PatientName  string `json:"patient_name,omitempty"`
	PatientEmail string `json:"patient_email,omitempty"`

	FromStatus string `json:"from_status,omitempty"`
	ToStatus   string `json:"to_status,omitempty"`
	Outcome    string `json:"outcome,omitempty"`

	AppointmentAt string `json:"appointment_at,omitempty"`

	OccurredAt time.Time `json:"occurred_at"`
}

type RabbitMQProducer struct {
	Conn *amqp.Connection
	Ch   *amqp.Channel
}

func NewProducer(conn *amqp.Connection, ch *amqp.Channel) *RabbitMQProducer {
	return &RabbitMQProducer{
		Conn: conn,
		Ch:   ch,
	}
}

func (p *RabbitMQProducer) PublishEvent(ctx context.Context, payload EventPayload) error {
	if payload.EventID == "" {
		payload.EventID = uuid.New().String()
	}
	if payload.OccurredAt.IsZero() {
		payload.OccurredAt = time.Now()
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal event payload: %w", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false, // Mandatory
		false, // Immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("publish to RabbitMQ: %w", err)
	}
	return nil
}
