package queue

import (
	"encoding/json"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/xavierca1/clinica-crm/internal/infra/logger"
)

// Mailer is the outbound side of the worker.
type Mailer interface {
	SendLeadConfirmation(to, name, clinicName string) error
	SendAppointmentReminder(to, name, clinicName, when string) error
}

// Worker drains the CRM event queue and turns events into outbound email.
type Worker struct {
	Channel *amqp.Channel
	Mailer  Mailer
}

func NewWorker(ch *amqp.Channel, mailer Mailer) *Worker {
	return &Worker{
		Channel: ch,
		Mailer:  mailer,
	}
}

func (w *Worker) Start(queueName string) {
	msgs, err := w.Channel.Consume(
		queueName,
		"",    // consumer
		false, // manual ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		logger.Log.Fatalf("register RabbitMQ consumer: %s", err)
	}

	forever := make(chan bool)

	go func() {
		for d := range msgs {
			var payload EventPayload
			if err := json.Unmarshal(d.Body, &payload); err != nil {
				logger.Log.Warnf("worker: malformed event, rejecting: %s", err)
				// malformed message goes to the DLQ, never requeued
				d.Nack(false, false)
				continue
			}

			log := logger.Log.WithFields(logrus.Fields{
				"event_id": payload.EventID,
				"kind":     payload.Kind,
				"clinic":   payload.ClinicID,
			})

			if err := w.process(payload); err != nil {
				log.Errorf("worker: event failed: %s", err)
				d.Nack(false, false)
			} else {
				log.Info("worker: event processed")
				d.Ack(false)
			}
		}
	}()

	logger.Log.Infof("worker waiting on queue '%s'", queueName)
	<-forever
}

func (w *Worker) process(payload EventPayload) error {
	// events without a reachable address are a no-op, not a failure
	if payload.PatientEmail == "" {
		return nil
	}

	switch payload.Kind {
	case EventLeadCreated:
		return w.Mailer.SendLeadConfirmation(payload.PatientEmail, payload.PatientName, payload.ClinicName)
	case EventAppointmentReminder:
		return w.Mailer.SendAppointmentReminder(payload.PatientEmail, payload.PatientName, payload.ClinicName, payload.AppointmentAt)
	default:
		// patient.moved and future kinds are audit-only for now
		return nil
	}
}
