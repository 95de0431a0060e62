package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/xavierca1/clinica-crm/internal/entity"
	"github.com/xavierca1/clinica-crm/internal/infra/logger"
	"github.com/xavierca1/clinica-crm/internal/infra/queue"
)

type EventPublisher interface {
	PublishEvent(ctx context.Context, payload queue.EventPayload) error
}

// ReminderScheduler enqueues a reminder event for every appointment starting
// on the following day. Delivery itself is the queue worker's problem.
type ReminderScheduler struct {
	cronEngine      *cron.Cron
	appointmentRepo entity.AppointmentRepositoryInterface
	patientRepo     entity.PatientRepositoryInterface
	clinicRepo      entity.ClinicRepositoryInterface
	producer        EventPublisher
	cronSpec        string
}

func NewReminderScheduler(
	appointmentRepo entity.AppointmentRepositoryInterface,
	patientRepo entity.PatientRepositoryInterface,
	clinicRepo entity.ClinicRepositoryInterface,
	producer EventPublisher,
	cronSpec string, // e.g. "0 8 * * *" (08:00 daily)
) *ReminderScheduler {
	return &ReminderScheduler{
		cronEngine:      cron.New(cron.WithLocation(time.Local)),
		appointmentRepo: appointmentRepo,
		patientRepo:     patientRepo,
		clinicRepo:      clinicRepo,
		producer:        producer,
		cronSpec:        cronSpec,
	}
}

func (s *ReminderScheduler) Start() {
	_, err := s.cronEngine.AddFunc(s.cronSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if err := s.EnqueueNextDayReminders(ctx); err != nil {
			logger.Log.Errorf("reminder job failed: %v", err)
		}
	})
	if err != nil {
		logger.Log.Fatalf("could not add reminder cron job: %v", err)
	}

	s.cronEngine.Start()
	logger.Log.Infof("reminder scheduler started (spec %q)", s.cronSpec)
}

// EnqueueNextDayReminders publishes one reminder event per appointment of the
// next calendar day. Failures on individual appointments are logged and
// skipped so one broken row cannot starve the rest.
func (s *ReminderScheduler) EnqueueNextDayReminders(ctx context.Context) error {
	now := time.Now()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
	to := from.AddDate(0, 0, 1)

	appointments, err := s.appointmentRepo.ListStartingBetween(ctx, from, to)
	if err != nil {
		return err
	}

	for _, a := range appointments {
		patient, err := s.patientRepo.FindByID(ctx, a.ClinicID, a.PatientID)
		if err != nil {
			logger.Log.Warnf("reminder: skipping appointment %d: %v", a.ID, err)
			continue
		}
		clinic, err := s.clinicRepo.FindByID(ctx, a.ClinicID)
		if err != nil || clinic.Suspended {
			continue
		}

		err = s.producer.PublishEvent(ctx, queue.EventPayload{
			Kind:          queue.EventAppointmentReminder,
			ClinicID:      clinic.ID,
			ClinicName:    clinic.Name,
			PatientID:     patient.ID,
			PatientName:   patient.Name,
			PatientEmail:  patient.Email,
			AppointmentAt: a.ScheduledAt.Format("02/01/2006 15:04"),
		})
		if err != nil {
			logger.Log.Warnf("reminder: publish failed for appointment %d: %v", a.ID, err)
		}
	}
	return nil
}

func (s *ReminderScheduler) Stop() {
	ctx := s.cronEngine.Stop()
	<-ctx.Done()
}
