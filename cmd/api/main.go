package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xavierca1/clinica-crm/internal/infra/config"
	"github.com/xavierca1/clinica-crm/internal/infra/database"
	"github.com/xavierca1/clinica-crm/internal/infra/http/handlers"
	"github.com/xavierca1/clinica-crm/internal/infra/http/middleware"
	"github.com/xavierca1/clinica-crm/internal/infra/logger"
	"github.com/xavierca1/clinica-crm/internal/infra/mail"
	"github.com/xavierca1/clinica-crm/internal/infra/queue"
	"github.com/xavierca1/clinica-crm/internal/infra/scheduler"
	"github.com/xavierca1/clinica-crm/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatalf("config: %v", err)
	}
	logger.Init(cfg)

	db, err := database.NewDBConnection(cfg.DatabasePath)
	if err != nil {
		logger.Log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rabbitMQ, err := queue.NewRabbitMQ(cfg.RabbitUser, cfg.RabbitPass, cfg.RabbitHost, cfg.RabbitPort)
	if err != nil {
		logger.Log.Fatalf("rabbitmq: %v", err)
	}
	defer rabbitMQ.Conn.Close()
	defer rabbitMQ.Ch.Close()

	// 1. Repositories
	patientRepo := database.NewPatientRepository(db)
	clinicRepo := database.NewClinicRepository(db)
	appointmentRepo := database.NewAppointmentRepository(db)

	// 2. Adapters
	producer := queue.NewProducer(rabbitMQ.Conn, rabbitMQ.Ch)
	mailSender := mail.NewEmailSender(cfg.MailHost, cfg.MailPort, cfg.MailUser, cfg.MailPass, cfg.MailFrom)

	// 3. Worker (drains the event queue into outbound email)
	worker := queue.NewWorker(rabbitMQ.Ch, mailSender)
	go worker.Start(queue.QueueName)

	// 4. Reminder job
	reminders := scheduler.NewReminderScheduler(appointmentRepo, patientRepo, clinicRepo, producer, cfg.ReminderCronSpec)
	reminders.Start()
	defer reminders.Stop()

	// 5. UseCases
	createLeadUC := usecase.NewCreateLeadUseCase(patientRepo, clinicRepo, producer, mailSender)
	movePatientUC := usecase.NewMovePatientUseCase(patientRepo, producer)
	scheduleUC := usecase.NewScheduleAppointmentUseCase(appointmentRepo, patientRepo)

	// 6. Handlers
	leadHandler := handlers.NewLeadHandler(createLeadUC)
	patientHandler := handlers.NewPatientHandler(patientRepo, movePatientUC)
	appointmentHandler := handlers.NewAppointmentHandler(appointmentRepo, scheduleUC)
	adminHandler := handlers.NewAdminHandler(clinicRepo)
	healthHandler := handlers.NewHealthHandler(db, rabbitMQ.Conn)

	auth := middleware.NewAuth(cfg.JWTSecret, clinicRepo)

	// 7. Router
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}))

	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	// public appointment-request form
	r.Post("/api/leads", leadHandler.CaptureLead)

	// staff routes, scoped to the token's clinic
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireStaff)
		r.Get("/api/patients", patientHandler.List)
		r.Get("/api/patients/board", patientHandler.Board)
		r.Post("/api/patients", patientHandler.Create)
		r.Patch("/api/patients/{id}/status", patientHandler.UpdateStatus)
		r.Get("/api/appointments", appointmentHandler.Calendar)
		r.Post("/api/appointments", appointmentHandler.Schedule)
		r.Patch("/api/appointments/{id}", appointmentHandler.UpdateStatus)
	})

	// super-admin tenant panel
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireSuperAdmin)
		r.Get("/api/admin/clinics", adminHandler.ListClinics)
		r.Post("/api/admin/clinics", adminHandler.CreateClinic)
		r.Patch("/api/admin/clinics/{id}", adminHandler.UpdateClinic)
	})

	addr := ":" + cfg.Port
	logger.Log.Infof("clinica-crm API listening on %s", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		logger.Log.Fatalf("server: %v", err)
	}
}
