package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// AppConfig holds all configuration for the API process.
type AppConfig struct {
	Port         string
	DatabasePath string
	JWTSecret    string

	RabbitUser string
	RabbitPass string
	RabbitHost string
	RabbitPort string

	MailHost string
	MailPort int
	MailUser string
	MailPass string
	MailFrom string

	CORSOrigins []string

	LogLevel    string
	Environment string

	// cron spec for the daily appointment-reminder job
	ReminderCronSpec string
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}

	cfg.DatabasePath = os.Getenv("DATABASE_PATH")
	if cfg.DatabasePath == "" {
		cfg.DatabasePath = "clinica.db"
	}

	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is not set")
	}

	cfg.Port = os.Getenv("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
	}

	cfg.RabbitUser = envOr("RABBITMQ_USER", "guest")
	cfg.RabbitPass = envOr("RABBITMQ_PASS", "guest")
	cfg.RabbitHost = envOr("RABBITMQ_HOST", "localhost")
	cfg.RabbitPort = envOr("RABBITMQ_PORT", "5672")

	cfg.MailHost = os.Getenv("MAIL_HOST")
	cfg.MailUser = os.Getenv("MAIL_USER")
	cfg.MailPass = os.Getenv("MAIL_PASS")
	cfg.MailFrom = envOr("MAIL_FROM", "nao-responda@clinica-crm.com.br")
	cfg.MailPort = 587
	if p := os.Getenv("MAIL_PORT"); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid MAIL_PORT: %w", err)
		}
		cfg.MailPort = port
	}

	origins := envOr("CORS_ORIGINS", "*")
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, o)
		}
	}

	cfg.LogLevel = strings.ToLower(envOr("LOG_LEVEL", "info"))
	cfg.Environment = strings.ToLower(envOr("ENVIRONMENT", "development"))
	cfg.ReminderCronSpec = envOr("CRON_SPEC_REMINDERS", "0 8 * * *")

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
