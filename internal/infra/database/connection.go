package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// NewDBConnection opens the SQLite database, tests it and bootstraps the schema.
func NewDBConnection(path string) (*sql.DB, error) {
	// _time_format=sqlite makes the driver bind time.Time in a format the
	// engine's datetime() understands; without it date arithmetic on stored
	// timestamps silently returns NULL.
	db, err := sql.Open("sqlite", "file:"+path+"?_time_format=sqlite")
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	// single-writer engine; serialize all access through one connection
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		return nil, err
	}
	if err := bootstrap(db); err != nil {
		return nil, fmt.Errorf("bootstrap schema: %w", err)
	}
	return db, nil
}

func bootstrap(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS clinics (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		slug TEXT NOT NULL UNIQUE,
		plan_tier TEXT NOT NULL DEFAULT 'basic',
		suspended INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS patients (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		clinic_id TEXT NOT NULL REFERENCES clinics(id),
		name TEXT NOT NULL,
		phone TEXT NOT NULL,
		email TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'waiting',
		attendance_status TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_patients_clinic_status ON patients(clinic_id, status);

	CREATE TABLE IF NOT EXISTS appointments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		clinic_id TEXT NOT NULL REFERENCES clinics(id),
		patient_id INTEGER NOT NULL REFERENCES patients(id),
		scheduled_at DATETIME NOT NULL,
		duration_min INTEGER NOT NULL DEFAULT 30,
		notes TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'agendado',
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_appointments_clinic_time ON appointments(clinic_id, scheduled_at);
	`
	_, err := db.ExecContext(context.Background(), query)
	return err
}
