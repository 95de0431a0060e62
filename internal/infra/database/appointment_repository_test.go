package database

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/xavierca1/clinica-crm/internal/entity"
)

// These run against a real SQLite file on purpose: the conflict check relies
// on the engine's own date arithmetic, which no statement mock exercises.
func newSQLiteDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := NewDBConnection(filepath.Join(t.TempDir(), "crm.db"))
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func seedClinicAndPatient(t *testing.T, db *sql.DB) (string, int64) {
	t.Helper()
	ctx := context.Background()

	clinic, err := entity.NewClinic("Clínica Vida", "vida")
	assert.NoError(t, err)
	assert.NoError(t, NewClinicRepository(db).Create(ctx, clinic))

	patient, err := entity.NewPatient(clinic.ID, "João Silva", "11999999999", "joao@example.com")
	assert.NoError(t, err)
	assert.NoError(t, NewPatientRepository(db).Create(ctx, patient))

	return clinic.ID, patient.ID
}

func mustSchedule(t *testing.T, repo *AppointmentRepository, clinicID string, patientID int64, at time.Time, durationMin int) *entity.Appointment {
	t.Helper()
	a, err := entity.NewAppointment(clinicID, patientID, at, durationMin, "")
	assert.NoError(t, err)
	assert.NoError(t, repo.Create(context.Background(), a))
	return a
}

func TestCountOverlappingSameSlot(t *testing.T) {
	db := newSQLiteDB(t)
	clinicID, patientID := seedClinicAndPatient(t, db)
	repo := NewAppointmentRepository(db)

	at := time.Date(2026, 9, 2, 10, 0, 0, 0, time.UTC)
	mustSchedule(t, repo, clinicID, patientID, at, 30)

	count, err := repo.CountOverlapping(context.Background(), clinicID, at, 30)

	assert.NoError(t, err)
	assert.Equal(t, 1, count, "same slot should count as overlap")
}

func TestCountOverlappingPartialOverlap(t *testing.T) {
	db := newSQLiteDB(t)
	clinicID, patientID := seedClinicAndPatient(t, db)
	repo := NewAppointmentRepository(db)

	at := time.Date(2026, 9, 2, 10, 0, 0, 0, time.UTC)
	mustSchedule(t, repo, clinicID, patientID, at, 30)

	count, err := repo.CountOverlapping(context.Background(), clinicID, at.Add(15*time.Minute), 30)

	assert.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestCountOverlappingBackToBackSlotsAreFree(t *testing.T) {
	db := newSQLiteDB(t)
	clinicID, patientID := seedClinicAndPatient(t, db)
	repo := NewAppointmentRepository(db)

	at := time.Date(2026, 9, 2, 10, 0, 0, 0, time.UTC)
	mustSchedule(t, repo, clinicID, patientID, at, 30)

	count, err := repo.CountOverlapping(context.Background(), clinicID, at.Add(30*time.Minute), 30)

	assert.NoError(t, err)
	assert.Equal(t, 0, count, "an appointment ending exactly at the new start does not conflict")
}

func TestCountOverlappingAcrossTimezones(t *testing.T) {
	db := newSQLiteDB(t)
	clinicID, patientID := seedClinicAndPatient(t, db)
	repo := NewAppointmentRepository(db)

	saoPaulo := time.FixedZone("-03", -3*3600)
	mustSchedule(t, repo, clinicID, patientID, time.Date(2026, 9, 2, 10, 0, 0, 0, saoPaulo), 30)

	// 10:00-03:00 is 13:00 UTC
	count, err := repo.CountOverlapping(context.Background(), clinicID, time.Date(2026, 9, 2, 13, 0, 0, 0, time.UTC), 30)

	assert.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestCountOverlappingIgnoresCancelled(t *testing.T) {
	db := newSQLiteDB(t)
	clinicID, patientID := seedClinicAndPatient(t, db)
	repo := NewAppointmentRepository(db)

	at := time.Date(2026, 9, 2, 10, 0, 0, 0, time.UTC)
	a := mustSchedule(t, repo, clinicID, patientID, at, 30)
	assert.NoError(t, repo.UpdateStatus(context.Background(), clinicID, a.ID, entity.AppointmentCancelled))

	count, err := repo.CountOverlapping(context.Background(), clinicID, at, 30)

	assert.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestCountOverlappingScopedToClinic(t *testing.T) {
	db := newSQLiteDB(t)
	clinicID, patientID := seedClinicAndPatient(t, db)
	repo := NewAppointmentRepository(db)

	other, err := entity.NewClinic("Clínica Norte", "norte")
	assert.NoError(t, err)
	assert.NoError(t, NewClinicRepository(db).Create(context.Background(), other))

	at := time.Date(2026, 9, 2, 10, 0, 0, 0, time.UTC)
	mustSchedule(t, repo, clinicID, patientID, at, 30)

	count, err := repo.CountOverlapping(context.Background(), other.ID, at, 30)

	assert.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestListByRangeRoundTrip(t *testing.T) {
	db := newSQLiteDB(t)
	clinicID, patientID := seedClinicAndPatient(t, db)
	repo := NewAppointmentRepository(db)

	at := time.Date(2026, 9, 2, 10, 0, 0, 0, time.UTC)
	mustSchedule(t, repo, clinicID, patientID, at, 30)
	mustSchedule(t, repo, clinicID, patientID, at.Add(2*time.Hour), 30)

	appointments, err := repo.ListByRange(context.Background(), clinicID, at, at.Add(time.Hour))

	assert.NoError(t, err)
	assert.Len(t, appointments, 1)
	assert.True(t, appointments[0].ScheduledAt.Equal(at))
	assert.Equal(t, 30, appointments[0].DurationMin)
}

func TestListStartingBetweenSkipsCancelled(t *testing.T) {
	db := newSQLiteDB(t)
	clinicID, patientID := seedClinicAndPatient(t, db)
	repo := NewAppointmentRepository(db)

	at := time.Date(2026, 9, 2, 10, 0, 0, 0, time.UTC)
	kept := mustSchedule(t, repo, clinicID, patientID, at, 30)
	cancelled := mustSchedule(t, repo, clinicID, patientID, at.Add(time.Hour), 30)
	assert.NoError(t, repo.UpdateStatus(context.Background(), clinicID, cancelled.ID, entity.AppointmentCancelled))

	appointments, err := repo.ListStartingBetween(context.Background(), at.Add(-time.Hour), at.Add(2*time.Hour))

	assert.NoError(t, err)
	assert.Len(t, appointments, 1)
	assert.Equal(t, kept.ID, appointments[0].ID)
}

func TestAppointmentUpdateStatusUnknownRow(t *testing.T) {
	db := newSQLiteDB(t)
	clinicID, _ := seedClinicAndPatient(t, db)
	repo := NewAppointmentRepository(db)

	err := repo.UpdateStatus(context.Background(), clinicID, 999, entity.AppointmentConfirmed)

	assert.ErrorIs(t, err, entity.ErrAppointmentNotFound)
}
