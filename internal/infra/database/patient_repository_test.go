package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"github.com/xavierca1/clinica-crm/internal/entity"
)

func newMockRepo(t *testing.T) (*PatientRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPatientRepository(db), mock
}

func TestPatientCreateAssignsID(t *testing.T) {
	repo, mock := newMockRepo(t)

	patient, err := entity.NewPatient("clinic-1", "João Silva", "11999999999", "joao@example.com")
	assert.NoError(t, err)

	mock.ExpectExec("INSERT INTO patients").
		WithArgs(patient.ClinicID, patient.Name, patient.Phone, patient.Email,
			patient.Status, patient.AttendanceStatus, patient.CreatedAt, patient.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(42, 1))

	err = repo.Create(context.Background(), patient)

	assert.NoError(t, err)
	assert.Equal(t, int64(42), patient.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPatientFindByIDScopedToClinic(t *testing.T) {
	repo, mock := newMockRepo(t)

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "clinic_id", "name", "phone", "email", "status", "attendance_status", "created_at", "updated_at",
	}).AddRow(int64(42), "clinic-1", "João Silva", "11999999999", "joao@example.com", "waiting", "compareceu", now, now)

	mock.ExpectQuery("SELECT (.+) FROM patients").
		WithArgs("clinic-1", int64(42)).
		WillReturnRows(rows)

	patient, err := repo.FindByID(context.Background(), "clinic-1", 42)

	assert.NoError(t, err)
	assert.Equal(t, int64(42), patient.ID)
	assert.Equal(t, entity.StatusWaiting, patient.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPatientFindByIDNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM patients").
		WithArgs("clinic-1", int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "clinic_id", "name", "phone", "email", "status", "attendance_status", "created_at", "updated_at",
		}))

	patient, err := repo.FindByID(context.Background(), "clinic-1", 99)

	assert.Nil(t, patient)
	assert.ErrorIs(t, err, entity.ErrPatientNotFound)
}

func TestPatientUpdateStatus(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("UPDATE patients").
		WithArgs(entity.StatusTriage, entity.AttendanceStatus(""), "clinic-1", int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateStatus(context.Background(), "clinic-1", 42, entity.StatusTriage, "")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPatientUpdateStatusMissingRowIsNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("UPDATE patients").
		WithArgs(entity.StatusFinished, entity.AttendanceNaoCompareceu, "clinic-2", int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), "clinic-2", 42, entity.StatusFinished, entity.AttendanceNaoCompareceu)

	assert.ErrorIs(t, err, entity.ErrPatientNotFound)
}

func TestPatientListByStatus(t *testing.T) {
	repo, mock := newMockRepo(t)

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "clinic_id", "name", "phone", "email", "status", "attendance_status", "created_at", "updated_at",
	}).
		AddRow(int64(1), "clinic-1", "João", "11999999999", "", "triage", "compareceu", now, now).
		AddRow(int64(2), "clinic-1", "Maria", "11988888888", "", "triage", "compareceu", now, now)

	mock.ExpectQuery("SELECT (.+) FROM patients").
		WithArgs("clinic-1", entity.StatusTriage).
		WillReturnRows(rows)

	patients, err := repo.ListByStatus(context.Background(), "clinic-1", entity.StatusTriage)

	assert.NoError(t, err)
	assert.Len(t, patients, 2)
	assert.Equal(t, "Maria", patients[1].Name)
}

func TestPatientListPropagatesQueryError(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM patients").
		WithArgs("clinic-1").
		WillReturnError(errors.New("database is locked"))

	patients, err := repo.ListByClinic(context.Background(), "clinic-1")

	assert.Nil(t, patients)
	assert.Error(t, err)
}
