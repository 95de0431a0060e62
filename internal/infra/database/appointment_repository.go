package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/xavierca1/clinica-crm/internal/entity"
)

type AppointmentRepository struct {
	DB *sql.DB
}

func NewAppointmentRepository(db *sql.DB) *AppointmentRepository {
	return &AppointmentRepository{DB: db}
}

func (r *AppointmentRepository) Create(ctx context.Context, a *entity.Appointment) error {
	query := `
		INSERT INTO appointments (clinic_id, patient_id, scheduled_at, duration_min, notes, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	// timestamps are stored in UTC so SQL-side comparisons never mix offsets
	res, err := r.DB.ExecContext(ctx, query,
		a.ClinicID, a.PatientID, a.ScheduledAt.UTC(), a.DurationMin, a.Notes, a.Status, a.CreatedAt.UTC(), a.UpdatedAt.UTC(),
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = id
	return nil
}

// ListByRange feeds the calendar view: every appointment of one clinic that
// starts inside [from, to).
func (r *AppointmentRepository) ListByRange(ctx context.Context, clinicID string, from, to time.Time) ([]*entity.Appointment, error) {
	query := `
		SELECT id, clinic_id, patient_id, scheduled_at, duration_min, notes, status, created_at, updated_at
		FROM appointments
		WHERE clinic_id = ? AND scheduled_at >= ? AND scheduled_at < ?
		ORDER BY scheduled_at
	`
	return r.list(ctx, query, clinicID, from.UTC(), to.UTC())
}

// ListStartingBetween is the tenant-wide range used by the reminder job.
func (r *AppointmentRepository) ListStartingBetween(ctx context.Context, from, to time.Time) ([]*entity.Appointment, error) {
	query := `
		SELECT id, clinic_id, patient_id, scheduled_at, duration_min, notes, status, created_at, updated_at
		FROM appointments
		WHERE scheduled_at >= ? AND scheduled_at < ? AND status != 'cancelado'
		ORDER BY scheduled_at
	`
	return r.list(ctx, query, from.UTC(), to.UTC())
}

func (r *AppointmentRepository) list(ctx context.Context, query string, args ...any) ([]*entity.Appointment, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var appointments []*entity.Appointment
	for rows.Next() {
		a := &entity.Appointment{}
		if err := rows.Scan(
			&a.ID, &a.ClinicID, &a.PatientID, &a.ScheduledAt, &a.DurationMin,
			&a.Notes, &a.Status, &a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, err
		}
		appointments = append(appointments, a)
	}
	return appointments, rows.Err()
}

func (r *AppointmentRepository) CountOverlapping(ctx context.Context, clinicID string, start time.Time, durationMin int) (int, error) {
	end := start.Add(time.Duration(durationMin) * time.Minute)
	query := `
		SELECT COUNT(*)
		FROM appointments
		WHERE clinic_id = ?
		  AND status != 'cancelado'
		  AND scheduled_at < ?
		  AND datetime(scheduled_at, '+' || duration_min || ' minutes') > ?
	`

	var count int
	err := r.DB.QueryRowContext(ctx, query, clinicID, end.UTC(), start.UTC()).Scan(&count)
	return count, err
}

func (r *AppointmentRepository) UpdateStatus(ctx context.Context, clinicID string, id int64, status entity.AppointmentStatus) error {
	query := `
		UPDATE appointments
		SET status = ?, updated_at = CURRENT_TIMESTAMP
		WHERE clinic_id = ? AND id = ?
	`

	res, err := r.DB.ExecContext(ctx, query, status, clinicID, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return entity.ErrAppointmentNotFound
	}
	return nil
}
