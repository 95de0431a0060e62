package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/xavierca1/clinica-crm/internal/entity"
)

type PatientRepository struct {
	DB *sql.DB
}

func NewPatientRepository(db *sql.DB) *PatientRepository {
	return &PatientRepository{DB: db}
}

func (r *PatientRepository) Create(ctx context.Context, p *entity.Patient) error {
	query := `
		INSERT INTO patients (clinic_id, name, phone, email, status, attendance_status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	res, err := r.DB.ExecContext(ctx, query,
		p.ClinicID,
		p.Name,
		p.Phone,
		p.Email,
		p.Status,
		p.AttendanceStatus,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		return err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = id
	return nil
}

func (r *PatientRepository) FindByID(ctx context.Context, clinicID string, id int64) (*entity.Patient, error) {
	query := `
		SELECT id, clinic_id, name, phone, email, status, attendance_status, created_at, updated_at
		FROM patients
		WHERE clinic_id = ? AND id = ?
	`

	p := &entity.Patient{}
	err := r.DB.QueryRowContext(ctx, query, clinicID, id).Scan(
		&p.ID, &p.ClinicID, &p.Name, &p.Phone, &p.Email,
		&p.Status, &p.AttendanceStatus, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrPatientNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *PatientRepository) ListByStatus(ctx context.Context, clinicID string, status entity.Status) ([]*entity.Patient, error) {
	query := `
		SELECT id, clinic_id, name, phone, email, status, attendance_status, created_at, updated_at
		FROM patients
		WHERE clinic_id = ? AND status = ?
		ORDER BY created_at DESC
	`
	return r.list(ctx, query, clinicID, status)
}

func (r *PatientRepository) ListByClinic(ctx context.Context, clinicID string) ([]*entity.Patient, error) {
	query := `
		SELECT id, clinic_id, name, phone, email, status, attendance_status, created_at, updated_at
		FROM patients
		WHERE clinic_id = ?
		ORDER BY created_at DESC
	`
	return r.list(ctx, query, clinicID)
}

func (r *PatientRepository) list(ctx context.Context, query string, args ...any) ([]*entity.Patient, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var patients []*entity.Patient
	for rows.Next() {
		p := &entity.Patient{}
		if err := rows.Scan(
			&p.ID, &p.ClinicID, &p.Name, &p.Phone, &p.Email,
			&p.Status, &p.AttendanceStatus, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		patients = append(patients, p)
	}
	return patients, rows.Err()
}

func (r *PatientRepository) UpdateStatus(ctx context.Context, clinicID string, id int64, status entity.Status, outcome entity.AttendanceStatus) error {
	query := `
		UPDATE patients
		SET status = ?, attendance_status = ?, updated_at = CURRENT_TIMESTAMP
		WHERE clinic_id = ? AND id = ?
	`

	res, err := r.DB.ExecContext(ctx, query, status, outcome, clinicID, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return entity.ErrPatientNotFound
	}
	return nil
}
