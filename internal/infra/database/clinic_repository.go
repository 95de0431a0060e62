package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/xavierca1/clinica-crm/internal/entity"
)

type ClinicRepository struct {
	DB *sql.DB
}

func NewClinicRepository(db *sql.DB) *ClinicRepository {
	return &ClinicRepository{DB: db}
}

func (r *ClinicRepository) Create(ctx context.Context, c *entity.Clinic) error {
	query := `
		INSERT INTO clinics (id, name, slug, plan_tier, suspended, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.DB.ExecContext(ctx, query,
		c.ID, c.Name, c.Slug, c.PlanTier, c.Suspended, c.CreatedAt, c.UpdatedAt,
	)
	return err
}

func (r *ClinicRepository) FindByID(ctx context.Context, id string) (*entity.Clinic, error) {
	query := `
		SELECT id, name, slug, plan_tier, suspended, created_at, updated_at
		FROM clinics
		WHERE id = ?
	`

	c := &entity.Clinic{}
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&c.ID, &c.Name, &c.Slug, &c.PlanTier, &c.Suspended, &c.CreatedAt, &c.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrClinicNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *ClinicRepository) List(ctx context.Context) ([]*entity.Clinic, error) {
	query := `
		SELECT id, name, slug, plan_tier, suspended, created_at, updated_at
		FROM clinics
		ORDER BY created_at
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clinics []*entity.Clinic
	for rows.Next() {
		c := &entity.Clinic{}
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.PlanTier, &c.Suspended, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		clinics = append(clinics, c)
	}
	return clinics, rows.Err()
}

func (r *ClinicRepository) Update(ctx context.Context, c *entity.Clinic) error {
	query := `
		UPDATE clinics
		SET name = ?, plan_tier = ?, suspended = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	res, err := r.DB.ExecContext(ctx, query, c.Name, c.PlanTier, c.Suspended, c.ID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return entity.ErrClinicNotFound
	}
	return nil
}
