package entity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// PlanTier controls which features a tenant clinic has access to.
type PlanTier string

const (
	TierBasic      PlanTier = "basic"
	TierPro        PlanTier = "pro"
	TierEnterprise PlanTier = "enterprise"
)

func (t PlanTier) Valid() bool {
	switch t {
	case TierBasic, TierPro, TierEnterprise:
		return true
	}
	return false
}

var ErrClinicNotFound = errors.New("clinic not found")

type Clinic struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	PlanTier  PlanTier  `json:"plan_tier"`
	Suspended bool      `json:"suspended"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewClinic(name, slug string) (*Clinic, error) {
	if name == "" {
		return nil, errors.New("name is required")
	}
	if slug == "" {
		return nil, errors.New("slug is required")
	}
	return &Clinic{
		ID:        uuid.New().String(),
		Name:      name,
		Slug:      slug,
		PlanTier:  TierBasic,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}, nil
}

type ClinicRepositoryInterface interface {
	Create(ctx context.Context, c *Clinic) error
	FindByID(ctx context.Context, id string) (*Clinic, error)
	List(ctx context.Context) ([]*Clinic, error)
	Update(ctx context.Context, c *Clinic) error
}
