package services

import (
	"context"
	"database/sql"
	"time"

	"geoserv-bknd/internal/models"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type OfferingService struct {
	db *bun.DB
}

func NewOfferingService(db *bun.DB) *OfferingService {
	return &OfferingService{db: db}
}

type CreateOfferingRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Duration    *string `json:"duration,omitempty"`
	PriceCents  int64   `json:"price_cents"`
}

func (s *OfferingService) Create(ctx context.Context, companyID uuid.UUID, req CreateOfferingRequest) (*models.ServiceOffering, error) {
	offering := &models.ServiceOffering{
		CompanyID:   companyID,
		Name:        req.Name,
		Description: req.Description,
		Duration:    req.Duration,
		PriceCents:  req.PriceCents,
		Active:      true,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}
	if _, err := s.db.NewInsert().Model(offering).Exec(ctx); err != nil {
		return nil, err
	}
	return offering, nil
}

// List returns a company's offerings, optionally including inactive ones.
func (s *OfferingService) List(ctx context.Context, companyID string, includeInactive bool) ([]models.ServiceOffering, error) {
	var offerings []models.ServiceOffering
	q := s.db.NewSelect().Model(&offerings).
		Where("so.company_id = ?", companyID).
		Order("so.created_at ASC")
	if !includeInactive {
		q = q.Where("so.active = true")
	}
	if err := q.Scan(ctx); err != nil {
		return nil, err
	}
	return offerings, nil
}

func (s *OfferingService) GetByID(ctx context.Context, companyID, id string) (*models.ServiceOffering, error) {
	offering := new(models.ServiceOffering)
	err := s.db.NewSelect().Model(offering).
		Where("so.id = ?", id).
		Where("so.company_id = ?", companyID).
		Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return offering, nil
}

type UpdateOfferingRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Duration    *string `json:"duration,omitempty"`
	PriceCents  *int64  `json:"price_cents,omitempty"`
	Active      *bool   `json:"active,omitempty"`
}

func (s *OfferingService) Update(ctx context.Context, companyID, id string, req UpdateOfferingRequest) (*models.ServiceOffering, error) {
	q := s.db.NewUpdate().Model((*models.ServiceOffering)(nil)).
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", id).
		Where("company_id = ?", companyID)

	if req.Name != nil {
		q = q.Set("name = ?", *req.Name)
	}
	if req.Description != nil {
		q = q.Set("description = ?", *req.Description)
	}
	if req.Duration != nil {
		q = q.Set("duration = ?", *req.Duration)
	}
	if req.PriceCents != nil {
		q = q.Set("price_cents = ?", *req.PriceCents)
	}
	if req.Active != nil {
		q = q.Set("active = ?", *req.Active)
	}

	res, err := q.Exec(ctx)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}

	return s.GetByID(ctx, companyID, id)
}

// Delete deactivates an offering; bookings keep their reference.
func (s *OfferingService) Delete(ctx context.Context, companyID, id string) error {
	res, err := s.db.NewUpdate().Model((*models.ServiceOffering)(nil)).
		Set("active = false").
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", id).
		Where("company_id = ?", companyID).
		Exec(ctx)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
