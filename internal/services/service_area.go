package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"geoserv-bknd/internal/geo"
	"geoserv-bknd/internal/models"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type ServiceAreaService struct {
	db *bun.DB
}

func NewServiceAreaService(db *bun.DB) *ServiceAreaService {
	return &ServiceAreaService{db: db}
}

type CreateAreaRequest struct {
	Name          *string         `json:"name,omitempty"`
	Type          models.AreaType `json:"type"`
	CenterLat     *float64        `json:"center_lat,omitempty"`
	CenterLng     *float64        `json:"center_lng,omitempty"`
	RadiusKm      *float64        `json:"radius_km,omitempty"`
	Polygon       json.RawMessage `json:"polygon,omitempty"`
	ZipCodes      json.RawMessage `json:"zip_codes,omitempty"`
	AvailableDays []string        `json:"available_days,omitempty"`
}

// Create validates the variant payload for its declared type and inserts the
// area. Polygon payloads must normalize to at least one usable ring here;
// records that later turn malformed still just stop matching.
func (s *ServiceAreaService) Create(ctx context.Context, companyID uuid.UUID, req CreateAreaRequest) (*models.ServiceArea, error) {
	a := &models.ServiceArea{
		CompanyID:     companyID,
		Name:          req.Name,
		Type:          req.Type,
		CenterLat:     req.CenterLat,
		CenterLng:     req.CenterLng,
		RadiusKm:      req.RadiusKm,
		Polygon:       req.Polygon,
		ZipCodes:      req.ZipCodes,
		AvailableDays: req.AvailableDays,
		CreatedAt:     time.Now().UTC(),
		UpdatedAt:     time.Now().UTC(),
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	if a.Type == models.AreaTypePolygon {
		if err := validatePolygonPayload(a.Polygon); err != nil {
			return nil, err
		}
	}

	if _, err := s.db.NewInsert().Model(a).Exec(ctx); err != nil {
		return nil, err
	}
	return a, nil
}

// ListByCompany returns all of a company's service areas.
func (s *ServiceAreaService) ListByCompany(ctx context.Context, companyID string) ([]*models.ServiceArea, error) {
	var areas []*models.ServiceArea
	err := s.db.NewSelect().Model(&areas).
		Where("sa.company_id = ?", companyID).
		Order("sa.created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return areas, nil
}

func (s *ServiceAreaService) GetByID(ctx context.Context, companyID, id string) (*models.ServiceArea, error) {
	a := new(models.ServiceArea)
	err := s.db.NewSelect().Model(a).
		Where("sa.id = ?", id).
		Where("sa.company_id = ?", companyID).
		Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

type UpdateAreaRequest struct {
	Name          *string         `json:"name,omitempty"`
	CenterLat     *float64        `json:"center_lat,omitempty"`
	CenterLng     *float64        `json:"center_lng,omitempty"`
	RadiusKm      *float64        `json:"radius_km,omitempty"`
	Polygon       json.RawMessage `json:"polygon,omitempty"`
	ZipCodes      json.RawMessage `json:"zip_codes,omitempty"`
	AvailableDays *[]string       `json:"available_days,omitempty"`
}

// Update applies the patch, re-validating the resulting record as a whole.
// The area's type is immutable; delete and recreate to change kind.
func (s *ServiceAreaService) Update(ctx context.Context, companyID, id string, req UpdateAreaRequest) (*models.ServiceArea, error) {
	a, err := s.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		a.Name = req.Name
	}
	if req.CenterLat != nil {
		a.CenterLat = req.CenterLat
	}
	if req.CenterLng != nil {
		a.CenterLng = req.CenterLng
	}
	if req.RadiusKm != nil {
		a.RadiusKm = req.RadiusKm
	}
	if len(req.Polygon) > 0 {
		a.Polygon = req.Polygon
	}
	if len(req.ZipCodes) > 0 {
		a.ZipCodes = req.ZipCodes
	}
	if req.AvailableDays != nil {
		a.AvailableDays = *req.AvailableDays
	}
	a.UpdatedAt = time.Now().UTC()

	if err := a.Validate(); err != nil {
		return nil, err
	}
	if a.Type == models.AreaTypePolygon {
		if err := validatePolygonPayload(a.Polygon); err != nil {
			return nil, err
		}
	}

	_, err = s.db.NewUpdate().Model(a).
		WherePK().
		Where("company_id = ?", companyID).
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (s *ServiceAreaService) Delete(ctx context.Context, companyID, id string) error {
	res, err := s.db.NewDelete().Model((*models.ServiceArea)(nil)).
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

func validatePolygonPayload(raw json.RawMessage) error {
	rings := geo.ExtractRings(raw)
	if len(rings) == 0 || len(rings[0]) < 3 {
		return fmt.Errorf("%w: polygon needs an outer ring with at least 3 vertices", models.ErrInvalidArea)
	}
	return nil
}
