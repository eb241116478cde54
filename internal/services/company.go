package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"geoserv-bknd/internal/models"

	"github.com/uptrace/bun"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

type CompanyService struct {
	db *bun.DB
}

func NewCompanyService(db *bun.DB) *CompanyService {
	return &CompanyService{db: db}
}

func (s *CompanyService) GetByID(ctx context.Context, id string) (*models.Company, error) {
	company := new(models.Company)
	err := s.db.NewSelect().Model(company).
		Where("c.id = ?", id).
		Where("c.deleted_at IS NULL").
		Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return company, nil
}

type UpdateCompanyRequest struct {
	Name         *string `json:"name,omitempty"`
	ContactEmail *string `json:"contact_email,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	Active       *bool   `json:"active,omitempty"`
}

func (s *CompanyService) Update(ctx context.Context, id string, req UpdateCompanyRequest) (*models.Company, error) {
	q := s.db.NewUpdate().Model((*models.Company)(nil)).
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", id).
		Where("deleted_at IS NULL")

	if req.Name != nil {
		q = q.Set("name = ?", *req.Name)
	}
	if req.ContactEmail != nil {
		q = q.Set("contact_email = ?", *req.ContactEmail)
	}
	if req.Phone != nil {
		q = q.Set("phone = ?", *req.Phone)
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

	return s.GetByID(ctx, id)
}
