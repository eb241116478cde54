package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"geoserv-bknd/internal/models"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"
)

var (
	// ErrSlotTaken signals that the requested slot was claimed between the
	// availability check and the insert.
	ErrSlotTaken = errors.New("slot already booked")

	ErrInvalidTransition = errors.New("invalid status transition")
)

type BookingService struct {
	db *bun.DB
}

func NewBookingService(db *bun.DB) *BookingService {
	return &BookingService{db: db}
}

// Create inserts a booking. The caller has already verified availability at
// read time; the partial unique index on (company_id, booking_date, slot)
// over active statuses is what resolves a concurrent claim, surfacing here
// as ErrSlotTaken.
func (s *BookingService) Create(ctx context.Context, b *models.Booking) error {
	b.Status = models.BookingPending
	b.CreatedAt = time.Now().UTC()
	b.UpdatedAt = b.CreatedAt

	_, err := s.db.NewInsert().Model(b).Exec(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrSlotTaken
		}
		return err
	}
	return nil
}

// ListActiveForRange returns the company's slot-occupying bookings with
// booking_date in [from, to). Only pending and confirmed statuses count;
// canceled and completed bookings never occupy a slot.
func (s *BookingService) ListActiveForRange(ctx context.Context, companyID string, from, to time.Time) ([]models.Booking, error) {
	var bookings []models.Booking
	err := s.db.NewSelect().Model(&bookings).
		Where("b.company_id = ?", companyID).
		Where("b.booking_date >= ?", from.UTC().Format("2006-01-02")).
		Where("b.booking_date < ?", to.UTC().Format("2006-01-02")).
		Where("b.status IN (?)", bun.In(models.ActiveBookingStatuses)).
		Order("b.booking_date ASC", "b.slot ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

type BookingQueryParams struct {
	Page     int
	Limit    int
	From     *time.Time
	To       *time.Time
	Statuses []string
}

type BookingQueryResult struct {
	Data []models.Booking `json:"data"`
	Meta any              `json:"meta"`
}

// List returns a company's bookings with paging and optional date/status filters.
func (s *BookingService) List(ctx context.Context, companyID string, params BookingQueryParams) (*BookingQueryResult, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.Limit <= 0 {
		params.Limit = 50
	}

	q := s.db.NewSelect().Model((*models.Booking)(nil)).
		Where("b.company_id = ?", companyID)

	if params.From != nil {
		q = q.Where("b.booking_date >= ?", params.From.UTC().Format("2006-01-02"))
	}
	if params.To != nil {
		q = q.Where("b.booking_date < ?", params.To.UTC().Format("2006-01-02"))
	}
	if len(params.Statuses) > 0 {
		lowered := make([]string, len(params.Statuses))
		for i, st := range params.Statuses {
			lowered[i] = strings.ToLower(strings.TrimSpace(st))
		}
		q = q.Where("b.status IN (?)", bun.In(lowered))
	}

	total, err := q.Count(ctx)
	if err != nil {
		return nil, err
	}

	var bookings []models.Booking
	err = q.Order("booking_date ASC", "slot ASC").
		Offset((params.Page - 1) * params.Limit).
		Limit(params.Limit).
		Scan(ctx, &bookings)
	if err != nil {
		return nil, err
	}

	meta := map[string]any{
		"page":  params.Page,
		"limit": params.Limit,
		"total": total,
		"pages": (total + params.Limit - 1) / params.Limit,
	}
	return &BookingQueryResult{Data: bookings, Meta: meta}, nil
}

func (s *BookingService) GetByID(ctx context.Context, companyID, id string) (*models.Booking, error) {
	b := new(models.Booking)
	err := s.db.NewSelect().Model(b).
		Where("b.id = ?", id).
		Where("b.company_id = ?", companyID).
		Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

// allowed status transitions; terminal states have no exits
var transitions = map[models.BookingStatus][]models.BookingStatus{
	models.BookingPending:   {models.BookingConfirmed, models.BookingCanceled},
	models.BookingConfirmed: {models.BookingCompleted, models.BookingCanceled},
}

// UpdateStatus moves a booking through its lifecycle.
func (s *BookingService) UpdateStatus(ctx context.Context, companyID, id string, next models.BookingStatus) (*models.Booking, error) {
	b, err := s.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}

	allowed := false
	for _, t := range transitions[b.Status] {
		if t == next {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, b.Status, next)
	}

	_, err = s.db.NewUpdate().Model((*models.Booking)(nil)).
		Set("status = ?", next).
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", id).
		Where("company_id = ?", companyID).
		Exec(ctx)
	if err != nil {
		return nil, err
	}

	b.Status = next
	return b, nil
}

// CountActiveOnDay returns how many active bookings occupy slots on a day.
func (s *BookingService) CountActiveOnDay(ctx context.Context, companyID uuid.UUID, day time.Time) (int, error) {
	return s.db.NewSelect().Model((*models.Booking)(nil)).
		Where("b.company_id = ?", companyID).
		Where("b.booking_date = ?", day.UTC().Format("2006-01-02")).
		Where("b.status IN (?)", bun.In(models.ActiveBookingStatuses)).
		Count(ctx)
}

func isUniqueViolation(err error) bool {
	var pgErr pgdriver.Error
	if errors.As(err, &pgErr) {
		return pgErr.Field('C') == "23505"
	}
	return false
}
