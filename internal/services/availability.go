package services

import (
	"context"
	"time"

	"geoserv-bknd/internal/area"
	"geoserv-bknd/internal/availability"
	"geoserv-bknd/internal/geo"
	"geoserv-bknd/internal/geocoder"
	"geoserv-bknd/internal/models"

	"go.uber.org/zap"
)

// AvailabilityService loads a company's areas and active bookings and
// delegates the actual computation to the pure availability package.
type AvailabilityService struct {
	areas    *ServiceAreaService
	bookings *BookingService
	geocoder geocoder.Geocoder
	logr     *zap.Logger
}

func NewAvailabilityService(areas *ServiceAreaService, bookings *BookingService, gc geocoder.Geocoder, logr *zap.Logger) *AvailabilityService {
	return &AvailabilityService{areas: areas, bookings: bookings, geocoder: gc, logr: logr}
}

// matchOptions resolves the point's postal code when any of the areas needs
// it. Reverse-geocoding failures degrade to "no zip": ZIP areas then simply
// don't match, per the defensive-return error policy.
func (s *AvailabilityService) matchOptions(ctx context.Context, point geo.Point, areas []*models.ServiceArea) *area.MatchOptions {
	needsZip := false
	for _, a := range areas {
		if a.Type == models.AreaTypeZip {
			needsZip = true
			break
		}
	}
	if !needsZip {
		return nil
	}

	zip, err := s.geocoder.ReverseZip(ctx, point)
	if err != nil {
		s.logr.Warn("reverse zip lookup failed", zap.Error(err),
			zap.Float64("lat", point.Lat), zap.Float64("lng", point.Lng))
		return nil
	}
	return &area.MatchOptions{ZipCode: zip}
}

// DaySlots computes the open slots for one company, point and calendar day.
func (s *AvailabilityService) DaySlots(ctx context.Context, companyID string, point geo.Point, day time.Time) (*availability.Result, error) {
	areas, err := s.areas.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	bookings, err := s.bookings.ListActiveForRange(ctx, companyID, day, day.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	opts := s.matchOptions(ctx, point, areas)
	return availability.DaySlots(point, areas, bookings, day, opts), nil
}

// OpenDays computes the bookable days within the lookahead window starting
// today (UTC).
func (s *AvailabilityService) OpenDays(ctx context.Context, companyID string, point geo.Point, lookaheadDays int) (*availability.Result, error) {
	areas, err := s.areas.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	from := time.Now().UTC()
	bookings, err := s.bookings.ListActiveForRange(ctx, companyID, from, from.AddDate(0, 0, lookaheadDays))
	if err != nil {
		return nil, err
	}

	opts := s.matchOptions(ctx, point, areas)
	return availability.OpenDays(point, areas, bookings, from, lookaheadDays, opts), nil
}

// OpenDaysByAddress geocodes the address first. An unresolvable address
// yields an empty result with INVALID_ADDRESS, not an error.
func (s *AvailabilityService) OpenDaysByAddress(ctx context.Context, companyID, address string, lookaheadDays int) (*availability.Result, error) {
	point, err := s.geocoder.Geocode(ctx, address)
	if err != nil {
		return nil, err
	}
	if point == nil {
		return &availability.Result{
			MatchedAreas:  []*models.ServiceArea{},
			AvailableDays: []string{},
			Reason:        availability.ReasonInvalidAddress,
		}, nil
	}
	return s.OpenDays(ctx, companyID, *point, lookaheadDays)
}

// CheckSlot re-evaluates one (day, slot) pair for booking intake: the point
// must be in a service area, the day in schedule, and the slot still open.
func (s *AvailabilityService) CheckSlot(ctx context.Context, companyID string, point geo.Point, day time.Time, slot string) (*availability.Result, bool, error) {
	res, err := s.DaySlots(ctx, companyID, point, day)
	if err != nil {
		return nil, false, err
	}
	for _, open := range res.AvailableSlots {
		if open == slot {
			return res, true, nil
		}
	}
	return res, false, nil
}
