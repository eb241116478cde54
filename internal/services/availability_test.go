package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"geoserv-bknd/internal/availability"
	"geoserv-bknd/internal/geo"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

const areaID = "9d3c2c74-0c71-4c80-9c42-333333333333"

// stubGeocoder lets availability tests control geocoding outcomes without
// any HTTP round-trip.
type stubGeocoder struct {
	point  *geo.Point
	geoErr error
	zip    string
	zipErr error
}

func (s *stubGeocoder) Geocode(ctx context.Context, address string) (*geo.Point, error) {
	return s.point, s.geoErr
}

func (s *stubGeocoder) ReverseZip(ctx context.Context, p geo.Point) (string, error) {
	return s.zip, s.zipErr
}

func newAvailabilityService(db *bun.DB, gc *stubGeocoder) *AvailabilityService {
	return NewAvailabilityService(NewServiceAreaService(db), NewBookingService(db), gc, zap.NewNop())
}

func radiusAreaRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "company_id", "area_type",
		"center_lat", "center_lng", "radius_km", "available_days",
	})
}

func TestOpenDaysByAddressUnresolvable(t *testing.T) {
	db, mock := newMockDB(t)
	svc := newAvailabilityService(db, &stubGeocoder{point: nil})

	res, err := svc.OpenDaysByAddress(context.Background(), companyID, "nowhere at all", 7)
	require.NoError(t, err)
	assert.Equal(t, availability.ReasonInvalidAddress, res.Reason)
	assert.Empty(t, res.AvailableDays)
	assert.Empty(t, res.MatchedAreas)
	assert.NoError(t, mock.ExpectationsWereMet(), "no queries before the address resolves")
}

func TestDaySlotsReverseZipFailureDegrades(t *testing.T) {
	db, mock := newMockDB(t)
	svc := newAvailabilityService(db, &stubGeocoder{zipErr: errors.New("reverse lookup timed out")})

	mock.ExpectQuery(`SELECT (.+) FROM "service_areas" AS "sa" WHERE (.+)company_id`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "company_id", "area_type", "zip_codes", "available_days"}).
			AddRow(areaID, companyID, "ZIP", []byte(`["V5K 1A1"]`), "{Wed}"))
	mock.ExpectQuery(`SELECT (.+) FROM "bookings" AS "b"`).
		WillReturnRows(bookingRows())

	day := time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)
	res, err := svc.DaySlots(context.Background(), companyID, geo.Point{Lat: 49.28, Lng: -123.12}, day)
	require.NoError(t, err, "a failed reverse lookup must not fail the request")
	assert.Equal(t, availability.ReasonOutOfServiceArea, res.Reason)
	assert.Empty(t, res.AvailableSlots)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckSlotOpen(t *testing.T) {
	db, mock := newMockDB(t)
	svc := newAvailabilityService(db, &stubGeocoder{})

	mock.ExpectQuery(`SELECT (.+) FROM "service_areas" AS "sa" WHERE (.+)company_id`).
		WillReturnRows(radiusAreaRows().
			AddRow(areaID, companyID, "RADIUS", 49.28, -123.12, 5.0, "{Wed}"))
	mock.ExpectQuery(`SELECT (.+) FROM "bookings" AS "b"`).
		WillReturnRows(bookingRows())

	day := time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)
	res, open, err := svc.CheckSlot(context.Background(), companyID, geo.Point{Lat: 49.28, Lng: -123.12}, day, "9–11")
	require.NoError(t, err)
	assert.True(t, open)
	assert.Contains(t, res.AvailableSlots, "9–11")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckSlotTaken(t *testing.T) {
	db, mock := newMockDB(t)
	svc := newAvailabilityService(db, &stubGeocoder{})

	day := time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT (.+) FROM "service_areas" AS "sa" WHERE (.+)company_id`).
		WillReturnRows(radiusAreaRows().
			AddRow(areaID, companyID, "RADIUS", 49.28, -123.12, 5.0, "{Wed}"))
	mock.ExpectQuery(`SELECT (.+) FROM "bookings" AS "b"`).
		WillReturnRows(bookingRows().
			AddRow(bookingID, companyID, "Eve", "eve@example.com", "77 Pine Rd", day, "9–11", "pending"))

	res, open, err := svc.CheckSlot(context.Background(), companyID, geo.Point{Lat: 49.28, Lng: -123.12}, day, "9–11")
	require.NoError(t, err)
	assert.False(t, open)
	assert.NotContains(t, res.AvailableSlots, "9–11")
	assert.Contains(t, res.AvailableSlots, "7–9", "other slots on the day stay open")
	assert.NoError(t, mock.ExpectationsWereMet())
}
