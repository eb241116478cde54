package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"geoserv-bknd/internal/services"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"go.uber.org/zap"
)

const testCompanyID = "3f1a0a52-8a5f-4a6e-9a20-111111111111"

func newBookingHandlerWithMockDB(t *testing.T) (*BookingHandler, sqlmock.Sqlmock) {
	t.Helper()
	sqldb, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqldb.Close() })

	db := bun.NewDB(sqldb, pgdialect.New())
	return NewBookingHandler(services.NewBookingService(db), nil, nil, zap.NewNop()), mock
}

func withCompanyParam(req *http.Request, companyID string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("companyID", companyID)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestCreateBookingFullyBookedDaySkipsGeocoding(t *testing.T) {
	h, mock := newBookingHandlerWithMockDB(t)

	// Five active bookings fill the day; the handler must answer before
	// touching the geocoder (which is nil here and would panic).
	mock.ExpectQuery(`SELECT count\(\*\) FROM "bookings" AS "b"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))

	body := `{
		"customer_name": "Frank",
		"customer_email": "frank@example.com",
		"address": "88 Birch Way",
		"date": "2026-09-02",
		"slot": "9–11"
	}`
	req := withCompanyParam(
		httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader(body)),
		testCompanyID)
	rec := httptest.NewRecorder()

	h.CreateBooking(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "SLOT_TAKEN")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingRejectsUnknownSlot(t *testing.T) {
	h, _ := newBookingHandlerWithMockDB(t)

	body := `{
		"customer_name": "Grace",
		"customer_email": "grace@example.com",
		"address": "12 Cedar Ct",
		"date": "2026-09-02",
		"slot": "5-7"
	}`
	req := withCompanyParam(
		httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader(body)),
		testCompanyID)
	rec := httptest.NewRecorder()

	h.CreateBooking(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "slot")
}
