package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"geoserv-bknd/internal/config"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newTestAvailabilityHandler() *AvailabilityHandler {
	cfg := &config.Config{
		DefaultLookaheadDays: 90,
		AddressLookaheadDays: 60,
		MaxLookaheadDays:     365,
	}
	return NewAvailabilityHandler(nil, cfg, zap.NewNop())
}

func TestGetDaySlotsRejectsBadDate(t *testing.T) {
	h := newTestAvailabilityHandler()

	for _, raw := range []string{"", "2026-13-01", "01/02/2026", "tomorrow"} {
		req := httptest.NewRequest(http.MethodGet, "/availability?date="+raw+"&lat=49.28&lng=-123.12", nil)
		rec := httptest.NewRecorder()

		h.GetDaySlots(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code, "date=%q", raw)
		assert.Contains(t, rec.Body.String(), "date")
	}
}

func TestGetDaySlotsRejectsBadCoordinates(t *testing.T) {
	h := newTestAvailabilityHandler()

	cases := []string{
		"date=2026-09-02",
		"date=2026-09-02&lat=49.28",
		"date=2026-09-02&lat=north&lng=-123.12",
	}
	for _, qs := range cases {
		req := httptest.NewRequest(http.MethodGet, "/availability?"+qs, nil)
		rec := httptest.NewRecorder()

		h.GetDaySlots(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code, "query %q", qs)
		assert.Contains(t, rec.Body.String(), "lat/lng")
	}
}

func TestClampLookahead(t *testing.T) {
	h := newTestAvailabilityHandler()

	assert.Equal(t, 90, h.clampLookahead("", 90), "empty falls back to default")
	assert.Equal(t, 14, h.clampLookahead("14", 90))
	assert.Equal(t, 90, h.clampLookahead("-3", 90), "non-positive falls back")
	assert.Equal(t, 90, h.clampLookahead("soon", 90), "garbage falls back")
	assert.Equal(t, 365, h.clampLookahead("9999", 90), "capped at the ceiling")
}

func TestGetOpenDaysByAddressRequiresAddress(t *testing.T) {
	h := newTestAvailabilityHandler()

	req := httptest.NewRequest(http.MethodPost, "/availability/address", nil)
	rec := httptest.NewRecorder()
	h.GetOpenDaysByAddress(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
