package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"geoserv-bknd/internal/config"
	"geoserv-bknd/internal/geo"
	"geoserv-bknd/internal/services"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

type AvailabilityHandler struct {
	service *services.AvailabilityService
	cfg     *config.Config
	logr    *zap.Logger
}

func NewAvailabilityHandler(svc *services.AvailabilityService, cfg *config.Config, logr *zap.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{service: svc, cfg: cfg, logr: logr}
}

func parsePoint(q map[string][]string) (geo.Point, bool) {
	get := func(key string) string {
		if v := q[key]; len(v) > 0 {
			return strings.TrimSpace(v[0])
		}
		return ""
	}
	lat, errLat := strconv.ParseFloat(get("lat"), 64)
	lng, errLng := strconv.ParseFloat(get("lng"), 64)
	if errLat != nil || errLng != nil {
		return geo.Point{}, false
	}
	return geo.Point{Lat: lat, Lng: lng}, true
}

func (h *AvailabilityHandler) clampLookahead(raw string, fallback int) int {
	days := fallback
	if raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			days = v
		}
	}
	if days > h.cfg.MaxLookaheadDays {
		days = h.cfg.MaxLookaheadDays
	}
	return days
}

// GetDaySlots handles GET /companies/{companyID}/availability?date=&lat=&lng=
func (h *AvailabilityHandler) GetDaySlots(w http.ResponseWriter, r *http.Request) {
	companyID := chi.URLParam(r, "companyID")
	q := r.URL.Query()

	day, err := time.Parse(dateLayout, q.Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid or missing date (expected YYYY-MM-DD)")
		return
	}

	point, ok := parsePoint(q)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid or missing lat/lng")
		return
	}

	res, err := h.service.DaySlots(r.Context(), companyID, point, day)
	if err != nil {
		h.logr.Error("failed to compute day slots", zap.Error(err), zap.String("company_id", companyID))
		writeError(w, http.StatusInternalServerError, "Failed to compute availability")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": res})
}

// GetOpenDays handles GET /companies/{companyID}/availability/days?lat=&lng=&lookahead=
func (h *AvailabilityHandler) GetOpenDays(w http.ResponseWriter, r *http.Request) {
	companyID := chi.URLParam(r, "companyID")
	q := r.URL.Query()

	point, ok := parsePoint(q)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid or missing lat/lng")
		return
	}

	lookahead := h.clampLookahead(q.Get("lookahead"), h.cfg.DefaultLookaheadDays)

	res, err := h.service.OpenDays(r.Context(), companyID, point, lookahead)
	if err != nil {
		h.logr.Error("failed to compute open days", zap.Error(err), zap.String("company_id", companyID))
		writeError(w, http.StatusInternalServerError, "Failed to compute availability")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": res})
}

type addressAvailabilityReq struct {
	Address   string `json:"address"`
	Lookahead int    `json:"lookahead,omitempty"`
}

// GetOpenDaysByAddress handles POST /companies/{companyID}/availability/address
func (h *AvailabilityHandler) GetOpenDaysByAddress(w http.ResponseWriter, r *http.Request) {
	companyID := chi.URLParam(r, "companyID")

	var req addressAvailabilityReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Address) == "" {
		writeError(w, http.StatusBadRequest, "Address is required")
		return
	}

	lookahead := h.cfg.AddressLookaheadDays
	if req.Lookahead > 0 {
		lookahead = req.Lookahead
	}
	if lookahead > h.cfg.MaxLookaheadDays {
		lookahead = h.cfg.MaxLookaheadDays
	}

	res, err := h.service.OpenDaysByAddress(r.Context(), companyID, req.Address, lookahead)
	if err != nil {
		h.logr.Error("failed to compute availability by address", zap.Error(err), zap.String("company_id", companyID))
		writeError(w, http.StatusInternalServerError, "Failed to compute availability")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": res})
}
