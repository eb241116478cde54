package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"geoserv-bknd/internal/availability"
	"geoserv-bknd/internal/geo"
	"geoserv-bknd/internal/geocoder"
	"geoserv-bknd/internal/models"
	"geoserv-bknd/internal/services"
	"geoserv-bknd/internal/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingHandler struct {
	bookings     *services.BookingService
	availability *services.AvailabilityService
	geocoder     geocoder.Geocoder
	logr         *zap.Logger
}

func NewBookingHandler(bookings *services.BookingService, avail *services.AvailabilityService, gc geocoder.Geocoder, logr *zap.Logger) *BookingHandler {
	return &BookingHandler{bookings: bookings, availability: avail, geocoder: gc, logr: logr}
}

type createBookingReq struct {
	OfferingID    *string  `json:"offering_id,omitempty"`
	CustomerName  string   `json:"customer_name"`
	CustomerEmail string   `json:"customer_email"`
	CustomerPhone string   `json:"customer_phone,omitempty"`
	Address       string   `json:"address"`
	Lat           *float64 `json:"lat,omitempty"`
	Lng           *float64 `json:"lng,omitempty"`
	Date          string   `json:"date"`
	Slot          string   `json:"slot"`
	Notes         *string  `json:"notes,omitempty"`
}

// CreateBooking handles POST /companies/{companyID}/bookings.
//
// The flow: bail early if the day is already fully booked, resolve the
// customer's coordinate (explicit lat/lng override or geocoded address),
// re-check the requested (day, slot) against current availability, then
// insert. The partial unique index still backstops the race with a
// concurrent booking.
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	companyID := chi.URLParam(r, "companyID")
	cid, err := uuid.Parse(companyID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid company id")
		return
	}

	var req createBookingReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if strings.TrimSpace(req.CustomerName) == "" || strings.TrimSpace(req.CustomerEmail) == "" {
		writeError(w, http.StatusBadRequest, "Customer name and email are required")
		return
	}
	if strings.TrimSpace(req.Address) == "" {
		writeError(w, http.StatusBadRequest, "Address is required")
		return
	}
	if !availability.ValidSlot(req.Slot) {
		writeError(w, http.StatusBadRequest, "Unknown slot label")
		return
	}

	day, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date (expected YYYY-MM-DD)")
		return
	}

	// Cheap count first: a fully booked day skips the geocoder round-trip.
	count, err := h.bookings.CountActiveOnDay(r.Context(), cid, day)
	if err != nil {
		h.logr.Error("failed to count bookings", zap.Error(err), zap.String("company_id", companyID))
		writeError(w, http.StatusInternalServerError, "Failed to validate slot")
		return
	}
	if count >= len(availability.Slots) {
		writeJSON(w, http.StatusConflict, map[string]any{
			"success": false,
			"message": "All slots on this day are taken",
			"reason":  "SLOT_TAKEN",
		})
		return
	}

	// Explicit coordinates win over geocoding the address.
	var point geo.Point
	if req.Lat != nil && req.Lng != nil {
		point = geo.Point{Lat: *req.Lat, Lng: *req.Lng}
	} else {
		resolved, err := h.geocoder.Geocode(r.Context(), req.Address)
		if err != nil {
			h.logr.Error("geocoding failed", zap.Error(err), zap.String("address", req.Address))
			writeError(w, http.StatusBadGateway, "Address lookup failed, try again")
			return
		}
		if resolved == nil {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"success": false,
				"message": "Address could not be resolved",
				"reason":  availability.ReasonInvalidAddress,
			})
			return
		}
		point = *resolved
	}

	res, open, err := h.availability.CheckSlot(r.Context(), companyID, point, day, req.Slot)
	if err != nil {
		h.logr.Error("availability check failed", zap.Error(err), zap.String("company_id", companyID))
		writeError(w, http.StatusInternalServerError, "Failed to validate slot")
		return
	}
	if !open {
		reason := res.Reason
		if reason == "" {
			reason = "SLOT_TAKEN"
		}
		writeJSON(w, http.StatusConflict, map[string]any{
			"success": false,
			"message": "Requested slot is not available",
			"reason":  reason,
		})
		return
	}

	booking := &models.Booking{
		CompanyID:     cid,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		Address:       req.Address,
		Lat:           &point.Lat,
		Lng:           &point.Lng,
		BookingDate:   day,
		Slot:          req.Slot,
		Notes:         req.Notes,
	}
	if req.OfferingID != nil {
		oid, err := uuid.Parse(*req.OfferingID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid offering id")
			return
		}
		booking.OfferingID = &oid
	}

	if err := h.bookings.Create(r.Context(), booking); err != nil {
		if errors.Is(err, services.ErrSlotTaken) {
			writeJSON(w, http.StatusConflict, map[string]any{
				"success": false,
				"message": "Slot was just booked by someone else",
				"reason":  "SLOT_TAKEN",
			})
			return
		}
		h.logr.Error("failed to create booking", zap.Error(err), zap.String("company_id", companyID))
		writeError(w, http.StatusInternalServerError, "Failed to create booking")
		return
	}

	h.logr.Info("booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("company_id", companyID),
		zap.String("date", req.Date),
		zap.String("slot", req.Slot))

	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "data": booking})
}

// ListBookings handles GET /companies/{companyID}/bookings?from=&to=&status=&page=&limit=
func (h *BookingHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	companyID, ok := requireCompanyAccess(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()

	params := services.BookingQueryParams{
		Statuses: utils.ParseQueryList(q, "status"),
	}
	params.Page, _ = strconv.Atoi(q.Get("page"))
	params.Limit, _ = strconv.Atoi(q.Get("limit"))

	if raw := q.Get("from"); raw != "" {
		from, err := time.Parse(dateLayout, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid from date")
			return
		}
		params.From = &from
	}
	if raw := q.Get("to"); raw != "" {
		to, err := time.Parse(dateLayout, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid to date")
			return
		}
		params.To = &to
	}

	res, err := h.bookings.List(r.Context(), companyID, params)
	if err != nil {
		h.logr.Error("failed to list bookings", zap.Error(err), zap.String("company_id", companyID))
		writeError(w, http.StatusInternalServerError, "Failed to retrieve bookings")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    res.Data,
		"meta":    res.Meta,
	})
}

// GetBooking handles GET /companies/{companyID}/bookings/{bookingID}
func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	companyID, ok := requireCompanyAccess(w, r)
	if !ok {
		return
	}
	bookingID := chi.URLParam(r, "bookingID")

	booking, err := h.bookings.GetByID(r.Context(), companyID, bookingID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Booking not found")
			return
		}
		h.logr.Error("failed to get booking", zap.Error(err), zap.String("booking_id", bookingID))
		writeError(w, http.StatusInternalServerError, "Failed to retrieve booking")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": booking})
}

type updateStatusReq struct {
	Status string `json:"status"`
}

// UpdateBookingStatus handles PATCH /companies/{companyID}/bookings/{bookingID}/status
func (h *BookingHandler) UpdateBookingStatus(w http.ResponseWriter, r *http.Request) {
	companyID, ok := requireCompanyAccess(w, r)
	if !ok {
		return
	}
	bookingID := chi.URLParam(r, "bookingID")

	var req updateStatusReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	next := models.BookingStatus(strings.ToLower(strings.TrimSpace(req.Status)))
	switch next {
	case models.BookingPending, models.BookingConfirmed, models.BookingCompleted, models.BookingCanceled:
	default:
		writeError(w, http.StatusBadRequest, "Status must be one of: pending, confirmed, completed, canceled")
		return
	}

	booking, err := h.bookings.UpdateStatus(r.Context(), companyID, bookingID, next)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			writeError(w, http.StatusNotFound, "Booking not found")
		case errors.Is(err, services.ErrInvalidTransition):
			writeError(w, http.StatusConflict, err.Error())
		default:
			h.logr.Error("failed to update booking status", zap.Error(err), zap.String("booking_id", bookingID))
			writeError(w, http.StatusInternalServerError, "Failed to update status")
		}
		return
	}

	h.logr.Info("booking status updated",
		zap.String("booking_id", bookingID),
		zap.String("status", string(next)))

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": booking})
}
