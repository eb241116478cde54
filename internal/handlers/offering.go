package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"geoserv-bknd/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type OfferingHandler struct {
	service *services.OfferingService
	logr    *zap.Logger
}

func NewOfferingHandler(svc *services.OfferingService, logr *zap.Logger) *OfferingHandler {
	return &OfferingHandler{service: svc, logr: logr}
}

// CreateOffering handles POST /companies/{companyID}/offerings
func (h *OfferingHandler) CreateOffering(w http.ResponseWriter, r *http.Request) {
	companyID, ok := requireCompanyAccess(w, r)
	if !ok {
		return
	}
	cid, err := uuid.Parse(companyID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid company id")
		return
	}

	var req services.CreateOfferingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "Name is required")
		return
	}
	if req.PriceCents < 0 {
		writeError(w, http.StatusBadRequest, "Price must not be negative")
		return
	}

	offering, err := h.service.Create(r.Context(), cid, req)
	if err != nil {
		h.logr.Error("failed to create offering", zap.Error(err), zap.String("company_id", companyID))
		writeError(w, http.StatusInternalServerError, "Failed to create offering")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "data": offering})
}

// ListOfferings handles GET /companies/{companyID}/offerings
func (h *OfferingHandler) ListOfferings(w http.ResponseWriter, r *http.Request) {
	companyID := chi.URLParam(r, "companyID")
	includeInactive := r.URL.Query().Get("includeInactive") == "true"

	offerings, err := h.service.List(r.Context(), companyID, includeInactive)
	if err != nil {
		h.logr.Error("failed to list offerings", zap.Error(err), zap.String("company_id", companyID))
		writeError(w, http.StatusInternalServerError, "Failed to retrieve offerings")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    offerings,
		"count":   len(offerings),
	})
}

// GetOffering handles GET /companies/{companyID}/offerings/{offeringID}
func (h *OfferingHandler) GetOffering(w http.ResponseWriter, r *http.Request) {
	companyID := chi.URLParam(r, "companyID")
	offeringID := chi.URLParam(r, "offeringID")

	offering, err := h.service.GetByID(r.Context(), companyID, offeringID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Offering not found")
			return
		}
		h.logr.Error("failed to get offering", zap.Error(err), zap.String("offering_id", offeringID))
		writeError(w, http.StatusInternalServerError, "Failed to retrieve offering")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": offering})
}

// UpdateOffering handles PUT /companies/{companyID}/offerings/{offeringID}
func (h *OfferingHandler) UpdateOffering(w http.ResponseWriter, r *http.Request) {
	companyID, ok := requireCompanyAccess(w, r)
	if !ok {
		return
	}
	offeringID := chi.URLParam(r, "offeringID")

	var req services.UpdateOfferingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	offering, err := h.service.Update(r.Context(), companyID, offeringID, req)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Offering not found")
			return
		}
		h.logr.Error("failed to update offering", zap.Error(err), zap.String("offering_id", offeringID))
		writeError(w, http.StatusInternalServerError, "Failed to update offering")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": offering})
}

// DeleteOffering handles DELETE /companies/{companyID}/offerings/{offeringID}
func (h *OfferingHandler) DeleteOffering(w http.ResponseWriter, r *http.Request) {
	companyID, ok := requireCompanyAccess(w, r)
	if !ok {
		return
	}
	offeringID := chi.URLParam(r, "offeringID")

	if err := h.service.Delete(r.Context(), companyID, offeringID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Offering not found")
			return
		}
		h.logr.Error("failed to delete offering", zap.Error(err), zap.String("offering_id", offeringID))
		writeError(w, http.StatusInternalServerError, "Failed to delete offering")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
