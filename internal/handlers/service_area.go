package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"geoserv-bknd/internal/models"
	"geoserv-bknd/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ServiceAreaHandler struct {
	service *services.ServiceAreaService
	logr    *zap.Logger
}

func NewServiceAreaHandler(svc *services.ServiceAreaService, logr *zap.Logger) *ServiceAreaHandler {
	return &ServiceAreaHandler{service: svc, logr: logr}
}

// CreateArea handles POST /companies/{companyID}/areas
func (h *ServiceAreaHandler) CreateArea(w http.ResponseWriter, r *http.Request) {
	companyID, ok := requireCompanyAccess(w, r)
	if !ok {
		return
	}
	cid, err := uuid.Parse(companyID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid company id")
		return
	}

	var req services.CreateAreaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	a, err := h.service.Create(r.Context(), cid, req)
	if err != nil {
		if errors.Is(err, models.ErrInvalidArea) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logr.Error("failed to create service area", zap.Error(err), zap.String("company_id", companyID))
		writeError(w, http.StatusInternalServerError, "Failed to create service area")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "data": a})
}

// ListAreas handles GET /companies/{companyID}/areas
func (h *ServiceAreaHandler) ListAreas(w http.ResponseWriter, r *http.Request) {
	companyID := chi.URLParam(r, "companyID")

	areas, err := h.service.ListByCompany(r.Context(), companyID)
	if err != nil {
		h.logr.Error("failed to list service areas", zap.Error(err), zap.String("company_id", companyID))
		writeError(w, http.StatusInternalServerError, "Failed to retrieve service areas")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    areas,
		"count":   len(areas),
	})
}

// GetArea handles GET /companies/{companyID}/areas/{areaID}
func (h *ServiceAreaHandler) GetArea(w http.ResponseWriter, r *http.Request) {
	companyID := chi.URLParam(r, "companyID")
	areaID := chi.URLParam(r, "areaID")

	a, err := h.service.GetByID(r.Context(), companyID, areaID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Service area not found")
			return
		}
		h.logr.Error("failed to get service area", zap.Error(err), zap.String("area_id", areaID))
		writeError(w, http.StatusInternalServerError, "Failed to retrieve service area")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": a})
}

// UpdateArea handles PUT /companies/{companyID}/areas/{areaID}
func (h *ServiceAreaHandler) UpdateArea(w http.ResponseWriter, r *http.Request) {
	companyID, ok := requireCompanyAccess(w, r)
	if !ok {
		return
	}
	areaID := chi.URLParam(r, "areaID")

	var req services.UpdateAreaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	a, err := h.service.Update(r.Context(), companyID, areaID, req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			writeError(w, http.StatusNotFound, "Service area not found")
		case errors.Is(err, models.ErrInvalidArea):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			h.logr.Error("failed to update service area", zap.Error(err), zap.String("area_id", areaID))
			writeError(w, http.StatusInternalServerError, "Failed to update service area")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": a})
}

// DeleteArea handles DELETE /companies/{companyID}/areas/{areaID}
func (h *ServiceAreaHandler) DeleteArea(w http.ResponseWriter, r *http.Request) {
	companyID, ok := requireCompanyAccess(w, r)
	if !ok {
		return
	}
	areaID := chi.URLParam(r, "areaID")

	if err := h.service.Delete(r.Context(), companyID, areaID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Service area not found")
			return
		}
		h.logr.Error("failed to delete service area", zap.Error(err), zap.String("area_id", areaID))
		writeError(w, http.StatusInternalServerError, "Failed to delete service area")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
