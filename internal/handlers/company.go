package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"geoserv-bknd/internal/middleware"
	"geoserv-bknd/internal/services"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type CompanyHandler struct {
	service *services.CompanyService
	logr    *zap.Logger
}

func NewCompanyHandler(svc *services.CompanyService, logr *zap.Logger) *CompanyHandler {
	return &CompanyHandler{service: svc, logr: logr}
}

// requireCompanyAccess ensures the authenticated account belongs to the
// company in the URL. Tenancy boundary for every write route.
func requireCompanyAccess(w http.ResponseWriter, r *http.Request) (string, bool) {
	companyID := chi.URLParam(r, "companyID")
	if middleware.CompanyID(r.Context()) != companyID {
		writeError(w, http.StatusForbidden, "Account does not belong to this company")
		return "", false
	}
	return companyID, true
}

// GetCompany handles GET /companies/{companyID}
func (h *CompanyHandler) GetCompany(w http.ResponseWriter, r *http.Request) {
	companyID := chi.URLParam(r, "companyID")

	company, err := h.service.GetByID(r.Context(), companyID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Company not found")
			return
		}
		h.logr.Error("failed to get company", zap.Error(err), zap.String("company_id", companyID))
		writeError(w, http.StatusInternalServerError, "Failed to retrieve company")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": company})
}

// UpdateCompany handles PUT /companies/{companyID}
func (h *CompanyHandler) UpdateCompany(w http.ResponseWriter, r *http.Request) {
	companyID, ok := requireCompanyAccess(w, r)
	if !ok {
		return
	}

	var req services.UpdateCompanyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	company, err := h.service.Update(r.Context(), companyID, req)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Company not found")
			return
		}
		h.logr.Error("failed to update company", zap.Error(err), zap.String("company_id", companyID))
		writeError(w, http.StatusInternalServerError, "Failed to update company")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": company})
}
