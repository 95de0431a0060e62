package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/clinica-crm/internal/entity"
)

// AdminHandler is the super-admin panel: tenant clinics, plan tier, suspension.
type AdminHandler struct {
	ClinicRepo entity.ClinicRepositoryInterface
}

func NewAdminHandler(clinicRepo entity.ClinicRepositoryInterface) *AdminHandler {
	return &AdminHandler{ClinicRepo: clinicRepo}
}

func (h *AdminHandler) ListClinics(w http.ResponseWriter, r *http.Request) {
	clinics, err := h.ClinicRepo.List(r.Context())
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to list clinics")
		return
	}
	if clinics == nil {
		clinics = []*entity.Clinic{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(clinics)
}

type createClinicRequest struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func (h *AdminHandler) CreateClinic(w http.ResponseWriter, r *http.Request) {
	var req createClinicRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	clinic, err := entity.NewClinic(req.Name, req.Slug)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.ClinicRepo.Create(r.Context(), clinic); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to create clinic")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(clinic)
}

type updateClinicRequest struct {
	Name      *string          `json:"name,omitempty"`
	PlanTier  *entity.PlanTier `json:"plan_tier,omitempty"`
	Suspended *bool            `json:"suspended,omitempty"`
}

// UpdateClinic changes plan tier, suspension or name of one tenant.
func (h *AdminHandler) UpdateClinic(w http.ResponseWriter, r *http.Request) {
	clinicID := chi.URLParam(r, "id")

	var req updateClinicRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	clinic, err := h.ClinicRepo.FindByID(r.Context(), clinicID)
	if err != nil {
		if errors.Is(err, entity.ErrClinicNotFound) {
			writeJSONError(w, http.StatusNotFound, "clinic not found")
			return
		}
		writeJSONError(w, http.StatusInternalServerError, "failed to load clinic")
		return
	}

	if req.Name != nil && *req.Name != "" {
		clinic.Name = *req.Name
	}
	if req.PlanTier != nil {
		if !req.PlanTier.Valid() {
			writeJSONError(w, http.StatusBadRequest, "unknown plan tier: "+string(*req.PlanTier))
			return
		}
		clinic.PlanTier = *req.PlanTier
	}
	if req.Suspended != nil {
		clinic.Suspended = *req.Suspended
	}

	if err := h.ClinicRepo.Update(r.Context(), clinic); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to update clinic")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(clinic)
}
