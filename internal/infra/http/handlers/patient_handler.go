package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/clinica-crm/internal/entity"
	"github.com/xavierca1/clinica-crm/internal/infra/http/middleware"
	"github.com/xavierca1/clinica-crm/internal/infra/logger"
	"github.com/xavierca1/clinica-crm/internal/usecase"
)

type PatientHandler struct {
	PatientRepo entity.PatientRepositoryInterface
	MoveUC      *usecase.MovePatientUseCase
}

func NewPatientHandler(patientRepo entity.PatientRepositoryInterface, moveUC *usecase.MovePatientUseCase) *PatientHandler {
	return &PatientHandler{
		PatientRepo: patientRepo,
		MoveUC:      moveUC,
	}
}

type createPatientRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email,omitempty"`
}

// Create registers a patient directly from the staff UI.
func (h *PatientHandler) Create(w http.ResponseWriter, r *http.Request) {
	clinicID := middleware.ClinicID(r.Context())

	var req createPatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	patient, err := entity.NewPatient(clinicID, req.Name, req.Phone, req.Email)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.PatientRepo.Create(r.Context(), patient); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to create patient")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(patient)
}

// List returns the clinic's patients, optionally filtered by status.
func (h *PatientHandler) List(w http.ResponseWriter, r *http.Request) {
	clinicID := middleware.ClinicID(r.Context())

	var (
		patients []*entity.Patient
		err      error
	)
	if raw := r.URL.Query().Get("status"); raw != "" {
		status := entity.Status(raw)
		if !status.Valid() {
			writeJSONError(w, http.StatusBadRequest, "unknown pipeline status: "+raw)
			return
		}
		patients, err = h.PatientRepo.ListByStatus(r.Context(), clinicID, status)
	} else {
		patients, err = h.PatientRepo.ListByClinic(r.Context(), clinicID)
	}
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to list patients")
		return
	}
	if patients == nil {
		patients = []*entity.Patient{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(patients)
}

// Board returns the pipeline grouped by status in column order, empty columns
// included, ready for the Kanban view to consume.
func (h *PatientHandler) Board(w http.ResponseWriter, r *http.Request) {
	clinicID := middleware.ClinicID(r.Context())

	patients, err := h.PatientRepo.ListByClinic(r.Context(), clinicID)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to load board")
		return
	}

	columns := make(map[entity.Status][]*entity.Patient, 4)
	for _, s := range entity.PipelineStatuses() {
		columns[s] = []*entity.Patient{}
	}
	for _, p := range patients {
		columns[p.Status] = append(columns[p.Status], p)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"order":   entity.PipelineStatuses(),
		"columns": columns,
	})
}

// UpdateStatus is the authoritative PATCH the board client reconciles against.
func (h *PatientHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	clinicID := middleware.ClinicID(r.Context())

	patientID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || patientID <= 0 {
		writeJSONError(w, http.StatusBadRequest, "invalid patient id")
		return
	}

	var input usecase.MovePatientInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	input.ClinicID = clinicID
	input.PatientID = patientID

	output, err := h.MoveUC.Execute(r.Context(), input)
	if err != nil {
		middleware.RecordTransition(string(input.Status), "rejected")
		if usecase.IsDomainError(err) {
			domainErr := err.(*usecase.DomainError)
			status := http.StatusUnprocessableEntity
			if domainErr.Code == "PATIENT_NOT_FOUND" {
				status = http.StatusNotFound
			}
			writeJSONError(w, status, domainErr.Message)
			return
		}
		if usecase.IsTechnicalError(err) {
			logger.Log.Errorf("move patient %d: %s", patientID, err)
		}
		writeJSONError(w, http.StatusInternalServerError, "could not update status")
		return
	}

	middleware.RecordTransition(string(output.Status), "confirmed")

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(output)
}
