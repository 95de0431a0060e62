package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/clinica-crm/internal/entity"
	"github.com/xavierca1/clinica-crm/internal/infra/http/middleware"
	"github.com/xavierca1/clinica-crm/internal/infra/logger"
	"github.com/xavierca1/clinica-crm/internal/usecase"
)

type AppointmentHandler struct {
	AppointmentRepo entity.AppointmentRepositoryInterface
	ScheduleUC      *usecase.ScheduleAppointmentUseCase
}

func NewAppointmentHandler(repo entity.AppointmentRepositoryInterface, scheduleUC *usecase.ScheduleAppointmentUseCase) *AppointmentHandler {
	return &AppointmentHandler{
		AppointmentRepo: repo,
		ScheduleUC:      scheduleUC,
	}
}

// Calendar lists the clinic's appointments inside [from, to). Defaults to the
// current week when no range is given.
func (h *AppointmentHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	clinicID := middleware.ClinicID(r.Context())

	from, to, err := parseRange(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	appointments, err := h.AppointmentRepo.ListByRange(r.Context(), clinicID, from, to)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to load calendar")
		return
	}
	if appointments == nil {
		appointments = []*entity.Appointment{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(appointments)
}

func (h *AppointmentHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	clinicID := middleware.ClinicID(r.Context())

	var input usecase.ScheduleAppointmentInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	input.ClinicID = clinicID

	output, err := h.ScheduleUC.Execute(r.Context(), input)
	if err != nil {
		if usecase.IsDomainError(err) {
			writeJSONError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		if usecase.IsTechnicalError(err) {
			logger.Log.Errorf("schedule appointment: %s", err)
		}
		writeJSONError(w, http.StatusInternalServerError, "could not schedule appointment")
		return
	}

	middleware.RecordAppointmentScheduled()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(output)
}

type updateAppointmentRequest struct {
	Status entity.AppointmentStatus `json:"status"`
}

// UpdateStatus confirms or cancels a scheduled appointment. Cancelled slots
// free their time window for new bookings.
func (h *AppointmentHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	clinicID := middleware.ClinicID(r.Context())

	appointmentID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || appointmentID <= 0 {
		writeJSONError(w, http.StatusBadRequest, "invalid appointment id")
		return
	}

	var req updateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	switch req.Status {
	case entity.AppointmentConfirmed, entity.AppointmentCancelled:
	default:
		writeJSONError(w, http.StatusUnprocessableEntity, "unknown appointment status: "+string(req.Status))
		return
	}

	if err := h.AppointmentRepo.UpdateStatus(r.Context(), clinicID, appointmentID, req.Status); err != nil {
		if errors.Is(err, entity.ErrAppointmentNotFound) {
			writeJSONError(w, http.StatusNotFound, "appointment not found")
			return
		}
		writeJSONError(w, http.StatusInternalServerError, "could not update appointment")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"id":     appointmentID,
		"status": req.Status,
	})
}

func parseRange(r *http.Request) (time.Time, time.Time, error) {
	now := time.Now()
	from := now.Truncate(24 * time.Hour)
	to := from.AddDate(0, 0, 7)

	if raw := r.URL.Query().Get("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		from = t
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		to = t
	}
	return from, to, nil
}
