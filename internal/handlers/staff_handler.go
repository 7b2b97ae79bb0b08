package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"tourify/internal/apperr"
	"tourify/internal/models"
	"tourify/internal/services"
)

// StaffHandler serves availability, shifts and time off.
type StaffHandler struct {
	svc       *services.StaffingService
	validator *validator.Validate
}

func NewStaffHandler(svc *services.StaffingService) *StaffHandler {
	return &StaffHandler{svc: svc, validator: newValidator()}
}

// GetAvailability godoc
// @Tags Staff
// @Summary Read availability
// @Description staff_id with week_start returns one record (404 if none); staff_id alone
// @Description returns that member's history; venue_id returns every member of the venue,
// @Description optionally narrowed by week_start.
// @Security BearerAuth
// @Produce json
// @Param staff_id query string false "Staff member ID"
// @Param venue_id query string false "Venue ID"
// @Param week_start query string false "Week start (YYYY-MM-DD)"
// @Success 200 {object} models.StaffAvailability
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/venue/staff/availability [get]
func (h *StaffHandler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}
	staffID, ok := uuidQuery(w, r, "staff_id")
	if !ok {
		return
	}
	venueID, ok := uuidQuery(w, r, "venue_id")
	if !ok {
		return
	}
	weekStart := r.URL.Query().Get("week_start")

	if staffID != "" && weekStart != "" {
		a, err := h.svc.GetAvailabilityWeek(r.Context(), actor, staffID, weekStart)
		if err != nil {
			writeAppError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, a)
		return
	}

	items, err := h.svc.ListAvailability(r.Context(), actor, models.AvailabilityFilter{
		StaffID:   staffID,
		VenueID:   venueID,
		WeekStart: weekStart,
	})
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(items))
}

// UpdateAvailability godoc
// @Tags Staff
// @Summary Save a week of availability; rejected with 409 when a slot overlaps a shift
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body models.UpdateAvailabilityRequest true "Availability"
// @Success 200 {object} models.StaffAvailability
// @Failure 400 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{} "conflicts lists each slot and shift"
// @Router /api/v1/venue/staff/availability [post]
func (h *StaffHandler) UpdateAvailability(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}
	var req models.UpdateAvailabilityRequest
	if err := decodeAndValidate(w, r, h.validator, &req); err != nil {
		writeAppError(w, r, err)
		return
	}
	a, err := h.svc.UpdateStaffAvailability(r.Context(), actor, &req)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// CheckAvailability godoc
// @Tags Staff
// @Summary Dry-run the conflict check
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body models.UpdateAvailabilityRequest true "Proposed availability"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/venue/staff/availability/check [post]
func (h *StaffHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}
	var req models.UpdateAvailabilityRequest
	if err := decodeAndValidate(w, r, h.validator, &req); err != nil {
		writeAppError(w, r, err)
		return
	}
	conflicts, err := h.svc.PreviewAvailability(r.Context(), actor, &req)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"has_conflicts": len(conflicts) > 0,
		"conflicts":     conflicts,
	})
}

func (h *StaffHandler) ListShifts(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}
	staffID, ok := uuidQuery(w, r, "staff_id")
	if !ok {
		return
	}
	venueID, ok := uuidQuery(w, r, "venue_id")
	if !ok {
		return
	}
	q := r.URL.Query()
	shifts, err := h.svc.ListShifts(r.Context(), actor, models.ShiftFilter{
		VenueID:  venueID,
		StaffID:  staffID,
		FromDate: q.Get("from"),
		ToDate:   q.Get("to"),
	})
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(shifts))
}

// CreateShift godoc
// @Tags Staff
// @Summary Schedule a shift
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body models.CreateShiftRequest true "Shift"
// @Success 201 {object} models.Shift
// @Failure 409 {object} map[string]interface{} "overlapping shift or approved time off"
// @Router /api/v1/venue/staff/shifts [post]
func (h *StaffHandler) CreateShift(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}
	var req models.CreateShiftRequest
	if err := decodeAndValidate(w, r, h.validator, &req); err != nil {
		writeAppError(w, r, err)
		return
	}
	sh, err := h.svc.CreateShift(r.Context(), actor, &req)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sh)
}

func (h *StaffHandler) DeleteShift(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteShift(r.Context(), actor, id); err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "shift deleted successfully", "id": id})
}

func (h *StaffHandler) ListTimeOff(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}
	staffID, ok := uuidQuery(w, r, "staff_id")
	if !ok {
		return
	}
	venueID, ok := uuidQuery(w, r, "venue_id")
	if !ok {
		return
	}
	status := r.URL.Query().Get("status")
	switch models.TimeOffStatus(status) {
	case "", models.TimeOffPending, models.TimeOffApproved, models.TimeOffDenied:
	default:
		writeAppError(w, r, apperr.Validation("validation_error", "Invalid status",
			apperr.FieldError{Field: "status", Tag: "oneof", Message: "must be one of: pending approved denied"}))
		return
	}

	items, err := h.svc.ListTimeOff(r.Context(), actor, models.TimeOffFilter{
		VenueID: venueID,
		StaffID: staffID,
		Status:  status,
	})
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(items))
}

func (h *StaffHandler) CreateTimeOff(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}
	var req models.CreateTimeOffRequest
	if err := decodeAndValidate(w, r, h.validator, &req); err != nil {
		writeAppError(w, r, err)
		return
	}
	t, err := h.svc.CreateTimeOff(r.Context(), actor, &req)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

// DecideTimeOff godoc
// @Tags Staff
// @Summary Approve or deny a pending time-off request
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Time-off request ID"
// @Param body body models.TimeOffDecisionRequest true "Decision"
// @Success 200 {object} models.TimeOffRequest
// @Failure 409 {object} map[string]interface{} "already decided"
// @Router /api/v1/venue/staff/time-off/{id}/decision [put]
func (h *StaffHandler) DecideTimeOff(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	var req models.TimeOffDecisionRequest
	if err := decodeAndValidate(w, r, h.validator, &req); err != nil {
		writeAppError(w, r, err)
		return
	}
	t, err := h.svc.DecideTimeOff(r.Context(), actor, id, models.TimeOffStatus(req.Status))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}
