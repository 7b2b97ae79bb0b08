package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"tourify/internal/models"
	"tourify/internal/services"
)

type TentHandler struct {
	svc       *services.SiteMapService
	validator *validator.Validate
}

func NewTentHandler(svc *services.SiteMapService) *TentHandler {
	return &TentHandler{svc: svc, validator: newValidator()}
}

// ListTents godoc
// @Tags Tents
// @Summary List tents of a site map
// @Security BearerAuth
// @Produce json
// @Param id path string true "Site map ID"
// @Param zone_id query string false "Zone ID"
// @Param status query string false "available, reserved, occupied or maintenance"
// @Param type query string false "Tent type"
// @Success 200 {array} models.Tent
// @Router /api/v1/site-maps/{id}/tents [get]
func (h *TentHandler) ListTents(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}
	siteMapID, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	zoneID, ok := uuidQuery(w, r, "zone_id")
	if !ok {
		return
	}
	q := r.URL.Query()
	filter := models.TentFilter{
		SiteMapID: siteMapID,
		ZoneID:    zoneID,
		Status:    q.Get("status"),
		TentType:  q.Get("type"),
	}
	if filter.TentType == "" {
		filter.TentType = q.Get("tent_type")
	}

	tents, err := h.svc.ListTents(r.Context(), actor, filter)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(tents))
}

// CreateTent godoc
// @Tags Tents
// @Summary Create a tent; tent numbers are unique per site map
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Site map ID"
// @Param body body models.CreateTentRequest true "Tent"
// @Success 200 {object} models.Tent
// @Failure 400 {object} map[string]interface{} "validation error, duplicate tent number or invalid zone"
// @Router /api/v1/site-maps/{id}/tents [post]
func (h *TentHandler) CreateTent(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}
	siteMapID, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	var req models.CreateTentRequest
	if err := decodeAndValidate(w, r, h.validator, &req); err != nil {
		writeAppError(w, r, err)
		return
	}
	t, err := h.svc.CreateTent(r.Context(), actor, siteMapID, &req)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	// Existing clients expect 200 here, unlike the other create endpoints.
	writeJSON(w, http.StatusOK, t)
}

func (h *TentHandler) GetTent(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}
	siteMapID, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	tentID, ok := uuidParam(w, r, "tentId")
	if !ok {
		return
	}
	t, err := h.svc.GetTent(r.Context(), actor, siteMapID, tentID)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *TentHandler) UpdateTent(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}
	siteMapID, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	tentID, ok := uuidParam(w, r, "tentId")
	if !ok {
		return
	}
	var req models.UpdateTentRequest
	if err := decodeAndValidate(w, r, h.validator, &req); err != nil {
		writeAppError(w, r, err)
		return
	}
	t, err := h.svc.UpdateTent(r.Context(), actor, siteMapID, tentID, &req)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *TentHandler) DeleteTent(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}
	siteMapID, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	tentID, ok := uuidParam(w, r, "tentId")
	if !ok {
		return
	}
	if err := h.svc.DeleteTent(r.Context(), actor, siteMapID, tentID); err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "tent deleted successfully", "id": tentID})
}
