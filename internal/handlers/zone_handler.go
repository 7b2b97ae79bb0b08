package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"tourify/internal/models"
	"tourify/internal/services"
)

type ZoneHandler struct {
	svc       *services.SiteMapService
	validator *validator.Validate
}

func NewZoneHandler(svc *services.SiteMapService) *ZoneHandler {
	return &ZoneHandler{svc: svc, validator: newValidator()}
}

func (h *ZoneHandler) ListZones(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}
	siteMapID, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	zones, err := h.svc.ListZones(r.Context(), actor, siteMapID)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(zones))
}

func (h *ZoneHandler) CreateZone(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}
	siteMapID, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	var req models.CreateZoneRequest
	if err := decodeAndValidate(w, r, h.validator, &req); err != nil {
		writeAppError(w, r, err)
		return
	}
	z, err := h.svc.CreateZone(r.Context(), actor, siteMapID, &req)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, z)
}

func (h *ZoneHandler) UpdateZone(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}
	siteMapID, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	zoneID, ok := uuidParam(w, r, "zoneId")
	if !ok {
		return
	}
	var req models.UpdateZoneRequest
	if err := decodeAndValidate(w, r, h.validator, &req); err != nil {
		writeAppError(w, r, err)
		return
	}
	z, err := h.svc.UpdateZone(r.Context(), actor, siteMapID, zoneID, &req)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, z)
}

func (h *ZoneHandler) DeleteZone(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}
	siteMapID, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	zoneID, ok := uuidParam(w, r, "zoneId")
	if !ok {
		return
	}
	if err := h.svc.DeleteZone(r.Context(), actor, siteMapID, zoneID); err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "zone deleted successfully", "id": zoneID})
}
