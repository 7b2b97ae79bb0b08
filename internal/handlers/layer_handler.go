package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"tourify/internal/models"
	"tourify/internal/services"
)

type LayerHandler struct {
	svc       *services.SiteMapService
	validator *validator.Validate
}

func NewLayerHandler(svc *services.SiteMapService) *LayerHandler {
	return &LayerHandler{svc: svc, validator: newValidator()}
}

// ListLayers godoc
// @Tags Layers
// @Summary List layers ordered by z_index
// @Security BearerAuth
// @Produce json
// @Param id path string true "Site map ID"
// @Success 200 {array} models.Layer
// @Router /api/v1/site-maps/{id}/layers [get]
func (h *LayerHandler) ListLayers(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}
	siteMapID, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	layers, err := h.svc.ListLayers(r.Context(), actor, siteMapID)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(layers))
}

// CreateLayer godoc
// @Tags Layers
// @Summary Create a layer
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Site map ID"
// @Param body body models.CreateLayerRequest true "Layer"
// @Success 201 {object} models.Layer
// @Router /api/v1/site-maps/{id}/layers [post]
func (h *LayerHandler) CreateLayer(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}
	siteMapID, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	var req models.CreateLayerRequest
	if err := decodeAndValidate(w, r, h.validator, &req); err != nil {
		writeAppError(w, r, err)
		return
	}
	l, err := h.svc.CreateLayer(r.Context(), actor, siteMapID, &req)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, l)
}

func (h *LayerHandler) GetLayer(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}
	siteMapID, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	layerID, ok := uuidParam(w, r, "layerId")
	if !ok {
		return
	}
	l, err := h.svc.GetLayer(r.Context(), actor, siteMapID, layerID)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (h *LayerHandler) UpdateLayer(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}
	siteMapID, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	layerID, ok := uuidParam(w, r, "layerId")
	if !ok {
		return
	}
	var req models.UpdateLayerRequest
	if err := decodeAndValidate(w, r, h.validator, &req); err != nil {
		writeAppError(w, r, err)
		return
	}
	l, err := h.svc.UpdateLayer(r.Context(), actor, siteMapID, layerID, &req)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (h *LayerHandler) DeleteLayer(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}
	siteMapID, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	layerID, ok := uuidParam(w, r, "layerId")
	if !ok {
		return
	}
	if err := h.svc.DeleteLayer(r.Context(), actor, siteMapID, layerID); err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "layer deleted successfully", "id": layerID})
}
