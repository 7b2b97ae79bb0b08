package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"tourify/internal/models"
	"tourify/internal/services"
)

type ElementHandler struct {
	svc       *services.SiteMapService
	validator *validator.Validate
}

func NewElementHandler(svc *services.SiteMapService) *ElementHandler {
	return &ElementHandler{svc: svc, validator: newValidator()}
}

// ListElements godoc
// @Tags Elements
// @Summary List elements of a site map
// @Security BearerAuth
// @Produce json
// @Param id path string true "Site map ID"
// @Param layer_id query string false "Only elements on this layer"
// @Success 200 {array} models.Element
// @Router /api/v1/site-maps/{id}/elements [get]
func (h *ElementHandler) ListElements(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}
	siteMapID, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	layerID, ok := uuidQuery(w, r, "layer_id")
	if !ok {
		return
	}
	elements, err := h.svc.ListElements(r.Context(), actor, siteMapID, layerID)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(elements))
}

// CreateElement godoc
// @Tags Elements
// @Summary Create an element; unknown element types are stored as "custom"
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Site map ID"
// @Param body body models.CreateElementRequest true "Element"
// @Success 201 {object} models.Element
// @Failure 400 {object} map[string]interface{}
// @Router /api/v1/site-maps/{id}/elements [post]
func (h *ElementHandler) CreateElement(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}
	siteMapID, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	var req models.CreateElementRequest
	if err := decodeAndValidate(w, r, h.validator, &req); err != nil {
		writeAppError(w, r, err)
		return
	}
	e, err := h.svc.CreateElement(r.Context(), actor, siteMapID, &req)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

func (h *ElementHandler) GetElement(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}
	siteMapID, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	elementID, ok := uuidParam(w, r, "elementId")
	if !ok {
		return
	}
	e, err := h.svc.GetElement(r.Context(), actor, siteMapID, elementID)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// UpdateElement godoc
// @Tags Elements
// @Summary Partially update an element; properties are merged key by key
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Site map ID"
// @Param elementId path string true "Element ID"
// @Param body body models.UpdateElementRequest true "Patch"
// @Success 200 {object} models.Element
// @Router /api/v1/site-maps/{id}/elements/{elementId} [put]
func (h *ElementHandler) UpdateElement(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}
	siteMapID, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	elementID, ok := uuidParam(w, r, "elementId")
	if !ok {
		return
	}
	var req models.UpdateElementRequest
	if err := decodeAndValidate(w, r, h.validator, &req); err != nil {
		writeAppError(w, r, err)
		return
	}
	e, err := h.svc.UpdateElement(r.Context(), actor, siteMapID, elementID, &req)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (h *ElementHandler) DeleteElement(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}
	siteMapID, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	elementID, ok := uuidParam(w, r, "elementId")
	if !ok {
		return
	}
	if err := h.svc.DeleteElement(r.Context(), actor, siteMapID, elementID); err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "element deleted successfully", "id": elementID})
}
