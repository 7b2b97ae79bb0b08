package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"tourify/internal/apperr"
	"tourify/internal/models"
	"tourify/internal/services"
)

type SiteMapHandler struct {
	svc       *services.SiteMapService
	validator *validator.Validate
}

func NewSiteMapHandler(svc *services.SiteMapService) *SiteMapHandler {
	return &SiteMapHandler{svc: svc, validator: newValidator()}
}

// ListSiteMaps godoc
// @Tags SiteMaps
// @Summary List site maps of a venue
// @Security BearerAuth
// @Produce json
// @Param venue_id query string true "Venue ID"
// @Param page query int false "Page (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} paginatedResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Router /api/v1/site-maps [get]
func (h *SiteMapHandler) ListSiteMaps(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}
	venueID, ok := uuidQuery(w, r, "venue_id")
	if !ok {
		return
	}
	if venueID == "" {
		writeAppError(w, r, apperr.Validation("validation_error", "venue_id is required",
			apperr.FieldError{Field: "venue_id", Tag: "required", Message: "is required"}))
		return
	}
	p, err := parsePaginationParams(r, 20, 100)
	if err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "invalid_pagination", "Invalid pagination: "+err.Error())
		return
	}

	items, total, err := h.svc.ListSiteMaps(r.Context(), actor, venueID, p.page, p.pageSize)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writePaginatedResponse(w, http.StatusOK, nonNil(items), p.page, p.pageSize, total)
}

// CreateSiteMap godoc
// @Tags SiteMaps
// @Summary Create a site map
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body models.CreateSiteMapRequest true "Site map"
// @Success 201 {object} models.SiteMap
// @Failure 400 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Router /api/v1/site-maps [post]
func (h *SiteMapHandler) CreateSiteMap(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}
	var req models.CreateSiteMapRequest
	if err := decodeAndValidate(w, r, h.validator, &req); err != nil {
		writeAppError(w, r, err)
		return
	}
	m, err := h.svc.CreateSiteMap(r.Context(), actor, &req)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

// GetSiteMap godoc
// @Tags SiteMaps
// @Summary Get a site map
// @Security BearerAuth
// @Produce json
// @Param id path string true "Site map ID"
// @Success 200 {object} models.SiteMap
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/site-maps/{id} [get]
func (h *SiteMapHandler) GetSiteMap(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	m, err := h.svc.GetSiteMap(r.Context(), actor, id)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (h *SiteMapHandler) UpdateSiteMap(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	var req models.UpdateSiteMapRequest
	if err := decodeAndValidate(w, r, h.validator, &req); err != nil {
		writeAppError(w, r, err)
		return
	}
	m, err := h.svc.UpdateSiteMap(r.Context(), actor, id, &req)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (h *SiteMapHandler) DeleteSiteMap(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteSiteMap(r.Context(), actor, id); err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "site map deleted successfully", "id": id})
}

// ListActivity godoc
// @Tags SiteMaps
// @Summary Activity log of a site map, newest first
// @Security BearerAuth
// @Produce json
// @Param id path string true "Site map ID"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} paginatedResponse
// @Router /api/v1/site-maps/{id}/activity [get]
func (h *SiteMapHandler) ListActivity(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	p, err := parsePaginationParams(r, 20, 100)
	if err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "invalid_pagination", "Invalid pagination: "+err.Error())
		return
	}
	items, total, err := h.svc.ListActivity(r.Context(), actor, id, p.page, p.pageSize)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writePaginatedResponse(w, http.StatusOK, nonNil(items), p.page, p.pageSize, total)
}
