package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"tourify/internal/models"
	"tourify/internal/services"
)

type CatalogHandler struct {
	svc       *services.EquipmentService
	validator *validator.Validate
}

func NewCatalogHandler(svc *services.EquipmentService) *CatalogHandler {
	return &CatalogHandler{svc: svc, validator: newValidator()}
}

// ListCatalog godoc
// @Tags Equipment
// @Summary Search the equipment catalog
// @Security BearerAuth
// @Produce json
// @Param category query string false "Category"
// @Param vendor_id query string false "Vendor ID"
// @Param search query string false "Case-insensitive match on name, model or manufacturer"
// @Param limit query int false "Max results (default 50, max 200)"
// @Param offset query int false "Offset"
// @Success 200 {array} models.EquipmentCatalogEntry
// @Router /api/v1/equipment/catalog [get]
func (h *CatalogHandler) ListCatalog(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	vendorID, ok := uuidQuery(w, r, "vendor_id")
	if !ok {
		return
	}
	limit, err := intQuery(r, "limit", 50)
	if err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	offset, err := intQuery(r, "offset", 0)
	if err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if limit < 1 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}

	entries, err := h.svc.ListCatalog(r.Context(), models.CatalogFilter{
		Category: q.Get("category"),
		VendorID: vendorID,
		Search:   q.Get("search"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(entries))
}

// CreateCatalogEntry godoc
// @Tags Equipment
// @Summary Add a catalog entry
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body models.CreateCatalogEntryRequest true "Catalog entry"
// @Success 201 {object} models.EquipmentCatalogEntry
// @Failure 400 {object} map[string]interface{}
// @Router /api/v1/equipment/catalog [post]
func (h *CatalogHandler) CreateCatalogEntry(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}
	var req models.CreateCatalogEntryRequest
	if err := decodeAndValidate(w, r, h.validator, &req); err != nil {
		writeAppError(w, r, err)
		return
	}
	e, err := h.svc.CreateCatalogEntry(r.Context(), actor, &req)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

func (h *CatalogHandler) GetCatalogEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	e, err := h.svc.GetCatalogEntry(r.Context(), id)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// DeleteCatalogEntry godoc
// @Tags Equipment
// @Summary Delete a catalog entry (creator only, no instances left)
// @Security BearerAuth
// @Produce json
// @Param id path string true "Catalog entry ID"
// @Success 200 {object} map[string]string
// @Failure 409 {object} map[string]interface{}
// @Router /api/v1/equipment/catalog/{id} [delete]
func (h *CatalogHandler) DeleteCatalogEntry(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteCatalogEntry(r.Context(), actor, id); err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "catalog entry deleted successfully", "id": id})
}
