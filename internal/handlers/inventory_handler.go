package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"tourify/internal/apperr"
	"tourify/internal/models"
	"tourify/internal/services"
)

type InventoryHandler struct {
	svc       *services.EquipmentService
	validator *validator.Validate
}

func NewInventoryHandler(svc *services.EquipmentService) *InventoryHandler {
	return &InventoryHandler{svc: svc, validator: newValidator()}
}

type inventoryActionRequest struct {
	Action models.InventoryAction `json:"action" validate:"required"`
	Data   json.RawMessage        `json:"data"`
}

// GetInventory godoc
// @Tags Inventory
// @Summary The caller's vendor inventory with statistics
// @Security BearerAuth
// @Produce json
// @Param status query string false "available, in_use or maintenance"
// @Param catalog_id query string false "Catalog entry ID"
// @Success 200 {object} services.Inventory
// @Failure 404 {object} map[string]interface{} "caller has no vendor"
// @Router /api/v1/vendor/inventory [get]
func (h *InventoryHandler) GetInventory(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}
	catalogID, ok := uuidQuery(w, r, "catalog_id")
	if !ok {
		return
	}
	inv, err := h.svc.GetInventory(r.Context(), actor, models.InstanceFilter{
		Status:    r.URL.Query().Get("status"),
		CatalogID: catalogID,
	})
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	inv.Items = nonNil(inv.Items)
	writeJSON(w, http.StatusOK, inv)
}

// PostInventoryAction godoc
// @Tags Inventory
// @Summary Run an inventory action: create_equipment, bulk_update or export_inventory
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body inventoryActionRequest true "Action and its data"
// @Success 200 {object} map[string]interface{}
// @Success 201 {object} models.EquipmentInstance
// @Failure 400 {object} map[string]interface{}
// @Router /api/v1/vendor/inventory [post]
func (h *InventoryHandler) PostInventoryAction(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}
	var req inventoryActionRequest
	if err := decodeAndValidate(w, r, h.validator, &req); err != nil {
		writeAppError(w, r, err)
		return
	}

	switch req.Action {
	case models.ActionCreateEquipment:
		var data models.CreateInstanceRequest
		if err := h.decodeData(req.Data, &data); err != nil {
			writeAppError(w, r, err)
			return
		}
		instance, err := h.svc.CreateInstance(r.Context(), actor, &data)
		if err != nil {
			writeAppError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, instance)

	case models.ActionBulkUpdate:
		var data models.BulkUpdateInstancesRequest
		if err := h.decodeData(req.Data, &data); err != nil {
			writeAppError(w, r, err)
			return
		}
		n, err := h.svc.BulkUpdateInstances(r.Context(), actor, &data)
		if err != nil {
			writeAppError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"updated": n})

	case models.ActionExportInventory:
		out, err := h.svc.ExportInventory(r.Context(), actor)
		if err != nil {
			writeAppError(w, r, err)
			return
		}
		if out.URL != "" {
			writeJSON(w, http.StatusOK, out)
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="`+out.Filename+`"`)
		w.Header().Set("Content-Length", strconv.Itoa(len(out.Content)))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(out.Content)

	default:
		writeJSONErrorResponse(w, http.StatusBadRequest, "invalid_action", "Unknown action: "+string(req.Action))
	}
}

func (h *InventoryHandler) decodeData(raw json.RawMessage, dst any) error {
	if len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return apperr.Validation("validation_error", "data is required",
			apperr.FieldError{Field: "data", Tag: "required", Message: "is required"})
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return apperr.Validation("invalid_json", "Invalid data: "+err.Error())
	}
	return validateStruct(h.validator, dst)
}
