package services

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"tourify/internal/apperr"
	"tourify/internal/interfaces"
	"tourify/internal/models"
)

// CatalogCache caches catalog list results per filter. Implementations must
// treat backend failures as misses.
type CatalogCache interface {
	GetList(ctx context.Context, filter models.CatalogFilter) ([]*models.EquipmentCatalogEntry, bool)
	SetList(ctx context.Context, filter models.CatalogFilter, entries []*models.EquipmentCatalogEntry)
	Invalidate(ctx context.Context)
}

// ObjectStore uploads a blob and returns its public URL.
type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, body io.Reader) (string, error)
}

type EquipmentService struct {
	catalog   interfaces.CatalogRepository
	inventory interfaces.InventoryRepository
	cache     CatalogCache
	store     ObjectStore
	activity  ActivityRecorder
	now       func() time.Time
}

// NewEquipmentService accepts a nil cache or store; both features are then
// skipped.
func NewEquipmentService(catalog interfaces.CatalogRepository, inventory interfaces.InventoryRepository, cache CatalogCache, store ObjectStore, activity ActivityRecorder) *EquipmentService {
	return &EquipmentService{
		catalog:   catalog,
		inventory: inventory,
		cache:     cache,
		store:     store,
		activity:  recorderOrNoop(activity),
		now:       time.Now,
	}
}

// ComputeInventoryStats counts instances by status. Utilization is the
// rounded in-use share of the total, and 0 for an empty inventory.
func ComputeInventoryStats(instances []*models.EquipmentInstance) models.InventoryStats {
	var stats models.InventoryStats
	for _, i := range instances {
		stats.Total++
		switch i.Status {
		case models.InstanceAvailable:
			stats.Available++
		case models.InstanceInUse:
			stats.InUse++
		case models.InstanceMaintenance:
			stats.Maintenance++
		}
	}
	if stats.Total > 0 {
		stats.UtilizationPercent = int(math.Round(float64(stats.InUse) * 100 / float64(stats.Total)))
	}
	return stats
}

// Catalog

func (s *EquipmentService) CreateCatalogEntry(ctx context.Context, actorID string, req *models.CreateCatalogEntryRequest) (*models.EquipmentCatalogEntry, error) {
	if req.VendorID != nil && *req.VendorID != "" {
		vendor, err := s.inventory.VendorByOwner(ctx, actorID)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.Dependency("resolve vendor", err)
		}
		if vendor == nil || vendor.ID != *req.VendorID {
			return nil, apperr.Forbidden("You can only add catalog entries for your own vendor")
		}
	}

	e := &models.EquipmentCatalogEntry{
		ID:            uuid.NewString(),
		VendorID:      req.VendorID,
		Name:          req.Name,
		Category:      req.Category,
		Manufacturer:  req.Manufacturer,
		Model:         req.Model,
		Description:   req.Description,
		WidthM:        req.WidthM,
		DepthM:        req.DepthM,
		HeightM:       req.HeightM,
		WeightKg:      req.WeightKg,
		PowerWatts:    req.PowerWatts,
		RequiresPower: req.RequiresPower,
		DailyRate:     req.DailyRate,
		WeeklyRate:    req.WeeklyRate,
		SymbolShape:   models.DefaultSymbolShape,
		SymbolColor:   models.DefaultSymbolColor,
		SymbolSize:    models.DefaultSymbolSize,
		SymbolIcon:    req.SymbolIcon,
		CreatedBy:     actorID,
	}
	if req.SymbolShape != "" {
		e.SymbolShape = req.SymbolShape
	}
	if req.SymbolColor != "" {
		e.SymbolColor = req.SymbolColor
	}
	if req.SymbolSize != nil {
		e.SymbolSize = *req.SymbolSize
	}

	if err := s.catalog.Create(ctx, e); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return nil, apperr.Validation("invalid_vendor_id", "Vendor not found")
		}
		return nil, apperr.Dependency("create catalog entry", err)
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
	s.activity.Record(newActivity(actorID, "create", "equipment_catalog", e.ID, "equipment_catalog", e.ID, nil, e))
	return e, nil
}

func (s *EquipmentService) ListCatalog(ctx context.Context, filter models.CatalogFilter) ([]*models.EquipmentCatalogEntry, error) {
	if s.cache != nil {
		if entries, ok := s.cache.GetList(ctx, filter); ok {
			return entries, nil
		}
	}

	entries, err := s.catalog.List(ctx, filter)
	if err != nil {
		return nil, apperr.Dependency("list catalog", err)
	}

	if s.cache != nil {
		s.cache.SetList(ctx, filter, entries)
	}
	return entries, nil
}

func (s *EquipmentService) GetCatalogEntry(ctx context.Context, id string) (*models.EquipmentCatalogEntry, error) {
	e, err := s.catalog.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "catalog_entry", "load catalog entry")
	}
	return e, nil
}

func (s *EquipmentService) DeleteCatalogEntry(ctx context.Context, actorID, id string) error {
	e, err := s.catalog.GetByID(ctx, id)
	if err != nil {
		return notFoundOr(err, "catalog_entry", "load catalog entry")
	}
	if e.CreatedBy != actorID {
		return apperr.Forbidden("Only the creator can delete a catalog entry")
	}

	n, err := s.catalog.CountInstances(ctx, id)
	if err != nil {
		return apperr.Dependency("delete catalog entry", err)
	}
	if n > 0 {
		blocked := &interfaces.DeletionBlockedError{
			Resource:   "catalog_entry",
			References: map[string]int64{"equipment_instances": n},
		}
		conflict := apperr.Conflict("deletion_blocked", "Catalog entry still has equipment instances").WithConflicts(blocked.References)
		conflict.Cause = blocked
		return conflict
	}

	if err := s.catalog.Delete(ctx, id); err != nil {
		return notFoundOr(err, "catalog_entry", "delete catalog entry")
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
	s.activity.Record(newActivity(actorID, "delete", "equipment_catalog", id, "equipment_catalog", id, e, nil))
	return nil
}

// Inventory

func (s *EquipmentService) vendorFor(ctx context.Context, actorID string) (*models.Vendor, error) {
	v, err := s.inventory.VendorByOwner(ctx, actorID)
	if err != nil {
		return nil, notFoundOr(err, "vendor", "resolve vendor")
	}
	return v, nil
}

type Inventory struct {
	Vendor *models.Vendor              `json:"vendor"`
	Items  []*models.EquipmentInstance `json:"items"`
	Stats  models.InventoryStats       `json:"stats"`
}

func (s *EquipmentService) GetInventory(ctx context.Context, actorID string, filter models.InstanceFilter) (*Inventory, error) {
	vendor, err := s.vendorFor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	filter.VendorID = vendor.ID

	items, err := s.inventory.ListInstances(ctx, filter)
	if err != nil {
		return nil, apperr.Dependency("list inventory", err)
	}
	return &Inventory{Vendor: vendor, Items: items, Stats: ComputeInventoryStats(items)}, nil
}

func (s *EquipmentService) CreateInstance(ctx context.Context, actorID string, req *models.CreateInstanceRequest) (*models.EquipmentInstance, error) {
	vendor, err := s.vendorFor(ctx, actorID)
	if err != nil {
		return nil, err
	}

	entry, err := s.catalog.GetByID(ctx, req.CatalogID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.Validation("invalid_catalog_id", "Catalog entry not found")
		}
		return nil, apperr.Dependency("load catalog entry", err)
	}

	i := &models.EquipmentInstance{
		ID:           uuid.NewString(),
		CatalogID:    entry.ID,
		CatalogName:  entry.Name,
		VendorID:     vendor.ID,
		SerialNumber: req.SerialNumber,
		AssetTag:     req.AssetTag,
		Status:       models.InstanceAvailable,
		AssignedTo:   req.AssignedTo,
		Location:     req.Location,
		Notes:        req.Notes,
	}
	if req.Status != "" {
		i.Status = models.InstanceStatus(req.Status)
	}

	if err := s.inventory.CreateInstance(ctx, i); err != nil {
		return nil, apperr.Dependency("create equipment", err)
	}
	s.activity.Record(newActivity(actorID, "create", "equipment_instance", i.ID, "vendor", vendor.ID, nil, i))
	return i, nil
}

func (s *EquipmentService) BulkUpdateInstances(ctx context.Context, actorID string, req *models.BulkUpdateInstancesRequest) (int64, error) {
	if req.Status == nil && req.AssignedTo == nil && req.Location == nil {
		return 0, apperr.Validation("validation_error", "Nothing to update",
			apperr.FieldError{Field: "status", Tag: "required_without_all", Message: "one of status, assigned_to or location is required"})
	}

	vendor, err := s.vendorFor(ctx, actorID)
	if err != nil {
		return 0, err
	}

	n, err := s.inventory.BulkUpdate(ctx, vendor.ID, req)
	if err != nil {
		return 0, apperr.Dependency("update equipment", err)
	}
	s.activity.Record(newActivity(actorID, "bulk_update", "equipment_instance", vendor.ID, "vendor", vendor.ID, nil, req))
	return n, nil
}

type InventoryExport struct {
	Filename string `json:"filename"`
	URL      string `json:"url,omitempty"`
	Rows     int    `json:"rows"`
	Content  []byte `json:"-"`
}

// ExportInventory renders the vendor's inventory as CSV. With an object
// store configured the file is uploaded and URL is set; otherwise Content
// carries the CSV.
func (s *EquipmentService) ExportInventory(ctx context.Context, actorID string) (*InventoryExport, error) {
	vendor, err := s.vendorFor(ctx, actorID)
	if err != nil {
		return nil, err
	}

	items, err := s.inventory.ListInstances(ctx, models.InstanceFilter{VendorID: vendor.ID})
	if err != nil {
		return nil, apperr.Dependency("export inventory", err)
	}

	content, err := RenderInventoryCSV(items)
	if err != nil {
		return nil, apperr.Dependency("export inventory", err)
	}

	ts := s.now().UTC().Format("20060102T150405Z")
	out := &InventoryExport{
		Filename: fmt.Sprintf("inventory-%s.csv", ts),
		Rows:     len(items),
		Content:  content,
	}

	if s.store != nil {
		key := fmt.Sprintf("exports/inventory/%s/%s.csv", vendor.ID, ts)
		url, err := s.store.Put(ctx, key, "text/csv", bytes.NewReader(content))
		if err != nil {
			log.Printf("[equipment] export upload failed vendor=%s: %v", vendor.ID, err)
			return nil, apperr.Dependency("upload inventory export", err)
		}
		out.URL = url
	}

	s.activity.Record(newActivity(actorID, "export", "equipment_instance", vendor.ID, "vendor", vendor.ID, nil, map[string]any{"rows": out.Rows}))
	return out, nil
}

var inventoryCSVHeader = []string{"id", "catalog_id", "catalog_name", "serial_number", "asset_tag", "status", "assigned_to", "location", "notes", "updated_at"}

func RenderInventoryCSV(items []*models.EquipmentInstance) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(inventoryCSVHeader); err != nil {
		return nil, err
	}
	for _, i := range items {
		assigned := ""
		if i.AssignedTo != nil {
			assigned = *i.AssignedTo
		}
		record := []string{
			i.ID, i.CatalogID, i.CatalogName, i.SerialNumber, i.AssetTag, string(i.Status),
			assigned, i.Location, i.Notes, i.UpdatedAt.UTC().Format(time.RFC3339),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
