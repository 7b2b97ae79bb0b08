package services

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"tourify/internal/models"
)

type equipmentFixture struct {
	svc       *EquipmentService
	catalog   *fakeCatalog
	inventory *fakeInventory
	cache     *memoryCatalogCache
	store     *capturingStore
}

func newEquipmentFixture(withStore bool) *equipmentFixture {
	f := &equipmentFixture{
		catalog: &fakeCatalog{
			items: map[string]*models.EquipmentCatalogEntry{
				"c1": {ID: "c1", Name: "Line array", Category: "sound", CreatedBy: "u1"},
			},
			instances: map[string]int64{},
		},
		inventory: &fakeInventory{vendors: map[string]*models.Vendor{
			"u1": {ID: "v1", OwnerID: "u1", Name: "Loud Co"},
		}},
		cache: &memoryCatalogCache{lists: map[string][]*models.EquipmentCatalogEntry{}},
	}
	var store ObjectStore
	if withStore {
		f.store = &capturingStore{}
		store = f.store
	}
	f.svc = NewEquipmentService(f.catalog, f.inventory, f.cache, store, nil)
	f.svc.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return f
}

func TestComputeInventoryStats(t *testing.T) {
	mk := func(statuses ...models.InstanceStatus) []*models.EquipmentInstance {
		out := make([]*models.EquipmentInstance, 0, len(statuses))
		for _, s := range statuses {
			out = append(out, &models.EquipmentInstance{Status: s})
		}
		return out
	}

	tests := []struct {
		name  string
		items []*models.EquipmentInstance
		want  models.InventoryStats
	}{
		{"empty", nil, models.InventoryStats{}},
		{"three of four in use", mk(models.InstanceInUse, models.InstanceInUse, models.InstanceInUse, models.InstanceAvailable),
			models.InventoryStats{Total: 4, Available: 1, InUse: 3, UtilizationPercent: 75}},
		{"rounds", mk(models.InstanceInUse, models.InstanceAvailable, models.InstanceMaintenance),
			models.InventoryStats{Total: 3, Available: 1, InUse: 1, Maintenance: 1, UtilizationPercent: 33}},
		{"two thirds rounds up", mk(models.InstanceInUse, models.InstanceInUse, models.InstanceMaintenance),
			models.InventoryStats{Total: 3, InUse: 2, Maintenance: 1, UtilizationPercent: 67}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ComputeInventoryStats(tt.items); got != tt.want {
				t.Fatalf("got %+v want %+v", got, tt.want)
			}
		})
	}
}

func TestCreateCatalogEntryDefaults(t *testing.T) {
	f := newEquipmentFixture(false)
	e, err := f.svc.CreateCatalogEntry(context.Background(), "u2", &models.CreateCatalogEntryRequest{Name: "Par can", Category: "lighting"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if e.SymbolShape != "square" || e.SymbolColor != "#6b7280" || e.SymbolSize != 40 {
		t.Fatalf("expected symbol defaults, got %s %s %d", e.SymbolShape, e.SymbolColor, e.SymbolSize)
	}
	if f.cache.invalidated != 1 {
		t.Fatalf("expected cache invalidation")
	}
}

func TestCreateCatalogEntryForeignVendor(t *testing.T) {
	f := newEquipmentFixture(false)
	_, err := f.svc.CreateCatalogEntry(context.Background(), "u1", &models.CreateCatalogEntryRequest{
		Name: "Truss", Category: "rigging", VendorID: strPtr("someone-else"),
	})
	requireAppError(t, err, http.StatusForbidden, "forbidden")

	if _, err := f.svc.CreateCatalogEntry(context.Background(), "u1", &models.CreateCatalogEntryRequest{
		Name: "Truss", Category: "rigging", VendorID: strPtr("v1"),
	}); err != nil {
		t.Fatalf("own vendor should be allowed: %v", err)
	}
}

func TestListCatalogUsesCache(t *testing.T) {
	f := newEquipmentFixture(false)
	ctx := context.Background()
	filter := models.CatalogFilter{Category: "sound"}

	for i := 0; i < 3; i++ {
		items, err := f.svc.ListCatalog(ctx, filter)
		if err != nil || len(items) != 1 {
			t.Fatalf("list: %v %v", items, err)
		}
	}
	if f.catalog.listCalls != 1 {
		t.Fatalf("expected 1 store call, got %d", f.catalog.listCalls)
	}
}

func TestDeleteCatalogEntry(t *testing.T) {
	f := newEquipmentFixture(false)
	ctx := context.Background()

	err := f.svc.DeleteCatalogEntry(ctx, "u2", "c1")
	requireAppError(t, err, http.StatusForbidden, "forbidden")

	f.catalog.instances["c1"] = 2
	err = f.svc.DeleteCatalogEntry(ctx, "u1", "c1")
	appErr := requireAppError(t, err, http.StatusConflict, "deletion_blocked")
	refs, ok := appErr.Conflicts.(map[string]int64)
	if !ok || refs["equipment_instances"] != 2 {
		t.Fatalf("expected reference counts, got %#v", appErr.Conflicts)
	}

	f.catalog.instances["c1"] = 0
	if err := f.svc.DeleteCatalogEntry(ctx, "u1", "c1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	err = f.svc.DeleteCatalogEntry(ctx, "u1", "c1")
	requireAppError(t, err, http.StatusNotFound, "catalog_entry_not_found")
}

func TestInventoryRequiresVendor(t *testing.T) {
	f := newEquipmentFixture(false)
	_, err := f.svc.GetInventory(context.Background(), "nobody", models.InstanceFilter{})
	requireAppError(t, err, http.StatusNotFound, "vendor_not_found")
}

func TestCreateInstanceAndStats(t *testing.T) {
	f := newEquipmentFixture(false)
	ctx := context.Background()

	_, err := f.svc.CreateInstance(ctx, "u1", &models.CreateInstanceRequest{CatalogID: "missing"})
	requireAppError(t, err, http.StatusBadRequest, "invalid_catalog_id")

	if _, err := f.svc.CreateInstance(ctx, "u1", &models.CreateInstanceRequest{CatalogID: "c1", Status: "in_use"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := f.svc.CreateInstance(ctx, "u1", &models.CreateInstanceRequest{CatalogID: "c1"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	inv, err := f.svc.GetInventory(ctx, "u1", models.InstanceFilter{})
	if err != nil {
		t.Fatalf("inventory: %v", err)
	}
	if inv.Stats.Total != 2 || inv.Stats.InUse != 1 || inv.Stats.UtilizationPercent != 50 {
		t.Fatalf("unexpected stats %+v", inv.Stats)
	}
	if inv.Items[0].CatalogName != "Line array" {
		t.Fatalf("expected catalog name, got %q", inv.Items[0].CatalogName)
	}
}

func TestBulkUpdateRequiresAField(t *testing.T) {
	f := newEquipmentFixture(false)
	_, err := f.svc.BulkUpdateInstances(context.Background(), "u1", &models.BulkUpdateInstancesRequest{IDs: []string{"i1"}})
	requireAppError(t, err, http.StatusBadRequest, "validation_error")
	if f.inventory.bulkCalls != 0 {
		t.Fatalf("store should not be called")
	}

	n, err := f.svc.BulkUpdateInstances(context.Background(), "u1", &models.BulkUpdateInstancesRequest{
		IDs: []string{"i1", "i2"}, Status: strPtr("maintenance"),
	})
	if err != nil || n != 2 {
		t.Fatalf("bulk update: %d %v", n, err)
	}
}

func TestExportInventory(t *testing.T) {
	f := newEquipmentFixture(true)
	ctx := context.Background()
	_, _ = f.svc.CreateInstance(ctx, "u1", &models.CreateInstanceRequest{CatalogID: "c1", SerialNumber: "SN-1"})

	out, err := f.svc.ExportInventory(ctx, "u1")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if f.store.key != "exports/inventory/v1/20260301T120000Z.csv" {
		t.Fatalf("unexpected key %q", f.store.key)
	}
	if !strings.HasSuffix(out.URL, f.store.key) || out.Rows != 1 {
		t.Fatalf("unexpected export %+v", out)
	}
	lines := strings.Split(strings.TrimSpace(string(f.store.body)), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[0], "id,catalog_id,catalog_name") || !strings.Contains(lines[1], "SN-1") {
		t.Fatalf("unexpected csv:\n%s", f.store.body)
	}
}

func TestExportInventoryInlineWithoutStore(t *testing.T) {
	f := newEquipmentFixture(false)
	out, err := f.svc.ExportInventory(context.Background(), "u1")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if out.URL != "" || len(out.Content) == 0 {
		t.Fatalf("expected inline content, got %+v", out)
	}
}
