package interfaces

import (
	"context"

	"tourify/internal/models"
)

type CatalogRepository interface {
	Create(ctx context.Context, entry *models.EquipmentCatalogEntry) error
	GetByID(ctx context.Context, id string) (*models.EquipmentCatalogEntry, error)
	List(ctx context.Context, filter models.CatalogFilter) ([]*models.EquipmentCatalogEntry, error)
	CountInstances(ctx context.Context, id string) (int64, error)
	Delete(ctx context.Context, id string) error
}

type InventoryRepository interface {
	VendorByOwner(ctx context.Context, ownerID string) (*models.Vendor, error)
	CreateInstance(ctx context.Context, instance *models.EquipmentInstance) error
	ListInstances(ctx context.Context, filter models.InstanceFilter) ([]*models.EquipmentInstance, error)
	BulkUpdate(ctx context.Context, vendorID string, req *models.BulkUpdateInstancesRequest) (int64, error)
}
