package models

import "time"

type Vendor struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type EquipmentCatalogEntry struct {
	ID            string    `json:"id"`
	VendorID      *string   `json:"vendor_id"`
	Name          string    `json:"name"`
	Category      string    `json:"category"`
	Manufacturer  string    `json:"manufacturer"`
	Model         string    `json:"model"`
	Description   string    `json:"description"`
	WidthM        *float64  `json:"width_m"`
	DepthM        *float64  `json:"depth_m"`
	HeightM       *float64  `json:"height_m"`
	WeightKg      *float64  `json:"weight_kg"`
	PowerWatts    *float64  `json:"power_watts"`
	RequiresPower bool      `json:"requires_power"`
	DailyRate     *float64  `json:"daily_rate"`
	WeeklyRate    *float64  `json:"weekly_rate"`
	SymbolShape   string    `json:"symbol_shape"`
	SymbolColor   string    `json:"symbol_color"`
	SymbolSize    int       `json:"symbol_size"`
	SymbolIcon    string    `json:"symbol_icon"`
	CreatedBy     string    `json:"created_by"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

const (
	DefaultSymbolShape = "square"
	DefaultSymbolColor = "#6b7280"
	DefaultSymbolSize  = 40
)

type CreateCatalogEntryRequest struct {
	VendorID      *string  `json:"vendor_id,omitempty" validate:"omitempty,uuid"`
	Name          string   `json:"name" validate:"required,min=1,max=200"`
	Category      string   `json:"category" validate:"required,oneof=sound lighting staging power rigging video furniture tent catering sanitation security signage vehicle other"`
	Manufacturer  string   `json:"manufacturer" validate:"max=200"`
	Model         string   `json:"model" validate:"max=200"`
	Description   string   `json:"description" validate:"max=2000"`
	WidthM        *float64 `json:"width_m,omitempty" validate:"omitempty,gt=0"`
	DepthM        *float64 `json:"depth_m,omitempty" validate:"omitempty,gt=0"`
	HeightM       *float64 `json:"height_m,omitempty" validate:"omitempty,gt=0"`
	WeightKg      *float64 `json:"weight_kg,omitempty" validate:"omitempty,gt=0"`
	PowerWatts    *float64 `json:"power_watts,omitempty" validate:"omitempty,gt=0"`
	RequiresPower bool     `json:"requires_power"`
	DailyRate     *float64 `json:"daily_rate,omitempty" validate:"omitempty,gte=0"`
	WeeklyRate    *float64 `json:"weekly_rate,omitempty" validate:"omitempty,gte=0"`
	SymbolShape   string   `json:"symbol_shape" validate:"omitempty,oneof=circle square rectangle triangle diamond hexagon star"`
	SymbolColor   string   `json:"symbol_color" validate:"omitempty,hexcolor"`
	SymbolSize    *int     `json:"symbol_size,omitempty" validate:"omitempty,min=10,max=200"`
	SymbolIcon    string   `json:"symbol_icon" validate:"max=100"`
}

type CatalogFilter struct {
	Category string
	VendorID string
	Search   string
	Limit    int
	Offset   int
}

type InstanceStatus string

const (
	InstanceAvailable   InstanceStatus = "available"
	InstanceInUse       InstanceStatus = "in_use"
	InstanceMaintenance InstanceStatus = "maintenance"
)

type EquipmentInstance struct {
	ID           string         `json:"id"`
	CatalogID    string         `json:"catalog_id"`
	CatalogName  string         `json:"catalog_name,omitempty"`
	VendorID     string         `json:"vendor_id"`
	SerialNumber string         `json:"serial_number"`
	AssetTag     string         `json:"asset_tag"`
	Status       InstanceStatus `json:"status"`
	AssignedTo   *string        `json:"assigned_to"`
	Location     string         `json:"location"`
	Notes        string         `json:"notes"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

type CreateInstanceRequest struct {
	CatalogID    string  `json:"catalog_id" validate:"required,uuid"`
	SerialNumber string  `json:"serial_number" validate:"max=100"`
	AssetTag     string  `json:"asset_tag" validate:"max=100"`
	Status       string  `json:"status" validate:"omitempty,oneof=available in_use maintenance"`
	AssignedTo   *string `json:"assigned_to,omitempty" validate:"omitempty,max=200"`
	Location     string  `json:"location" validate:"max=200"`
	Notes        string  `json:"notes" validate:"max=2000"`
}

// BulkUpdateInstancesRequest applies the same change to every id.
type BulkUpdateInstancesRequest struct {
	IDs        []string `json:"ids" validate:"required,min=1,max=500,dive,uuid"`
	Status     *string  `json:"status,omitempty" validate:"omitempty,oneof=available in_use maintenance"`
	AssignedTo *string  `json:"assigned_to,omitempty" validate:"omitempty,max=200"`
	Location   *string  `json:"location,omitempty" validate:"omitempty,max=200"`
}

type InstanceFilter struct {
	VendorID  string
	Status    string
	CatalogID string
}

type InventoryStats struct {
	Total              int `json:"total"`
	Available          int `json:"available"`
	InUse              int `json:"in_use"`
	Maintenance        int `json:"maintenance"`
	UtilizationPercent int `json:"utilization_percent"`
}

type InventoryAction string

const (
	ActionCreateEquipment InventoryAction = "create_equipment"
	ActionBulkUpdate      InventoryAction = "bulk_update"
	ActionExportInventory InventoryAction = "export_inventory"
)
