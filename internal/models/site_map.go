package models

import (
	"database/sql/driver"
	"time"
)

type SiteMap struct {
	ID              string    `json:"id"`
	VenueID         string    `json:"venue_id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	Width           float64   `json:"width"`
	Height          float64   `json:"height"`
	BackgroundColor string    `json:"background_color"`
	CreatedBy       string    `json:"created_by"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type CreateSiteMapRequest struct {
	VenueID         string   `json:"venue_id" validate:"required,uuid"`
	Name            string   `json:"name" validate:"required,min=1,max=200"`
	Description     string   `json:"description" validate:"max=2000"`
	Width           *float64 `json:"width,omitempty" validate:"omitempty,gt=0"`
	Height          *float64 `json:"height,omitempty" validate:"omitempty,gt=0"`
	BackgroundColor string   `json:"background_color" validate:"omitempty,hexcolor"`
}

type UpdateSiteMapRequest struct {
	Name            *string  `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Description     *string  `json:"description,omitempty" validate:"omitempty,max=2000"`
	Width           *float64 `json:"width,omitempty" validate:"omitempty,gt=0"`
	Height          *float64 `json:"height,omitempty" validate:"omitempty,gt=0"`
	BackgroundColor *string  `json:"background_color,omitempty" validate:"omitempty,hexcolor"`
}

type Layer struct {
	ID        string    `json:"id"`
	SiteMapID string    `json:"site_map_id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	ZIndex    int       `json:"z_index"`
	IsVisible bool      `json:"is_visible"`
	IsLocked  bool      `json:"is_locked"`
	Opacity   float64   `json:"opacity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateLayerRequest struct {
	Name      string   `json:"name" validate:"required,min=1,max=100"`
	Color     string   `json:"color" validate:"omitempty,hexcolor"`
	ZIndex    int      `json:"z_index"`
	IsVisible *bool    `json:"is_visible,omitempty"`
	IsLocked  bool     `json:"is_locked"`
	Opacity   *float64 `json:"opacity,omitempty" validate:"omitempty,gte=0,lte=1"`
}

type UpdateLayerRequest struct {
	Name      *string  `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Color     *string  `json:"color,omitempty" validate:"omitempty,hexcolor"`
	ZIndex    *int     `json:"z_index,omitempty"`
	IsVisible *bool    `json:"is_visible,omitempty"`
	IsLocked  *bool    `json:"is_locked,omitempty"`
	Opacity   *float64 `json:"opacity,omitempty" validate:"omitempty,gte=0,lte=1"`
}

// ElementProperties is the typed replacement for the element "properties"
// bag. Unset fields are omitted so a value can double as a sparse patch.
type ElementProperties struct {
	Visible     *bool    `json:"visible,omitempty"`
	Locked      *bool    `json:"locked,omitempty"`
	Scale       *float64 `json:"scale,omitempty" validate:"omitempty,gt=0,lte=100"`
	Opacity     *float64 `json:"opacity,omitempty" validate:"omitempty,gte=0,lte=1"`
	Label       *string  `json:"label,omitempty" validate:"omitempty,max=200"`
	FontSize    *int     `json:"font_size,omitempty" validate:"omitempty,min=1,max=400"`
	Icon        *string  `json:"icon,omitempty" validate:"omitempty,max=100"`
	Notes       *string  `json:"notes,omitempty" validate:"omitempty,max=2000"`
	EquipmentID *string  `json:"equipment_id,omitempty" validate:"omitempty,uuid"`
}

func (p ElementProperties) Value() (driver.Value, error) { return jsonbValue(p) }
func (p *ElementProperties) Scan(src any) error { return jsonbScan(src, p) }

// Merge returns p with every field set in patch overwritten. It is the
// in-memory form of the element store's `properties || patch::jsonb` update,
// which works because unset fields are omitted from the patch JSON.
func (p ElementProperties) Merge(patch ElementProperties) ElementProperties {
	out := p
	if patch.Visible != nil {
		out.Visible = patch.Visible
	}
	if patch.Locked != nil {
		out.Locked = patch.Locked
	}
	if patch.Scale != nil {
		out.Scale = patch.Scale
	}
	if patch.Opacity != nil {
		out.Opacity = patch.Opacity
	}
	if patch.Label != nil {
		out.Label = patch.Label
	}
	if patch.FontSize != nil {
		out.FontSize = patch.FontSize
	}
	if patch.Icon != nil {
		out.Icon = patch.Icon
	}
	if patch.Notes != nil {
		out.Notes = patch.Notes
	}
	if patch.EquipmentID != nil {
		out.EquipmentID = patch.EquipmentID
	}
	return out
}

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type ElementPath []Point

func (p ElementPath) Value() (driver.Value, error) {
	if p == nil {
		return "[]", nil
	}
	return jsonbValue(p)
}
func (p *ElementPath) Scan(src any) error { return jsonbScan(src, p) }

type Element struct {
	ID          string            `json:"id"`
	SiteMapID   string            `json:"site_map_id"`
	LayerID     *string           `json:"layer_id"`
	ElementType string            `json:"element_type"`
	Name        string            `json:"name"`
	X           float64           `json:"x"`
	Y           float64           `json:"y"`
	Width       float64           `json:"width"`
	Height      float64           `json:"height"`
	Rotation    float64           `json:"rotation"`
	FillColor   string            `json:"fill_color"`
	StrokeColor string            `json:"stroke_color"`
	StrokeWidth float64           `json:"stroke_width"`
	Properties  ElementProperties `json:"properties"`
	Path        ElementPath       `json:"path"`
	CreatedBy   string            `json:"created_by"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

type CreateElementRequest struct {
	LayerID     *string           `json:"layer_id,omitempty" validate:"omitempty,uuid"`
	ElementType string            `json:"element_type" validate:"required,max=50"`
	Name        string            `json:"name" validate:"max=200"`
	X           float64           `json:"x"`
	Y           float64           `json:"y"`
	Width       float64           `json:"width" validate:"gte=0"`
	Height      float64           `json:"height" validate:"gte=0"`
	Rotation    float64           `json:"rotation" validate:"gte=-360,lte=360"`
	FillColor   string            `json:"fill_color" validate:"omitempty,hexcolor"`
	StrokeColor string            `json:"stroke_color" validate:"omitempty,hexcolor"`
	StrokeWidth *float64          `json:"stroke_width,omitempty" validate:"omitempty,gte=0"`
	Properties  ElementProperties `json:"properties"`
	Path        ElementPath       `json:"path" validate:"omitempty,max=5000"`
}

// UpdateElementRequest is a sparse patch. Properties are merged key by key
// into the stored bag.
type UpdateElementRequest struct {
	LayerID     *string            `json:"layer_id,omitempty" validate:"omitempty,uuid"`
	ElementType *string            `json:"element_type,omitempty" validate:"omitempty,max=50"`
	Name        *string            `json:"name,omitempty" validate:"omitempty,max=200"`
	X           *float64           `json:"x,omitempty"`
	Y           *float64           `json:"y,omitempty"`
	Width       *float64           `json:"width,omitempty" validate:"omitempty,gte=0"`
	Height      *float64           `json:"height,omitempty" validate:"omitempty,gte=0"`
	Rotation    *float64           `json:"rotation,omitempty" validate:"omitempty,gte=-360,lte=360"`
	FillColor   *string            `json:"fill_color,omitempty" validate:"omitempty,hexcolor"`
	StrokeColor *string            `json:"stroke_color,omitempty" validate:"omitempty,hexcolor"`
	StrokeWidth *float64           `json:"stroke_width,omitempty" validate:"omitempty,gte=0"`
	Properties  *ElementProperties `json:"properties,omitempty"`
	Path        *ElementPath       `json:"path,omitempty"`
}

type Zone struct {
	ID        string    `json:"id"`
	SiteMapID string    `json:"site_map_id"`
	Name      string    `json:"name"`
	ZoneType  string    `json:"zone_type"`
	Color     string    `json:"color"`
	Capacity  *int      `json:"capacity"`
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	Width     float64   `json:"width"`
	Height    float64   `json:"height"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateZoneRequest struct {
	Name     string  `json:"name" validate:"required,min=1,max=100"`
	ZoneType string  `json:"zone_type" validate:"omitempty,oneof=general camping glamping parking backstage vip food vendor medical stage"`
	Color    string  `json:"color" validate:"omitempty,hexcolor"`
	Capacity *int    `json:"capacity,omitempty" validate:"omitempty,gte=0"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width" validate:"gte=0"`
	Height   float64 `json:"height" validate:"gte=0"`
}

type UpdateZoneRequest struct {
	Name     *string  `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	ZoneType *string  `json:"zone_type,omitempty" validate:"omitempty,oneof=general camping glamping parking backstage vip food vendor medical stage"`
	Color    *string  `json:"color,omitempty" validate:"omitempty,hexcolor"`
	Capacity *int     `json:"capacity,omitempty" validate:"omitempty,gte=0"`
	X        *float64 `json:"x,omitempty"`
	Y        *float64 `json:"y,omitempty"`
	Width    *float64 `json:"width,omitempty" validate:"omitempty,gte=0"`
	Height   *float64 `json:"height,omitempty" validate:"omitempty,gte=0"`
}

type TentAmenities struct {
	HasPower           bool `json:"has_power"`
	HasHeating         bool `json:"has_heating"`
	HasWifi            bool `json:"has_wifi"`
	HasPrivateBathroom bool `json:"has_private_bathroom"`
	HasFurniture       bool `json:"has_furniture"`
	Accessible         bool `json:"accessible"`
}

func (a TentAmenities) Value() (driver.Value, error) { return jsonbValue(a) }
func (a *TentAmenities) Scan(src any) error { return jsonbScan(src, a) }

type TentStatus string

const (
	TentStatusAvailable   TentStatus = "available"
	TentStatusReserved    TentStatus = "reserved"
	TentStatusOccupied    TentStatus = "occupied"
	TentStatusMaintenance TentStatus = "maintenance"
)

type Tent struct {
	ID            string        `json:"id"`
	SiteMapID     string        `json:"site_map_id"`
	ZoneID        *string       `json:"zone_id"`
	TentNumber    string        `json:"tent_number"`
	TentType      string        `json:"tent_type"`
	Capacity      int           `json:"capacity"`
	X             float64       `json:"x"`
	Y             float64       `json:"y"`
	Width         float64       `json:"width"`
	Height        float64       `json:"height"`
	Rotation      float64       `json:"rotation"`
	Amenities     TentAmenities `json:"amenities"`
	PricePerNight *float64      `json:"price_per_night"`
	Status        TentStatus    `json:"status"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

type CreateTentRequest struct {
	ZoneID        *string       `json:"zone_id,omitempty" validate:"omitempty,uuid"`
	TentNumber    string        `json:"tent_number" validate:"required,min=1,max=20"`
	TentType      string        `json:"tent_type" validate:"omitempty,oneof=standard bell safari tipi yurt dome cabin"`
	Capacity      int           `json:"capacity" validate:"omitempty,min=1,max=50"`
	X             float64       `json:"x"`
	Y             float64       `json:"y"`
	Width         float64       `json:"width" validate:"gte=0"`
	Height        float64       `json:"height" validate:"gte=0"`
	Rotation      float64       `json:"rotation" validate:"gte=-360,lte=360"`
	Amenities     TentAmenities `json:"amenities"`
	PricePerNight *float64      `json:"price_per_night,omitempty" validate:"omitempty,gte=0"`
	Status        string        `json:"status" validate:"omitempty,oneof=available reserved occupied maintenance"`
}

type UpdateTentRequest struct {
	ZoneID        *string        `json:"zone_id,omitempty" validate:"omitempty,uuid"`
	TentNumber    *string        `json:"tent_number,omitempty" validate:"omitempty,min=1,max=20"`
	TentType      *string        `json:"tent_type,omitempty" validate:"omitempty,oneof=standard bell safari tipi yurt dome cabin"`
	Capacity      *int           `json:"capacity,omitempty" validate:"omitempty,min=1,max=50"`
	X             *float64       `json:"x,omitempty"`
	Y             *float64       `json:"y,omitempty"`
	Width         *float64       `json:"width,omitempty" validate:"omitempty,gte=0"`
	Height        *float64       `json:"height,omitempty" validate:"omitempty,gte=0"`
	Rotation      *float64       `json:"rotation,omitempty" validate:"omitempty,gte=-360,lte=360"`
	Amenities     *TentAmenities `json:"amenities,omitempty"`
	PricePerNight *float64       `json:"price_per_night,omitempty" validate:"omitempty,gte=0"`
	Status        *string        `json:"status,omitempty" validate:"omitempty,oneof=available reserved occupied maintenance"`
}

type TentFilter struct {
	SiteMapID string
	ZoneID    string
	Status    string
	TentType  string
}
