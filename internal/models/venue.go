package models

import "time"

type VenueRole string

const (
	VenueRoleOwner  VenueRole = "owner"
	VenueRoleAdmin  VenueRole = "admin"
	VenueRoleEditor VenueRole = "editor"
	VenueRoleViewer VenueRole = "viewer"
)

type Venue struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	OwnerID   string    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Permission is what a caller asks the gate for on an entity.
type Permission string

const (
	PermissionRead  Permission = "read"
	PermissionWrite Permission = "write"
	PermissionAdmin Permission = "admin"
)

type EntityType string

const (
	EntityVenue   EntityType = "venue"
	EntitySiteMap EntityType = "site_map"
)

// Grants reports whether a member role carries perm.
func (r VenueRole) Grants(perm Permission) bool {
	switch r {
	case VenueRoleOwner, VenueRoleAdmin:
		return perm == PermissionRead || perm == PermissionWrite || perm == PermissionAdmin
	case VenueRoleEditor:
		return perm == PermissionRead || perm == PermissionWrite
	case VenueRoleViewer:
		return perm == PermissionRead
	}
	return false
}
