package services

import (
	"context"

	"tourify/internal/interfaces"
	"tourify/internal/models"
)

// PermissionGate answers whether a user may act on an entity.
type PermissionGate interface {
	HasEntityPermission(ctx context.Context, userID string, entityType models.EntityType, entityID string, perm models.Permission) (bool, error)
}

type permissionGate struct {
	access interfaces.AccessRepository
}

func NewPermissionGate(access interfaces.AccessRepository) PermissionGate {
	return &permissionGate{access: access}
}

func (g *permissionGate) HasEntityPermission(ctx context.Context, userID string, entityType models.EntityType, entityID string, perm models.Permission) (bool, error) {
	if userID == "" || entityID == "" {
		return false, nil
	}
	role, err := g.access.RoleForEntity(ctx, entityType, entityID, userID)
	if err != nil {
		return false, err
	}
	return role.Grants(perm), nil
}
