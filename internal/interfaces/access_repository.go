package interfaces

import (
	"context"

	"tourify/internal/models"
)

// AccessRepository resolves the caller's role on the venue that owns an
// entity. An empty role with a nil error means "no relationship".
type AccessRepository interface {
	RoleForEntity(ctx context.Context, entityType models.EntityType, entityID, userID string) (models.VenueRole, error)
}
