package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"tourify/internal/interfaces"
	"tourify/internal/models"
)

type accessRepository struct {
	db *sql.DB
}

func NewAccessRepository(db *sql.DB) interfaces.AccessRepository {
	return &accessRepository{db: db}
}

const roleQuery = `
	SELECT CASE WHEN v.owner_id = $2 THEN 'owner' ELSE COALESCE(m.role, '') END
	FROM venues v
	LEFT JOIN venue_members m ON m.venue_id = v.id AND m.user_id = $2
	WHERE v.id = %s
`

func (r *accessRepository) RoleForEntity(ctx context.Context, entityType models.EntityType, entityID, userID string) (models.VenueRole, error) {
	var venueExpr string
	switch entityType {
	case models.EntityVenue:
		venueExpr = "$1"
	case models.EntitySiteMap:
		venueExpr = "(SELECT venue_id FROM site_maps WHERE id = $1)"
	default:
		return "", nil
	}

	var role string
	err := r.db.QueryRowContext(ctx, fmt.Sprintf(roleQuery, venueExpr), entityID, userID).Scan(&role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("resolve role: %w", err)
	}
	return models.VenueRole(role), nil
}
