package repository

import (
	"context"
	"database/sql"
	"fmt"

	"tourify/internal/interfaces"
	"tourify/internal/models"
)

const zoneColumns = `id, site_map_id, name, zone_type, color, capacity, x, y, width, height, created_at, updated_at`

type zoneRepository struct {
	db *sql.DB
}

func NewZoneRepository(db *sql.DB) interfaces.ZoneRepository {
	return &zoneRepository{db: db}
}

func scanZone(row rowScanner) (*models.Zone, error) {
	var z models.Zone
	if err := row.Scan(
		&z.ID, &z.SiteMapID, &z.Name, &z.ZoneType, &z.Color, &z.Capacity,
		&z.X, &z.Y, &z.Width, &z.Height, &z.CreatedAt, &z.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &z, nil
}

func (r *zoneRepository) Create(ctx context.Context, z *models.Zone) error {
	query := `
		INSERT INTO zones (id, site_map_id, name, zone_type, color, capacity, x, y, width, height)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`
	return r.db.QueryRowContext(ctx, query,
		z.ID, z.SiteMapID, z.Name, z.ZoneType, z.Color, z.Capacity, z.X, z.Y, z.Width, z.Height,
	).Scan(&z.CreatedAt, &z.UpdatedAt)
}

func (r *zoneRepository) GetByID(ctx context.Context, siteMapID, id string) (*models.Zone, error) {
	query := `SELECT ` + zoneColumns + ` FROM zones WHERE id = $1 AND site_map_id = $2`
	return scanZone(r.db.QueryRowContext(ctx, query, id, siteMapID))
}

func (r *zoneRepository) ListBySiteMap(ctx context.Context, siteMapID string) ([]*models.Zone, error) {
	query := `SELECT ` + zoneColumns + ` FROM zones WHERE site_map_id = $1 ORDER BY name ASC`
	rows, err := r.db.QueryContext(ctx, query, siteMapID)
	if err != nil {
		return nil, fmt.Errorf("list zones: %w", err)
	}
	defer rows.Close()

	out := []*models.Zone{}
	for rows.Next() {
		z, err := scanZone(rows)
		if err != nil {
			return nil, fmt.Errorf("scan zone: %w", err)
		}
		out = append(out, z)
	}
	return out, rows.Err()
}

func (r *zoneRepository) Update(ctx context.Context, z *models.Zone) error {
	query := `
		UPDATE zones
		SET name = $1, zone_type = $2, color = $3, capacity = $4, x = $5, y = $6, width = $7, height = $8, updated_at = NOW()
		WHERE id = $9 AND site_map_id = $10
		RETURNING updated_at
	`
	return r.db.QueryRowContext(ctx, query,
		z.Name, z.ZoneType, z.Color, z.Capacity, z.X, z.Y, z.Width, z.Height, z.ID, z.SiteMapID,
	).Scan(&z.UpdatedAt)
}

func (r *zoneRepository) Delete(ctx context.Context, siteMapID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM zones WHERE id = $1 AND site_map_id = $2`, id, siteMapID)
	if err != nil {
		return fmt.Errorf("delete zone: %w", err)
	}
	return rowsAffectedOrNotFound(res)
}
