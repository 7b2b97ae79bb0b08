package repository

import (
	"context"
	"database/sql"
	"fmt"

	"tourify/internal/interfaces"
	"tourify/internal/models"
)

const layerColumns = `id, site_map_id, name, color, z_index, is_visible, is_locked, opacity, created_at, updated_at`

type layerRepository struct {
	db *sql.DB
}

func NewLayerRepository(db *sql.DB) interfaces.LayerRepository {
	return &layerRepository{db: db}
}

func scanLayer(row rowScanner) (*models.Layer, error) {
	var l models.Layer
	if err := row.Scan(
		&l.ID, &l.SiteMapID, &l.Name, &l.Color, &l.ZIndex,
		&l.IsVisible, &l.IsLocked, &l.Opacity, &l.CreatedAt, &l.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *layerRepository) Create(ctx context.Context, l *models.Layer) error {
	query := `
		INSERT INTO layers (id, site_map_id, name, color, z_index, is_visible, is_locked, opacity)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`
	return r.db.QueryRowContext(ctx, query,
		l.ID, l.SiteMapID, l.Name, l.Color, l.ZIndex, l.IsVisible, l.IsLocked, l.Opacity,
	).Scan(&l.CreatedAt, &l.UpdatedAt)
}

func (r *layerRepository) GetByID(ctx context.Context, id string) (*models.Layer, error) {
	query := `SELECT ` + layerColumns + ` FROM layers WHERE id = $1`
	return scanLayer(r.db.QueryRowContext(ctx, query, id))
}

// ListBySiteMap orders by z_index only; equal z-indexes have no defined order.
func (r *layerRepository) ListBySiteMap(ctx context.Context, siteMapID string) ([]*models.Layer, error) {
	query := `SELECT ` + layerColumns + ` FROM layers WHERE site_map_id = $1 ORDER BY z_index ASC`
	rows, err := r.db.QueryContext(ctx, query, siteMapID)
	if err != nil {
		return nil, fmt.Errorf("list layers: %w", err)
	}
	defer rows.Close()

	out := []*models.Layer{}
	for rows.Next() {
		l, err := scanLayer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan layer: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *layerRepository) Update(ctx context.Context, l *models.Layer) error {
	query := `
		UPDATE layers
		SET name = $1, color = $2, z_index = $3, is_visible = $4, is_locked = $5, opacity = $6, updated_at = NOW()
		WHERE id = $7 AND site_map_id = $8
		RETURNING updated_at
	`
	return r.db.QueryRowContext(ctx, query,
		l.Name, l.Color, l.ZIndex, l.IsVisible, l.IsLocked, l.Opacity, l.ID, l.SiteMapID,
	).Scan(&l.UpdatedAt)
}

func (r *layerRepository) Delete(ctx context.Context, siteMapID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM layers WHERE id = $1 AND site_map_id = $2`, id, siteMapID)
	if err != nil {
		return fmt.Errorf("delete layer: %w", err)
	}
	return rowsAffectedOrNotFound(res)
}
