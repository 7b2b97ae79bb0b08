package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"tourify/internal/interfaces"
	"tourify/internal/models"
)

const tentColumns = `id, site_map_id, zone_id, tent_number, tent_type, capacity, x, y, width, height, rotation,
	amenities, price_per_night, status, created_at, updated_at`

type tentRepository struct {
	db *sql.DB
}

func NewTentRepository(db *sql.DB) interfaces.TentRepository {
	return &tentRepository{db: db}
}

func scanTent(row rowScanner) (*models.Tent, error) {
	var t models.Tent
	if err := row.Scan(
		&t.ID, &t.SiteMapID, &t.ZoneID, &t.TentNumber, &t.TentType, &t.Capacity,
		&t.X, &t.Y, &t.Width, &t.Height, &t.Rotation,
		&t.Amenities, &t.PricePerNight, &t.Status, &t.CreatedAt, &t.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *tentRepository) Create(ctx context.Context, t *models.Tent) error {
	query := `
		INSERT INTO tents (
			id, site_map_id, zone_id, tent_number, tent_type, capacity, x, y, width, height, rotation,
			amenities, price_per_night, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING created_at, updated_at
	`
	return r.db.QueryRowContext(ctx, query,
		t.ID, t.SiteMapID, t.ZoneID, t.TentNumber, t.TentType, t.Capacity, t.X, t.Y, t.Width, t.Height, t.Rotation,
		t.Amenities, t.PricePerNight, t.Status,
	).Scan(&t.CreatedAt, &t.UpdatedAt)
}

func (r *tentRepository) GetByID(ctx context.Context, siteMapID, id string) (*models.Tent, error) {
	query := `SELECT ` + tentColumns + ` FROM tents WHERE id = $1 AND site_map_id = $2`
	return scanTent(r.db.QueryRowContext(ctx, query, id, siteMapID))
}

func (r *tentRepository) List(ctx context.Context, filter models.TentFilter) ([]*models.Tent, error) {
	query := `SELECT ` + tentColumns + ` FROM tents WHERE site_map_id = $1`
	args := []any{filter.SiteMapID}
	argPos := 2

	var whereClauses []string
	if filter.ZoneID != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("zone_id = $%d", argPos))
		args = append(args, filter.ZoneID)
		argPos++
	}
	if filter.Status != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("status = $%d", argPos))
		args = append(args, filter.Status)
		argPos++
	}
	if filter.TentType != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("tent_type = $%d", argPos))
		args = append(args, filter.TentType)
		argPos++
	}
	if len(whereClauses) > 0 {
		query += " AND " + strings.Join(whereClauses, " AND ")
	}
	query += " ORDER BY tent_number ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tents: %w", err)
	}
	defer rows.Close()

	out := []*models.Tent{}
	for rows.Next() {
		t, err := scanTent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tent: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *tentRepository) NumberExists(ctx context.Context, siteMapID, tentNumber, excludeID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM tents WHERE site_map_id = $1 AND tent_number = $2 AND id::text <> $3)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, siteMapID, tentNumber, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check tent number: %w", err)
	}
	return exists, nil
}

func (r *tentRepository) Update(ctx context.Context, t *models.Tent) error {
	query := `
		UPDATE tents
		SET zone_id = $1, tent_number = $2, tent_type = $3, capacity = $4, x = $5, y = $6, width = $7, height = $8,
			rotation = $9, amenities = $10, price_per_night = $11, status = $12, updated_at = NOW()
		WHERE id = $13 AND site_map_id = $14
		RETURNING updated_at
	`
	return r.db.QueryRowContext(ctx, query,
		t.ZoneID, t.TentNumber, t.TentType, t.Capacity, t.X, t.Y, t.Width, t.Height,
		t.Rotation, t.Amenities, t.PricePerNight, t.Status, t.ID, t.SiteMapID,
	).Scan(&t.UpdatedAt)
}

func (r *tentRepository) Delete(ctx context.Context, siteMapID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tents WHERE id = $1 AND site_map_id = $2`, id, siteMapID)
	if err != nil {
		return fmt.Errorf("delete tent: %w", err)
	}
	return rowsAffectedOrNotFound(res)
}
