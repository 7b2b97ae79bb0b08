package repository

import (
	"context"
	"database/sql"
	"fmt"

	"tourify/internal/interfaces"
	"tourify/internal/models"
)

const siteMapColumns = `id, venue_id, name, description, width, height, background_color, created_by, created_at, updated_at`

type siteMapRepository struct {
	db *sql.DB
}

func NewSiteMapRepository(db *sql.DB) interfaces.SiteMapRepository {
	return &siteMapRepository{db: db}
}

func scanSiteMap(row rowScanner) (*models.SiteMap, error) {
	var m models.SiteMap
	if err := row.Scan(
		&m.ID, &m.VenueID, &m.Name, &m.Description, &m.Width, &m.Height,
		&m.BackgroundColor, &m.CreatedBy, &m.CreatedAt, &m.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *siteMapRepository) Create(ctx context.Context, m *models.SiteMap) error {
	query := `
		INSERT INTO site_maps (id, venue_id, name, description, width, height, background_color, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`
	return r.db.QueryRowContext(ctx, query,
		m.ID, m.VenueID, m.Name, m.Description, m.Width, m.Height, m.BackgroundColor, m.CreatedBy,
	).Scan(&m.CreatedAt, &m.UpdatedAt)
}

func (r *siteMapRepository) GetByID(ctx context.Context, id string) (*models.SiteMap, error) {
	query := `SELECT ` + siteMapColumns + ` FROM site_maps WHERE id = $1`
	return scanSiteMap(r.db.QueryRowContext(ctx, query, id))
}

func (r *siteMapRepository) ListByVenue(ctx context.Context, venueID string, limit, offset int) ([]*models.SiteMap, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM site_maps WHERE venue_id = $1`, venueID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count site maps: %w", err)
	}

	query := `SELECT ` + siteMapColumns + ` FROM site_maps WHERE venue_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, venueID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list site maps: %w", err)
	}
	defer rows.Close()

	out := []*models.SiteMap{}
	for rows.Next() {
		m, err := scanSiteMap(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan site map: %w", err)
		}
		out = append(out, m)
	}
	return out, total, rows.Err()
}

func (r *siteMapRepository) Update(ctx context.Context, m *models.SiteMap) error {
	query := `
		UPDATE site_maps
		SET name = $1, description = $2, width = $3, height = $4, background_color = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING updated_at
	`
	return r.db.QueryRowContext(ctx, query,
		m.Name, m.Description, m.Width, m.Height, m.BackgroundColor, m.ID,
	).Scan(&m.UpdatedAt)
}

func (r *siteMapRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM site_maps WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete site map: %w", err)
	}
	return rowsAffectedOrNotFound(res)
}
