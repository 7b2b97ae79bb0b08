package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"tourify/internal/interfaces"
	"tourify/internal/models"
)

const elementColumns = `id, site_map_id, layer_id, element_type, name, x, y, width, height, rotation,
	fill_color, stroke_color, stroke_width, properties, path, created_by, created_at, updated_at`

type elementRepository struct {
	db *sql.DB
}

func NewElementRepository(db *sql.DB) interfaces.ElementRepository {
	return &elementRepository{db: db}
}

func scanElement(row rowScanner) (*models.Element, error) {
	var e models.Element
	if err := row.Scan(
		&e.ID, &e.SiteMapID, &e.LayerID, &e.ElementType, &e.Name,
		&e.X, &e.Y, &e.Width, &e.Height, &e.Rotation,
		&e.FillColor, &e.StrokeColor, &e.StrokeWidth,
		&e.Properties, &e.Path, &e.CreatedBy, &e.CreatedAt, &e.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if e.Path == nil {
		e.Path = models.ElementPath{}
	}
	return &e, nil
}

func (r *elementRepository) Create(ctx context.Context, e *models.Element) error {
	query := `
		INSERT INTO elements (
			id, site_map_id, layer_id, element_type, name, x, y, width, height, rotation,
			fill_color, stroke_color, stroke_width, properties, path, created_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING created_at, updated_at
	`
	return r.db.QueryRowContext(ctx, query,
		e.ID, e.SiteMapID, e.LayerID, e.ElementType, e.Name, e.X, e.Y, e.Width, e.Height, e.Rotation,
		e.FillColor, e.StrokeColor, e.StrokeWidth, e.Properties, e.Path, e.CreatedBy,
	).Scan(&e.CreatedAt, &e.UpdatedAt)
}

func (r *elementRepository) GetByID(ctx context.Context, siteMapID, id string) (*models.Element, error) {
	query := `SELECT ` + elementColumns + ` FROM elements WHERE id = $1 AND site_map_id = $2`
	return scanElement(r.db.QueryRowContext(ctx, query, id, siteMapID))
}

func (r *elementRepository) List(ctx context.Context, siteMapID, layerID string) ([]*models.Element, error) {
	query := `SELECT ` + elementColumns + ` FROM elements WHERE site_map_id = $1`
	args := []any{siteMapID}
	if layerID != "" {
		query += ` AND layer_id = $2`
		args = append(args, layerID)
	}
	query += ` ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list elements: %w", err)
	}
	defer rows.Close()

	out := []*models.Element{}
	for rows.Next() {
		e, err := scanElement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan element: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *elementRepository) Update(ctx context.Context, siteMapID, id string, patch *models.UpdateElementRequest) (*models.Element, error) {
	var setClauses []string
	var args []any
	argPos := 1

	set := func(column string, value any) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, argPos))
		args = append(args, value)
		argPos++
	}

	if patch.LayerID != nil {
		set("layer_id", *patch.LayerID)
	}
	if patch.ElementType != nil {
		set("element_type", *patch.ElementType)
	}
	if patch.Name != nil {
		set("name", *patch.Name)
	}
	if patch.X != nil {
		set("x", *patch.X)
	}
	if patch.Y != nil {
		set("y", *patch.Y)
	}
	if patch.Width != nil {
		set("width", *patch.Width)
	}
	if patch.Height != nil {
		set("height", *patch.Height)
	}
	if patch.Rotation != nil {
		set("rotation", *patch.Rotation)
	}
	if patch.FillColor != nil {
		set("fill_color", *patch.FillColor)
	}
	if patch.StrokeColor != nil {
		set("stroke_color", *patch.StrokeColor)
	}
	if patch.StrokeWidth != nil {
		set("stroke_width", *patch.StrokeWidth)
	}
	if patch.Path != nil {
		set("path", *patch.Path)
	}
	if patch.Properties != nil {
		setClauses = append(setClauses, fmt.Sprintf("properties = properties || $%d::jsonb", argPos))
		args = append(args, *patch.Properties)
		argPos++
	}
	setClauses = append(setClauses, "updated_at = NOW()")

	query := fmt.Sprintf(
		`UPDATE elements SET %s WHERE id = $%d AND site_map_id = $%d RETURNING `+elementColumns,
		strings.Join(setClauses, ", "), argPos, argPos+1,
	)
	args = append(args, id, siteMapID)

	return scanElement(r.db.QueryRowContext(ctx, query, args...))
}

func (r *elementRepository) Delete(ctx context.Context, siteMapID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM elements WHERE id = $1 AND site_map_id = $2`, id, siteMapID)
	if err != nil {
		return fmt.Errorf("delete element: %w", err)
	}
	return rowsAffectedOrNotFound(res)
}
