package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"tourify/internal/interfaces"
	"tourify/internal/models"
)

const catalogColumns = `id, vendor_id, name, category, manufacturer, model, description,
	width_m, depth_m, height_m, weight_kg, power_watts, requires_power, daily_rate, weekly_rate,
	symbol_shape, symbol_color, symbol_size, symbol_icon, created_by, created_at, updated_at`

type catalogRepository struct {
	db *sql.DB
}

func NewCatalogRepository(db *sql.DB) interfaces.CatalogRepository {
	return &catalogRepository{db: db}
}

func scanCatalogEntry(row rowScanner) (*models.EquipmentCatalogEntry, error) {
	var e models.EquipmentCatalogEntry
	if err := row.Scan(
		&e.ID, &e.VendorID, &e.Name, &e.Category, &e.Manufacturer, &e.Model, &e.Description,
		&e.WidthM, &e.DepthM, &e.HeightM, &e.WeightKg, &e.PowerWatts, &e.RequiresPower, &e.DailyRate, &e.WeeklyRate,
		&e.SymbolShape, &e.SymbolColor, &e.SymbolSize, &e.SymbolIcon, &e.CreatedBy, &e.CreatedAt, &e.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *catalogRepository) Create(ctx context.Context, e *models.EquipmentCatalogEntry) error {
	query := `
		INSERT INTO equipment_catalog (
			id, vendor_id, name, category, manufacturer, model, description,
			width_m, depth_m, height_m, weight_kg, power_watts, requires_power, daily_rate, weekly_rate,
			symbol_shape, symbol_color, symbol_size, symbol_icon, created_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		RETURNING created_at, updated_at
	`
	return r.db.QueryRowContext(ctx, query,
		e.ID, e.VendorID, e.Name, e.Category, e.Manufacturer, e.Model, e.Description,
		e.WidthM, e.DepthM, e.HeightM, e.WeightKg, e.PowerWatts, e.RequiresPower, e.DailyRate, e.WeeklyRate,
		e.SymbolShape, e.SymbolColor, e.SymbolSize, e.SymbolIcon, e.CreatedBy,
	).Scan(&e.CreatedAt, &e.UpdatedAt)
}

func (r *catalogRepository) GetByID(ctx context.Context, id string) (*models.EquipmentCatalogEntry, error) {
	query := `SELECT ` + catalogColumns + ` FROM equipment_catalog WHERE id = $1`
	return scanCatalogEntry(r.db.QueryRowContext(ctx, query, id))
}

func (r *catalogRepository) List(ctx context.Context, filter models.CatalogFilter) ([]*models.EquipmentCatalogEntry, error) {
	query := `SELECT ` + catalogColumns + ` FROM equipment_catalog WHERE 1=1`

	var args []any
	var whereClauses []string
	argPos := 1

	if filter.Category != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("category = $%d", argPos))
		args = append(args, filter.Category)
		argPos++
	}
	if filter.VendorID != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("vendor_id = $%d", argPos))
		args = append(args, filter.VendorID)
		argPos++
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("(name ILIKE $%d OR model ILIKE $%d OR manufacturer ILIKE $%d)", argPos, argPos, argPos))
		args = append(args, likePattern(s))
		argPos++
	}
	if len(whereClauses) > 0 {
		query += " AND " + strings.Join(whereClauses, " AND ")
	}

	query += " ORDER BY name ASC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argPos, argPos+1)
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list catalog: %w", err)
	}
	defer rows.Close()

	out := []*models.EquipmentCatalogEntry{}
	for rows.Next() {
		e, err := scanCatalogEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan catalog entry: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *catalogRepository) CountInstances(ctx context.Context, id string) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM equipment_instances WHERE catalog_id = $1`, id).Scan(&n)
	return n, err
}

func (r *catalogRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM equipment_catalog WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete catalog entry: %w", err)
	}
	return rowsAffectedOrNotFound(res)
}
