package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"tourify/internal/interfaces"
	"tourify/internal/models"
)

type inventoryRepository struct {
	db *sql.DB
}

func NewInventoryRepository(db *sql.DB) interfaces.InventoryRepository {
	return &inventoryRepository{db: db}
}

func (r *inventoryRepository) VendorByOwner(ctx context.Context, ownerID string) (*models.Vendor, error) {
	var v models.Vendor
	err := r.db.QueryRowContext(ctx,
		`SELECT id, owner_id, name, created_at FROM vendors WHERE owner_id = $1`, ownerID,
	).Scan(&v.ID, &v.OwnerID, &v.Name, &v.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *inventoryRepository) CreateInstance(ctx context.Context, i *models.EquipmentInstance) error {
	query := `
		INSERT INTO equipment_instances (id, catalog_id, vendor_id, serial_number, asset_tag, status, assigned_to, location, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`
	return r.db.QueryRowContext(ctx, query,
		i.ID, i.CatalogID, i.VendorID, i.SerialNumber, i.AssetTag, i.Status, i.AssignedTo, i.Location, i.Notes,
	).Scan(&i.CreatedAt, &i.UpdatedAt)
}

func (r *inventoryRepository) ListInstances(ctx context.Context, filter models.InstanceFilter) ([]*models.EquipmentInstance, error) {
	query := `
		SELECT i.id, i.catalog_id, c.name, i.vendor_id, i.serial_number, i.asset_tag, i.status,
			i.assigned_to, i.location, i.notes, i.created_at, i.updated_at
		FROM equipment_instances i
		JOIN equipment_catalog c ON c.id = i.catalog_id
		WHERE i.vendor_id = $1
	`
	args := []any{filter.VendorID}
	argPos := 2

	if filter.Status != "" {
		query += fmt.Sprintf(" AND i.status = $%d", argPos)
		args = append(args, filter.Status)
		argPos++
	}
	if filter.CatalogID != "" {
		query += fmt.Sprintf(" AND i.catalog_id = $%d", argPos)
		args = append(args, filter.CatalogID)
	}
	query += " ORDER BY c.name ASC, i.asset_tag ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list instances: %w", err)
	}
	defer rows.Close()

	out := []*models.EquipmentInstance{}
	for rows.Next() {
		var i models.EquipmentInstance
		if err := rows.Scan(
			&i.ID, &i.CatalogID, &i.CatalogName, &i.VendorID, &i.SerialNumber, &i.AssetTag, &i.Status,
			&i.AssignedTo, &i.Location, &i.Notes, &i.CreatedAt, &i.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan instance: %w", err)
		}
		out = append(out, &i)
	}
	return out, rows.Err()
}

// BulkUpdate applies the change to every listed id owned by vendorID in one
// statement and returns the number of rows touched.
func (r *inventoryRepository) BulkUpdate(ctx context.Context, vendorID string, req *models.BulkUpdateInstancesRequest) (int64, error) {
	var setClauses []string
	var args []any
	argPos := 1

	if req.Status != nil {
		setClauses = append(setClauses, fmt.Sprintf("status = $%d", argPos))
		args = append(args, *req.Status)
		argPos++
	}
	if req.AssignedTo != nil {
		setClauses = append(setClauses, fmt.Sprintf("assigned_to = NULLIF($%d, '')", argPos))
		args = append(args, *req.AssignedTo)
		argPos++
	}
	if req.Location != nil {
		setClauses = append(setClauses, fmt.Sprintf("location = $%d", argPos))
		args = append(args, *req.Location)
		argPos++
	}
	if len(setClauses) == 0 {
		return 0, nil
	}
	setClauses = append(setClauses, "updated_at = NOW()")

	query := fmt.Sprintf(
		"UPDATE equipment_instances SET %s WHERE vendor_id = $%d AND id = ANY($%d)",
		strings.Join(setClauses, ", "), argPos, argPos+1,
	)
	args = append(args, vendorID, pq.Array(req.IDs))

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("bulk update instances: %w", err)
	}
	return res.RowsAffected()
}
