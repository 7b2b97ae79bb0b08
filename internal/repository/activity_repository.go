package repository

import (
	"context"
	"database/sql"
	"fmt"

	"tourify/internal/interfaces"
	"tourify/internal/models"
)

type activityRepository struct {
	db *sql.DB
}

func NewActivityRepository(db *sql.DB) interfaces.ActivityRepository {
	return &activityRepository{db: db}
}

// nullableJSON keeps an absent before/after as SQL NULL rather than 'null'.
func nullableJSON(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}

func (r *activityRepository) Insert(ctx context.Context, e *models.ActivityEntry) error {
	query := `
		INSERT INTO activity_log (id, actor_id, action, entity_type, entity_id, scope_type, scope_id, before, after, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO NOTHING
	`
	_, err := r.db.ExecContext(ctx, query,
		e.ID, e.ActorID, e.Action, e.EntityType, e.EntityID, e.ScopeType, e.ScopeID,
		nullableJSON(e.Before), nullableJSON(e.After), e.CreatedAt,
	)
	return err
}

func (r *activityRepository) List(ctx context.Context, filter models.ActivityFilter) ([]*models.ActivityEntry, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM activity_log WHERE scope_type = $1 AND scope_id = $2`,
		filter.ScopeType, filter.ScopeID,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count activity: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, actor_id, action, entity_type, entity_id, scope_type, scope_id, before, after, created_at
		FROM activity_log
		WHERE scope_type = $1 AND scope_id = $2
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`, filter.ScopeType, filter.ScopeID, filter.Limit, filter.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list activity: %w", err)
	}
	defer rows.Close()

	out := []*models.ActivityEntry{}
	for rows.Next() {
		var e models.ActivityEntry
		var before, after []byte
		if err := rows.Scan(
			&e.ID, &e.ActorID, &e.Action, &e.EntityType, &e.EntityID, &e.ScopeType, &e.ScopeID,
			&before, &after, &e.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scan activity: %w", err)
		}
		e.Before = before
		e.After = after
		out = append(out, &e)
	}
	return out, total, rows.Err()
}
