package interfaces

import (
	"context"

	"tourify/internal/models"
)

type ActivityRepository interface {
	Insert(ctx context.Context, entry *models.ActivityEntry) error
	List(ctx context.Context, filter models.ActivityFilter) ([]*models.ActivityEntry, int, error)
}
