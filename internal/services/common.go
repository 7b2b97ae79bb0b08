package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"tourify/internal/apperr"
	"tourify/internal/models"
)

// ActivityRecorder accepts audit entries without blocking or failing the
// caller.
type ActivityRecorder interface {
	Record(entry models.ActivityEntry)
}

type noopRecorder struct{}

func (noopRecorder) Record(models.ActivityEntry) {}

func recorderOrNoop(r ActivityRecorder) ActivityRecorder {
	if r == nil {
		return noopRecorder{}
	}
	return r
}

func newActivity(actorID, action, entityType, entityID, scopeType, scopeID string, before, after any) models.ActivityEntry {
	return models.ActivityEntry{
		ID:         uuid.NewString(),
		ActorID:    actorID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		ScopeType:  scopeType,
		ScopeID:    scopeID,
		Before:     marshalSnapshot(before),
		After:      marshalSnapshot(after),
		CreatedAt:  time.Now().UTC(),
	}
}

func marshalSnapshot(v any) json.RawMessage {
	if v == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		log.Printf("[activity] snapshot marshal failed: %v", err)
		return nil
	}
	return b
}

func authorize(ctx context.Context, gate PermissionGate, actorID string, entityType models.EntityType, entityID string, perm models.Permission) error {
	ok, err := gate.HasEntityPermission(ctx, actorID, entityType, entityID, perm)
	if err != nil {
		return apperr.Dependency("check permissions", err)
	}
	if !ok {
		return apperr.Forbidden("You do not have " + string(perm) + " access to this " + humanEntity(entityType))
	}
	return nil
}

func humanEntity(t models.EntityType) string {
	if t == models.EntitySiteMap {
		return "site map"
	}
	return string(t)
}

// notFoundOr maps sql.ErrNoRows to a 404 and anything else to a 500.
func notFoundOr(err error, resource, operation string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.NotFound(resource)
	}
	return apperr.Dependency(operation, err)
}

func clampPage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}
