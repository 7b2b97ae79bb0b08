package models

import (
	"encoding/json"
	"time"
)

// ActivityEntry is an append-only audit record.
type ActivityEntry struct {
	ID         string          `json:"id"`
	ActorID    string          `json:"actor_id"`
	Action     string          `json:"action"`
	EntityType string          `json:"entity_type"`
	EntityID   string          `json:"entity_id"`
	ScopeType  string          `json:"scope_type"`
	ScopeID    string          `json:"scope_id"`
	Before     json.RawMessage `json:"before,omitempty"`
	After      json.RawMessage `json:"after,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

type ActivityFilter struct {
	ScopeType string
	ScopeID   string
	Limit     int
	Offset    int
}
