package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"tourify/internal/apperr"
)

// uuidParam reads a path id. Anything that is not a UUID is a 400 here
// instead of a cast error from Postgres.
func uuidParam(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	id := chi.URLParam(r, name)
	if _, err := uuid.Parse(id); err != nil {
		writeAppError(w, r, apperr.Validation("invalid_id", "Invalid "+name,
			apperr.FieldError{Field: name, Tag: "uuid", Message: "must be a UUID"}))
		return "", false
	}
	return id, true
}

// uuidQuery reads an optional id filter; empty means unset.
func uuidQuery(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	id := r.URL.Query().Get(name)
	if id == "" {
		return "", true
	}
	if _, err := uuid.Parse(id); err != nil {
		writeAppError(w, r, apperr.Validation("invalid_id", "Invalid "+name,
			apperr.FieldError{Field: name, Tag: "uuid", Message: "must be a UUID"}))
		return "", false
	}
	return id, true
}
