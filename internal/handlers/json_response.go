package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"tourify/internal/apperr"
	"tourify/internal/middleware"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONErrorResponse(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, map[string]any{"error": code, "message": message})
}

// writeAppError renders err as {"error","message","details"?,"conflicts"?}.
// Causes of dependency failures are logged, never returned.
func writeAppError(w http.ResponseWriter, r *http.Request, err error) {
	appErr := apperr.From(err, "process request")
	if appErr.Kind == apperr.KindDependency {
		log.Printf("%s %s: %v", r.Method, r.URL.Path, appErr)
	}

	body := map[string]any{"error": appErr.Code, "message": appErr.Message}
	if len(appErr.Details) > 0 {
		body["details"] = appErr.Details
	}
	if appErr.Conflicts != nil {
		body["conflicts"] = appErr.Conflicts
	}
	writeJSON(w, appErr.Status(), body)
}

// actorID returns the authenticated user or writes a 401.
func actorID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := middleware.UserIDFromContext(r.Context())
	if id == "" {
		writeJSONErrorResponse(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return "", false
	}
	return id, true
}

// nonNil keeps empty lists rendering as [] instead of null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
