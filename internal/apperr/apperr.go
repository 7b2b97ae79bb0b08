// Package apperr is the error taxonomy shared by services and handlers.
// Services return *Error; handlers turn it into a status code and a JSON body.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindValidation Kind = iota + 1
	KindAuthentication
	KindAuthorization
	KindNotFound
	KindConflict
	KindDependency
)

// FieldError describes one failing field of a request body.
type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

type Error struct {
	Kind      Kind
	Code      string
	Message   string
	Details   []FieldError
	Conflicts any
	Cause     error

	status int
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Status maps the kind to an HTTP status unless a status was pinned with
// WithStatus.
func (e *Error) Status() int {
	if e.status != 0 {
		return e.status
	}
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindAuthorization:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (e *Error) WithStatus(status int) *Error {
	e.status = status
	return e
}

func (e *Error) WithConflicts(conflicts any) *Error {
	e.Conflicts = conflicts
	return e
}

func Validation(code, message string, details ...FieldError) *Error {
	return &Error{Kind: KindValidation, Code: code, Message: message, Details: details}
}

func Unauthenticated(message string) *Error {
	return &Error{Kind: KindAuthentication, Code: "unauthorized", Message: message}
}

func Forbidden(message string) *Error {
	return &Error{Kind: KindAuthorization, Code: "forbidden", Message: message}
}

// NotFound builds "<resource> not found" with code "<resource>_not_found".
func NotFound(resource string) *Error {
	return &Error{Kind: KindNotFound, Code: resource + "_not_found", Message: capitalize(resource) + " not found"}
}

func Conflict(code, message string) *Error {
	return &Error{Kind: KindConflict, Code: code, Message: message}
}

// Dependency wraps a store or upstream failure. The cause is kept for logs
// and never rendered to clients.
func Dependency(operation string, cause error) *Error {
	return &Error{Kind: KindDependency, Code: "internal_error", Message: "Failed to " + operation, Cause: cause}
}

// From returns err as *Error, wrapping anything else as a dependency failure.
func From(err error, operation string) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Dependency(operation, err)
}

func IsKind(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'a' && b[0] <= 'z' {
		b[0] -= 'a' - 'A'
	}
	for i := range b {
		if b[i] == '_' {
			b[i] = ' '
		}
	}
	return string(b)
}
