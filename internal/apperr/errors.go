package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	// ErrUnavailable marks a durable store that cannot be reached. The record
	// stores absorb it by switching to memory; it should never reach a handler.
	ErrUnavailable = errors.New("store unavailable")
)

// FieldError describes one failed constraint on one input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Value   any    `json:"value,omitempty"`
}

// ValidationError carries every failed constraint of a payload.
type ValidationError struct {
	Details []FieldError
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Details) == 0 {
		return "validation failed"
	}
	msgs := make([]string, 0, len(e.Details))
	for _, d := range e.Details {
		msgs = append(msgs, d.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Fields returns the names of the failing fields in report order.
func (e *ValidationError) Fields() []string {
	out := make([]string, 0, len(e.Details))
	for _, d := range e.Details {
		out = append(out, d.Field)
	}
	return out
}

// NotFoundError names the kind of record that was missing. It matches
// ErrNotFound under errors.Is.
type NotFoundError struct {
	Kind string
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("%s not found", e.Kind) }

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

func NotFound(kind string) error {
	return &NotFoundError{Kind: kind}
}

// Status maps an error from the taxonomy to its HTTP status code.
func Status(err error) int {
	var verr *ValidationError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &verr):
		return http.StatusBadRequest
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
