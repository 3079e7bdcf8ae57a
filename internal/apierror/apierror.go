// Package apierror holds the error envelopes returned to HTTP clients and the
// mapping from core errors to status codes. Internal detail never leaves here.
package apierror

import (
	"errors"
	"net/http"

	"github.com/gasttonvargas/facturador-bar/internal/service"
)

// APIError is the envelope for every 4xx/5xx response.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError carries per-field messages.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validacion", Fields: fields}
}

// FromError maps a core error to a status and body. ok is false for errors
// that are not a domain outcome; callers log those and answer 500.
func FromError(err error) (status int, body any, ok bool) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity, NewValidation(verr.Fields), true
	case errors.Is(err, service.ErrCredenciales):
		return http.StatusUnauthorized, New("Credenciales invalidas"), true
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, New(err.Error()), true
	case errors.Is(err, service.ErrTurnoYaAbierto), errors.Is(err, service.ErrInvalidState):
		return http.StatusConflict, New(err.Error()), true
	default:
		return http.StatusInternalServerError, New("Error interno del servidor"), false
	}
}
