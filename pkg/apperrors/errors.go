// Package apperrors defines the error kinds shared across kotoba-engine.
package apperrors

import (
	"errors"
	"net/http"
)

var (
	// ErrInvalidInput means client-supplied data failed a precondition.
	ErrInvalidInput = errors.New("invalid input")
	// ErrConfig means required process-wide configuration is missing.
	ErrConfig = errors.New("missing configuration")
	// ErrUnauthorized means the bearer credential is absent or invalid.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound means the requested record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUpstreamRejected means the external capability returned a
	// non-transient error (4xx). Never retried.
	ErrUpstreamRejected = errors.New("upstream rejected request")
	// ErrMalformedResponse means the external capability's response could
	// not be parsed as the agreed structured document. Never retried.
	ErrMalformedResponse = errors.New("malformed upstream response")
	// ErrSchemaViolation means the parsed response failed schema checks.
	// Never retried and never silently downgraded.
	ErrSchemaViolation = errors.New("upstream response violates schema")
)

// HTTPStatus maps an error kind to the status code the API surfaces.
// Unknown errors map to 500.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// ErrorCode maps an error kind to the machine-readable code in error bodies.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrConfig):
		return "config_error"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrUpstreamRejected):
		return "upstream_rejected"
	case errors.Is(err, ErrMalformedResponse):
		return "malformed_response"
	case errors.Is(err, ErrSchemaViolation):
		return "schema_violation"
	default:
		return "internal_error"
	}
}
