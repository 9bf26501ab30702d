// Package handlers implements the HTTP API surface of kotoba-engine.
package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/kotoba-app/kotoba-engine/pkg/apperrors"
)

// ErrorResponse is the body every failing endpoint returns.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// WriteError maps the error kind to a status code and machine-readable code
// and writes the standard error body. The message is safe for clients;
// internals stay in the logs.
func WriteError(w http.ResponseWriter, logger *zap.Logger, err error, message string) {
	status := apperrors.HTTPStatus(err)
	if status >= 500 {
		logger.Error("request failed", zap.Error(err))
	} else {
		logger.Debug("request rejected", zap.Error(err))
	}
	WriteJSON(w, status, ErrorResponse{
		Error:   apperrors.ErrorCode(err),
		Message: message,
	})
}
