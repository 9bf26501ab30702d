package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/kotoba-app/kotoba-engine/pkg/models"
	"github.com/kotoba-app/kotoba-engine/pkg/retry"
)

// Translator is the service interface the translate endpoint depends on.
type Translator interface {
	Translate(ctx context.Context, sentence string, hints []models.WordHint) (*models.TranslationResult, error)
}

// TranslateRequest is the body of POST /api/translate. Words are advisory
// pre-parsed hints and may be omitted.
type TranslateRequest struct {
	Sentence string            `json:"sentence"`
	Words    []models.WordHint `json:"words,omitempty"`
}

// TranslateHandler serves the translation endpoint.
type TranslateHandler struct {
	service Translator
	timeout time.Duration
	logger  *zap.Logger
}

// NewTranslateHandler creates a translate handler. modelTimeout is the
// per-call model timeout; the request deadline adds the worst-case retry
// backoff on top so retries are not cut short.
func NewTranslateHandler(service Translator, modelTimeout time.Duration, logger *zap.Logger) *TranslateHandler {
	return &TranslateHandler{
		service: service,
		timeout: modelTimeout + retry.ModelCallConfig().BackoffBudget(),
		logger:  logger.Named("translate_handler"),
	}
}

// RegisterRoutes registers the translate endpoint on the mux.
func (h *TranslateHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/translate", h.Translate)
}

// Translate handles POST /api/translate.
func (h *TranslateHandler) Translate(w http.ResponseWriter, r *http.Request) {
	var req TranslateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_input",
			Message: "Request body must be valid JSON",
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	result, err := h.service.Translate(ctx, req.Sentence, req.Words)
	if err != nil {
		WriteError(w, h.logger, err, "Translation failed")
		return
	}

	WriteJSON(w, http.StatusOK, result)
}
