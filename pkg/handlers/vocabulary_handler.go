package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/kotoba-app/kotoba-engine/pkg/apperrors"
	"github.com/kotoba-app/kotoba-engine/pkg/auth"
	"github.com/kotoba-app/kotoba-engine/pkg/models"
	"github.com/kotoba-app/kotoba-engine/pkg/services"
)

// SaveEntryRequest is the body of POST /api/favorites.
type SaveEntryRequest struct {
	Word     string `json:"word"`
	Reading  string `json:"reading"`
	English  string `json:"english"`
	Category string `json:"category,omitempty"`
}

// VocabularyHandler serves the authenticated favorites endpoints.
type VocabularyHandler struct {
	service    *services.VocabularyService
	middleware *auth.Middleware
	logger     *zap.Logger
}

// NewVocabularyHandler creates a vocabulary handler.
func NewVocabularyHandler(service *services.VocabularyService, middleware *auth.Middleware, logger *zap.Logger) *VocabularyHandler {
	return &VocabularyHandler{
		service:    service,
		middleware: middleware,
		logger:     logger.Named("vocabulary_handler"),
	}
}

// RegisterRoutes registers the favorites endpoints, all behind auth.
func (h *VocabularyHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/favorites", h.middleware.RequireAuth(h.List))
	mux.HandleFunc("POST /api/favorites", h.middleware.RequireAuth(h.Save))
	mux.HandleFunc("DELETE /api/favorites/{word}", h.middleware.RequireAuth(h.Delete))
}

// List handles GET /api/favorites.
func (h *VocabularyHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		WriteError(w, h.logger, apperrors.ErrUnauthorized, "Authentication required")
		return
	}

	entries, err := h.service.ListEntries(r.Context(), claims.UserID())
	if err != nil {
		WriteError(w, h.logger, err, "Failed to list saved words")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

// Save handles POST /api/favorites.
func (h *VocabularyHandler) Save(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		WriteError(w, h.logger, apperrors.ErrUnauthorized, "Authentication required")
		return
	}

	var req SaveEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_input",
			Message: "Request body must be valid JSON",
		})
		return
	}

	entry := &models.VocabularyEntry{
		UserID:   claims.UserID(),
		Word:     req.Word,
		Reading:  req.Reading,
		English:  req.English,
		Category: req.Category,
	}
	if err := h.service.SaveEntry(r.Context(), entry); err != nil {
		WriteError(w, h.logger, err, "Failed to save word")
		return
	}

	WriteJSON(w, http.StatusOK, entry)
}

// Delete handles DELETE /api/favorites/{word}.
func (h *VocabularyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		WriteError(w, h.logger, apperrors.ErrUnauthorized, "Authentication required")
		return
	}

	word := r.PathValue("word")
	if err := h.service.DeleteEntry(r.Context(), claims.UserID(), word); err != nil {
		WriteError(w, h.logger, err, fmt.Sprintf("Failed to delete %q", word))
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"deleted": word})
}
