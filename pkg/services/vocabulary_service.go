package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kotoba-app/kotoba-engine/pkg/apperrors"
	"github.com/kotoba-app/kotoba-engine/pkg/categorize"
	"github.com/kotoba-app/kotoba-engine/pkg/models"
	"github.com/kotoba-app/kotoba-engine/pkg/repositories"
)

// VocabularyService manages a user's saved vocabulary entries.
type VocabularyService struct {
	repo   repositories.VocabularyRepository
	logger *zap.Logger
}

// NewVocabularyService creates a vocabulary service.
func NewVocabularyService(repo repositories.VocabularyRepository, logger *zap.Logger) *VocabularyService {
	return &VocabularyService{repo: repo, logger: logger.Named("vocabulary")}
}

// SaveEntry validates and stores an entry. Saving a word the user already
// has overwrites the prior entry rather than erroring or duplicating. An
// empty category is filled in from the entry's English gloss.
func (s *VocabularyService) SaveEntry(ctx context.Context, entry *models.VocabularyEntry) error {
	entry.Word = strings.TrimSpace(entry.Word)
	entry.Reading = strings.TrimSpace(entry.Reading)
	entry.English = strings.TrimSpace(entry.English)
	entry.Category = strings.TrimSpace(entry.Category)

	if entry.UserID == uuid.Nil {
		return fmt.Errorf("%w: user is required", apperrors.ErrInvalidInput)
	}
	if entry.Word == "" {
		return fmt.Errorf("%w: word is required", apperrors.ErrInvalidInput)
	}
	if entry.Reading == "" {
		return fmt.Errorf("%w: reading is required", apperrors.ErrInvalidInput)
	}
	if entry.English == "" {
		return fmt.Errorf("%w: english meaning is required", apperrors.ErrInvalidInput)
	}

	if entry.Category == "" {
		entry.Category = categorize.Categorize(entry.Word, entry.English)
	}

	if err := s.repo.Upsert(ctx, entry); err != nil {
		return fmt.Errorf("failed to save vocabulary entry: %w", err)
	}

	s.logger.Debug("entry saved",
		zap.String("word", entry.Word),
		zap.String("category", entry.Category))
	return nil
}

// ListEntries returns the user's saved entries, most recently updated first.
func (s *VocabularyService) ListEntries(ctx context.Context, userID uuid.UUID) ([]*models.VocabularyEntry, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("%w: user is required", apperrors.ErrInvalidInput)
	}
	entries, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list vocabulary entries: %w", err)
	}
	if entries == nil {
		entries = []*models.VocabularyEntry{}
	}
	return entries, nil
}

// DeleteEntry removes one saved word. Deleting a word the user never saved
// returns apperrors.ErrNotFound.
func (s *VocabularyService) DeleteEntry(ctx context.Context, userID uuid.UUID, word string) error {
	word = strings.TrimSpace(word)
	if userID == uuid.Nil {
		return fmt.Errorf("%w: user is required", apperrors.ErrInvalidInput)
	}
	if word == "" {
		return fmt.Errorf("%w: word is required", apperrors.ErrInvalidInput)
	}
	return s.repo.Delete(ctx, userID, word)
}
