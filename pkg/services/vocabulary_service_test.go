package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kotoba-app/kotoba-engine/pkg/apperrors"
	"github.com/kotoba-app/kotoba-engine/pkg/models"
)

// fakeVocabularyRepo records calls and serves canned results.
type fakeVocabularyRepo struct {
	upserted   []*models.VocabularyEntry
	listResult []*models.VocabularyEntry
	deleteErr  error
	deleted    []string
}

func (f *fakeVocabularyRepo) Upsert(ctx context.Context, entry *models.VocabularyEntry) error {
	entry.ID = uuid.New()
	f.upserted = append(f.upserted, entry)
	return nil
}

func (f *fakeVocabularyRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.VocabularyEntry, error) {
	return f.listResult, nil
}

func (f *fakeVocabularyRepo) Delete(ctx context.Context, userID uuid.UUID, word string) error {
	f.deleted = append(f.deleted, word)
	return f.deleteErr
}

func TestSaveEntry_AutoCategorizes(t *testing.T) {
	repo := &fakeVocabularyRepo{}
	svc := NewVocabularyService(repo, zap.NewNop())

	entry := &models.VocabularyEntry{
		UserID:  uuid.New(),
		Word:    "魚",
		Reading: "さかな",
		English: "fish",
	}
	require.NoError(t, svc.SaveEntry(context.Background(), entry))
	require.Len(t, repo.upserted, 1)
	assert.Equal(t, "animals", repo.upserted[0].Category)
}

func TestSaveEntry_KeepsExplicitCategory(t *testing.T) {
	repo := &fakeVocabularyRepo{}
	svc := NewVocabularyService(repo, zap.NewNop())

	entry := &models.VocabularyEntry{
		UserID:   uuid.New(),
		Word:     "魚",
		Reading:  "さかな",
		English:  "fish",
		Category: "food",
	}
	require.NoError(t, svc.SaveEntry(context.Background(), entry))
	assert.Equal(t, "food", repo.upserted[0].Category)
}

func TestSaveEntry_Validation(t *testing.T) {
	svc := NewVocabularyService(&fakeVocabularyRepo{}, zap.NewNop())
	userID := uuid.New()

	cases := []struct {
		name  string
		entry *models.VocabularyEntry
	}{
		{"missing user", &models.VocabularyEntry{Word: "魚", Reading: "さかな", English: "fish"}},
		{"missing word", &models.VocabularyEntry{UserID: userID, Reading: "さかな", English: "fish"}},
		{"blank word", &models.VocabularyEntry{UserID: userID, Word: "  ", Reading: "さかな", English: "fish"}},
		{"missing reading", &models.VocabularyEntry{UserID: userID, Word: "魚", English: "fish"}},
		{"blank reading", &models.VocabularyEntry{UserID: userID, Word: "魚", Reading: " ", English: "fish"}},
		{"missing english", &models.VocabularyEntry{UserID: userID, Word: "魚", Reading: "さかな"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := svc.SaveEntry(context.Background(), tc.entry)
			assert.True(t, errors.Is(err, apperrors.ErrInvalidInput), "got %v", err)
		})
	}
}

func TestListEntries_NeverNil(t *testing.T) {
	svc := NewVocabularyService(&fakeVocabularyRepo{}, zap.NewNop())

	entries, err := svc.ListEntries(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestDeleteEntry_NotFound(t *testing.T) {
	repo := &fakeVocabularyRepo{deleteErr: apperrors.ErrNotFound}
	svc := NewVocabularyService(repo, zap.NewNop())

	err := svc.DeleteEntry(context.Background(), uuid.New(), "無")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound), "got %v", err)
	assert.Equal(t, []string{"無"}, repo.deleted)
}

func TestDeleteEntry_TrimsWord(t *testing.T) {
	repo := &fakeVocabularyRepo{}
	svc := NewVocabularyService(repo, zap.NewNop())

	require.NoError(t, svc.DeleteEntry(context.Background(), uuid.New(), " 魚 "))
	assert.Equal(t, []string{"魚"}, repo.deleted)
}
