// Package repositories provides data access for kotoba-engine.
package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/kotoba-app/kotoba-engine/pkg/apperrors"
	"github.com/kotoba-app/kotoba-engine/pkg/models"
)

// Querier is the subset of pgxpool.Pool the repositories need. Tests
// substitute a pgxmock pool.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// VocabularyRepository provides data access for saved vocabulary entries.
type VocabularyRepository interface {
	// Upsert inserts the entry or, when (user_id, word) already exists,
	// overwrites the prior row. The entry's ID and timestamps are filled in.
	Upsert(ctx context.Context, entry *models.VocabularyEntry) error
	// ListByUser returns the user's entries, most recently updated first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.VocabularyEntry, error)
	// Delete removes one entry by owner and word.
	Delete(ctx context.Context, userID uuid.UUID, word string) error
}

type vocabularyRepository struct {
	db Querier
}

// NewVocabularyRepository creates a new VocabularyRepository.
func NewVocabularyRepository(db Querier) VocabularyRepository {
	return &vocabularyRepository{db: db}
}

var _ VocabularyRepository = (*vocabularyRepository)(nil)

const upsertEntryQuery = `
	INSERT INTO vocabulary_entries (user_id, word, reading, english, category)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (user_id, word) DO UPDATE
	SET reading = EXCLUDED.reading,
	    english = EXCLUDED.english,
	    category = EXCLUDED.category,
	    updated_at = now()
	RETURNING id, created_at, updated_at`

func (r *vocabularyRepository) Upsert(ctx context.Context, entry *models.VocabularyEntry) error {
	err := r.db.QueryRow(ctx, upsertEntryQuery,
		entry.UserID,
		entry.Word,
		entry.Reading,
		entry.English,
		entry.Category,
	).Scan(&entry.ID, &entry.CreatedAt, &entry.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert vocabulary entry: %w", err)
	}
	return nil
}

const listEntriesQuery = `
	SELECT id, user_id, word, reading, english, category, created_at, updated_at
	FROM vocabulary_entries
	WHERE user_id = $1
	ORDER BY updated_at DESC`

func (r *vocabularyRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.VocabularyEntry, error) {
	rows, err := r.db.Query(ctx, listEntriesQuery, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list vocabulary entries: %w", err)
	}
	defer rows.Close()

	var entries []*models.VocabularyEntry
	for rows.Next() {
		var e models.VocabularyEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Word, &e.Reading, &e.English, &e.Category, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan vocabulary entry: %w", err)
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read vocabulary entries: %w", err)
	}
	return entries, nil
}

const deleteEntryQuery = `
	DELETE FROM vocabulary_entries
	WHERE user_id = $1 AND word = $2`

func (r *vocabularyRepository) Delete(ctx context.Context, userID uuid.UUID, word string) error {
	tag, err := r.db.Exec(ctx, deleteEntryQuery, userID, word)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("failed to delete vocabulary entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
