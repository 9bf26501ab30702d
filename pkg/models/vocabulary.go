package models

import (
	"time"

	"github.com/google/uuid"
)

// Category values assigned by the heuristic categorizer. Persisted rows
// reference these literals, so the set only grows.
const (
	CategoryFood       = "food"
	CategoryAnimals    = "animals"
	CategoryEveryday   = "everyday"
	CategoryTime       = "time"
	CategoryPlaces     = "places"
	CategoryNumbers    = "numbers"
	CategoryFamily     = "family"
	CategoryColors     = "colors"
	CategoryVerbs      = "verbs"
	CategoryVocabulary = "vocabulary" // default bucket
)

// VocabularyEntry is one saved word for one user.
// (user_id, word) is unique: a repeat save overwrites the prior entry.
// Stored in vocabulary_entries table.
type VocabularyEntry struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Word      string    `json:"word"`
	Reading   string    `json:"reading"`
	English   string    `json:"english"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
