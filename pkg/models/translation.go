package models

import (
	"fmt"

	"github.com/kotoba-app/kotoba-engine/pkg/apperrors"
)

// WordHint is an advisory pre-parsed token supplied by the client.
// Hints shape the prompt only; they are never validated against the
// model's output.
type WordHint struct {
	SurfaceForm string `json:"word"`
	Role        string `json:"role"`
}

// WordBreakdown is one lexical unit of the translated sentence, decomposed
// into its inflectional stem and ending morphemes when not already in
// dictionary form.
type WordBreakdown struct {
	SurfaceForm        string   `json:"word"`
	DictionaryForm     string   `json:"dictionary_form"`
	PartOfSpeech       string   `json:"part_of_speech"`
	ComponentMorphemes []string `json:"morphemes"`
	EnglishGloss       string   `json:"meaning"`
}

// TranslationResult is the structured document the model must return.
type TranslationResult struct {
	FullTranslation  string          `json:"translation"`
	WordOrder        []string        `json:"word_order"`
	WordOrderDisplay string          `json:"word_order_display"`
	Words            []WordBreakdown `json:"words"`
	GrammarNotes     []string        `json:"grammar_notes"`
}

// SchemaViolation reports a structural defect in a parsed TranslationResult.
// It names the offending field (and word index where relevant) so contract
// breaches with the model can be logged precisely. It unwraps to
// apperrors.ErrSchemaViolation.
type SchemaViolation struct {
	Field     string
	WordIndex int // -1 when the violation is not tied to a words element
	Reason    string
}

func (v *SchemaViolation) Error() string {
	if v.WordIndex >= 0 {
		return fmt.Sprintf("schema violation: %s (words[%d]): %s", v.Field, v.WordIndex, v.Reason)
	}
	return fmt.Sprintf("schema violation: %s: %s", v.Field, v.Reason)
}

func (v *SchemaViolation) Unwrap() error {
	return apperrors.ErrSchemaViolation
}

func violation(field string, index int, reason string) *SchemaViolation {
	return &SchemaViolation{Field: field, WordIndex: index, Reason: reason}
}

// Validate checks the result against the response schema. The data crosses
// a trust boundary, so shape is verified before any caller relies on it.
// Violations are reported, never silently corrected.
func (r *TranslationResult) Validate() error {
	if r.FullTranslation == "" {
		return violation("translation", -1, "must be a non-empty string")
	}
	if r.Words == nil {
		return violation("words", -1, "field is missing")
	}
	if len(r.Words) == 0 {
		return violation("words", -1, "must be non-empty when translation is non-empty")
	}
	if r.WordOrder == nil {
		return violation("word_order", -1, "field is missing")
	}
	if r.GrammarNotes == nil {
		return violation("grammar_notes", -1, "field is missing")
	}

	for i, w := range r.Words {
		switch {
		case w.SurfaceForm == "":
			return violation("word", i, "field is missing")
		case w.DictionaryForm == "":
			return violation("dictionary_form", i, "field is missing")
		case w.PartOfSpeech == "":
			return violation("part_of_speech", i, "field is missing")
		case w.EnglishGloss == "":
			return violation("meaning", i, "field is missing")
		case len(w.ComponentMorphemes) == 0:
			return violation("morphemes", i, "must contain at least one entry")
		}
		// An inflected word must be split into stem + at least one ending.
		if w.DictionaryForm != w.SurfaceForm && len(w.ComponentMorphemes) < 2 {
			return violation("morphemes", i,
				fmt.Sprintf("inflected word %q must decompose into at least two morphemes", w.SurfaceForm))
		}
	}
	return nil
}
