// Package prompts builds the instruction strings sent to the model.
package prompts

import (
	"fmt"
	"strings"

	"github.com/kotoba-app/kotoba-engine/pkg/models"
)

// BuildTranslationPrompt creates the prompt for translating an English
// sentence into Japanese with a per-word grammatical breakdown. It is a
// pure function: identical inputs produce an identical prompt. Hints are
// advisory tokens the client pre-parsed; the model may ignore them.
func BuildTranslationPrompt(sentence string, hints []models.WordHint) string {
	var prompt strings.Builder

	prompt.WriteString("You are a Japanese language teacher helping an English-speaking student.\n\n")
	prompt.WriteString("Translate the following sentence into natural Japanese and break it down word by word:\n\n")
	prompt.WriteString(fmt.Sprintf("Sentence: %s\n", sentence))

	if len(hints) > 0 {
		prompt.WriteString("\nThe student has pre-parsed these words (advisory only):\n")
		for _, h := range hints {
			prompt.WriteString(fmt.Sprintf("- %s (%s)\n", h.SurfaceForm, h.Role))
		}
	}

	prompt.WriteString(`
Respond with a JSON object containing exactly these fields:
- "translation": the full Japanese translation as a string
- "word_order": array of the Japanese words in sentence order
- "word_order_display": the word order shown with arrows, e.g. "私 → は → 学生 → です"
- "words": array of objects, one per word, each with:
  - "word": the word as it appears in the sentence
  - "dictionary_form": the uninflected base form
  - "part_of_speech": noun, verb, particle, adjective, etc.
  - "morphemes": array splitting the word into its parts
  - "meaning": the English meaning
- "grammar_notes": array of short notes about the grammar used

Decomposition rules for "morphemes":
- If a word is in its dictionary form, the array contains the word itself as a single entry.
- If a word is NOT in its dictionary form - it carries tense, politeness, negation, desire, or any other inflection - split it into the stem plus one or more ending segments. For example 食べています becomes ["食べ", "て", "います"].

Return ONLY the JSON object, with no explanation, no markdown, and no code fences.`)

	return prompt.String()
}
