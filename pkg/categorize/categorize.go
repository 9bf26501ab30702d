// Package categorize assigns a topical category to a vocabulary entry.
//
// Classification is an explicit ordered rule table evaluated top to bottom;
// the first matching rule wins. The order is a contract, not an
// implementation accident: persisted categories depend on it. A word whose
// gloss matches both the food and time keyword sets resolves to "food"
// because food is evaluated first.
package categorize

import (
	"strings"

	"github.com/kotoba-app/kotoba-engine/pkg/models"
)

// rule pairs a category tag with its predicate. Predicates receive the
// original word and the lower-cased English gloss.
type rule struct {
	tag   string
	match func(word, english string) bool
}

// rules is evaluated in order. Do not reorder.
var rules = []rule{
	{models.CategoryFood, keywords(foodWords)},
	{models.CategoryAnimals, keywords(animalWords)},
	{models.CategoryEveryday, keywords(everydayWords)},
	{models.CategoryTime, keywords(timeWords)},
	{models.CategoryPlaces, keywords(placeWords)},
	{models.CategoryNumbers, isNumber},
	{models.CategoryFamily, keywords(familyWords)},
	{models.CategoryColors, keywords(colorWords)},
	{models.CategoryVerbs, isVerb},
}

var (
	foodWords = []string{
		"food", "eat", "meal", "dinner", "lunch", "breakfast", "rice",
		"bread", "meat", "vegetable", "fruit", "drink", "tea", "coffee",
		"sushi", "noodle", "soup", "snack", "dessert", "cook",
	}
	animalWords = []string{
		"animal", "fish", "dog", "cat", "bird", "horse", "cow", "pig",
		"rabbit", "mouse", "monkey", "bear", "insect", "frog", "turtle",
	}
	everydayWords = []string{
		"hello", "goodbye", "thank", "please", "sorry", "excuse",
		"greeting", "welcome", "good morning", "good night", "yes", "no",
	}
	timeWords = []string{
		"time", "today", "tomorrow", "yesterday", "morning", "evening",
		"night", "hour", "minute", "week", "month", "year", "season",
		"spring", "summer", "autumn", "winter", "clock",
	}
	placeWords = []string{
		"place", "school", "house", "home", "station", "shop", "store",
		"city", "town", "country", "restaurant", "hotel", "park",
		"library", "hospital", "office", "airport",
	}
	familyWords = []string{
		"family", "mother", "father", "brother", "sister", "parent",
		"child", "son", "daughter", "grandmother", "grandfather", "wife",
		"husband", "aunt", "uncle", "cousin",
	}
	colorWords = []string{
		"color", "colour", "red", "blue", "green", "yellow", "black",
		"white", "purple", "pink", "brown", "orange", "gray", "grey",
	}
	numberWords = []string{
		"number", "count", "one", "two", "three", "four", "five", "six",
		"seven", "eight", "nine", "ten", "hundred", "thousand",
	}
)

// Categorize returns the category tag for a word and its English gloss.
// It is a total, side-effect-free function: identical inputs always yield
// identical output, and there is always a tag (default "vocabulary").
func Categorize(word, english string) string {
	gloss := strings.ToLower(english)
	for _, r := range rules {
		if r.match(word, gloss) {
			return r.tag
		}
	}
	return models.CategoryVocabulary
}

func keywords(list []string) func(word, english string) bool {
	return func(_, english string) bool {
		for _, kw := range list {
			if strings.Contains(english, kw) {
				return true
			}
		}
		return false
	}
}

// isNumber matches literal numeral characters in the source word, or
// number keywords in the gloss. Substring matching is deliberately loose
// ("one" matches "phone"); the imprecision is accepted behavior.
func isNumber(word, english string) bool {
	for _, r := range word {
		if r >= '0' && r <= '9' {
			return true
		}
		if strings.ContainsRune("一二三四五六七八九十百千万", r) {
			return true
		}
	}
	for _, kw := range numberWords {
		if strings.Contains(english, kw) {
			return true
		}
	}
	return false
}

// verbEndings are the u-row kana that dictionary-form verbs end in.
var verbEndings = []string{"う", "く", "ぐ", "す", "つ", "ぬ", "ぶ", "む", "る"}

// isVerb is a weak heuristic: an inflectional suffix on the source word,
// or infinitive/gerund/past-tense markers in the gloss. False positives
// (nouns ending in る) and false negatives are known and preserved, since
// stored categories were assigned under exactly this behavior.
func isVerb(word, english string) bool {
	for _, suffix := range verbEndings {
		if strings.HasSuffix(word, suffix) {
			return true
		}
	}
	if strings.HasPrefix(english, "to ") {
		return true
	}
	return strings.HasSuffix(english, "ing") || strings.HasSuffix(english, "ed")
}
