package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kotoba-app/kotoba-engine/pkg/apperrors"
	"github.com/kotoba-app/kotoba-engine/pkg/llm"
	"github.com/kotoba-app/kotoba-engine/pkg/models"
	"github.com/kotoba-app/kotoba-engine/pkg/retry"
)

// fastRetry keeps transient-failure tests from sleeping through the real
// backoff schedule.
func fastRetry() *retry.Config {
	return &retry.Config{
		MaxRetries:   2,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   2.0,
	}
}

const eatingResponse = `{
	"translation": "私は寿司を食べています",
	"word_order": ["私", "は", "寿司", "を", "食べています"],
	"word_order_display": "私 → は → 寿司 → を → 食べています",
	"words": [
		{"word": "私", "dictionary_form": "私", "part_of_speech": "pronoun", "morphemes": ["私"], "meaning": "I"},
		{"word": "は", "dictionary_form": "は", "part_of_speech": "particle", "morphemes": ["は"], "meaning": "topic marker"},
		{"word": "寿司", "dictionary_form": "寿司", "part_of_speech": "noun", "morphemes": ["寿司"], "meaning": "sushi"},
		{"word": "を", "dictionary_form": "を", "part_of_speech": "particle", "morphemes": ["を"], "meaning": "object marker"},
		{"word": "食べています", "dictionary_form": "食べる", "part_of_speech": "verb", "morphemes": ["食べ", "て", "います"], "meaning": "is eating"}
	],
	"grammar_notes": ["ています marks the progressive aspect"]
}`

func TestTranslate_Success(t *testing.T) {
	mock := llm.NewMockClient()
	mock.GenerateResponseFunc = func(ctx context.Context, prompt string) (string, error) {
		return eatingResponse, nil
	}
	svc := NewTranslationService(mock, zap.NewNop())

	result, err := svc.Translate(context.Background(), "I am eating sushi", nil)
	require.NoError(t, err)

	assert.Equal(t, "私は寿司を食べています", result.FullTranslation)
	require.Len(t, result.Words, 5)

	eating := result.Words[4]
	assert.Equal(t, "食べています", eating.SurfaceForm)
	assert.Equal(t, "食べる", eating.DictionaryForm)
	assert.Equal(t, []string{"食べ", "て", "います"}, eating.ComponentMorphemes)

	assert.Equal(t, 1, mock.GenerateResponseCalls)
	assert.Contains(t, mock.Prompts[0], "I am eating sushi")
}

func TestTranslate_HintsReachPrompt(t *testing.T) {
	mock := llm.NewMockClient()
	mock.GenerateResponseFunc = func(ctx context.Context, prompt string) (string, error) {
		return eatingResponse, nil
	}
	svc := NewTranslationService(mock, zap.NewNop())

	hints := []models.WordHint{{SurfaceForm: "sushi", Role: "object"}}
	_, err := svc.Translate(context.Background(), "I am eating sushi", hints)
	require.NoError(t, err)
	assert.Contains(t, mock.Prompts[0], "sushi (object)")
}

func TestTranslate_EmptySentence(t *testing.T) {
	svc := NewTranslationService(llm.NewMockClient(), zap.NewNop())

	_, err := svc.Translate(context.Background(), "   ", nil)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput), "got %v", err)
}

func TestTranslate_NoGenerator(t *testing.T) {
	svc := NewTranslationService(nil, zap.NewNop())

	_, err := svc.Translate(context.Background(), "hello", nil)
	assert.True(t, errors.Is(err, apperrors.ErrConfig), "got %v", err)
}

func TestTranslate_RetriesTransientThenSucceeds(t *testing.T) {
	mock := llm.NewMockClient()
	mock.GenerateResponseFunc = func(ctx context.Context, prompt string) (string, error) {
		if mock.GenerateResponseCalls < 3 {
			return "", llm.NewError(llm.ErrorTypeTransient, "rate limited", true, nil)
		}
		return eatingResponse, nil
	}
	svc := NewTranslationService(mock, zap.NewNop())
	svc.retryCfg = fastRetry()

	result, err := svc.Translate(context.Background(), "I am eating sushi", nil)
	require.NoError(t, err)
	assert.Equal(t, 3, mock.GenerateResponseCalls)
	assert.NotEmpty(t, result.FullTranslation)
}

func TestTranslate_TransientExhausted(t *testing.T) {
	mock := llm.NewMockClient()
	mock.GenerateResponseFunc = func(ctx context.Context, prompt string) (string, error) {
		return "", llm.NewError(llm.ErrorTypeTransient, "server error", true, nil)
	}
	svc := NewTranslationService(mock, zap.NewNop())
	svc.retryCfg = fastRetry()

	_, err := svc.Translate(context.Background(), "hello", nil)
	assert.True(t, errors.Is(err, apperrors.ErrUpstreamRejected), "got %v", err)
	assert.Equal(t, 3, mock.GenerateResponseCalls, "initial attempt plus two retries")
}

func TestTranslate_PermanentNotRetried(t *testing.T) {
	mock := llm.NewMockClient()
	mock.GenerateResponseFunc = func(ctx context.Context, prompt string) (string, error) {
		return "", llm.NewError(llm.ErrorTypeAuth, "authentication failed", false, nil)
	}
	svc := NewTranslationService(mock, zap.NewNop())
	svc.retryCfg = fastRetry()

	_, err := svc.Translate(context.Background(), "hello", nil)
	assert.True(t, errors.Is(err, apperrors.ErrUpstreamRejected), "got %v", err)
	assert.Equal(t, 1, mock.GenerateResponseCalls, "permanent failures must not be retried")
}

func TestTranslate_MalformedResponseNotRetried(t *testing.T) {
	mock := llm.NewMockClient()
	mock.GenerateResponseFunc = func(ctx context.Context, prompt string) (string, error) {
		return "Sure! Here is your translation, hope it helps.", nil
	}
	svc := NewTranslationService(mock, zap.NewNop())
	svc.retryCfg = fastRetry()

	_, err := svc.Translate(context.Background(), "hello", nil)
	assert.True(t, errors.Is(err, apperrors.ErrMalformedResponse), "got %v", err)
	assert.Equal(t, 1, mock.GenerateResponseCalls)
}

func TestTranslate_FencedResponseStillParses(t *testing.T) {
	mock := llm.NewMockClient()
	mock.GenerateResponseFunc = func(ctx context.Context, prompt string) (string, error) {
		return "```json\n" + eatingResponse + "\n```", nil
	}
	svc := NewTranslationService(mock, zap.NewNop())

	result, err := svc.Translate(context.Background(), "I am eating sushi", nil)
	require.NoError(t, err)
	assert.Equal(t, "私は寿司を食べています", result.FullTranslation)
}

func TestTranslate_SchemaViolation(t *testing.T) {
	// The inflected verb is missing its decomposition.
	bad := strings.Replace(eatingResponse,
		`"morphemes": ["食べ", "て", "います"]`,
		`"morphemes": ["食べています"]`, 1)

	mock := llm.NewMockClient()
	mock.GenerateResponseFunc = func(ctx context.Context, prompt string) (string, error) {
		return bad, nil
	}
	svc := NewTranslationService(mock, zap.NewNop())

	_, err := svc.Translate(context.Background(), "I am eating sushi", nil)
	assert.True(t, errors.Is(err, apperrors.ErrSchemaViolation), "got %v", err)

	var violation *models.SchemaViolation
	require.True(t, errors.As(err, &violation))
	assert.Equal(t, "morphemes", violation.Field)
	assert.Equal(t, 4, violation.WordIndex)
}
