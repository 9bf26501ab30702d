// Package services implements the business logic of kotoba-engine.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kotoba-app/kotoba-engine/pkg/apperrors"
	"github.com/kotoba-app/kotoba-engine/pkg/llm"
	"github.com/kotoba-app/kotoba-engine/pkg/models"
	"github.com/kotoba-app/kotoba-engine/pkg/prompts"
	"github.com/kotoba-app/kotoba-engine/pkg/retry"
)

// TranslationService turns an English sentence into a validated Japanese
// translation document via the external model.
type TranslationService struct {
	generator llm.TextGenerator
	retryCfg  *retry.Config
	logger    *zap.Logger
}

// NewTranslationService creates a translation service. generator may be nil
// when the model credential is absent; Translate then fails with a
// configuration error before any network activity.
func NewTranslationService(generator llm.TextGenerator, logger *zap.Logger) *TranslationService {
	return &TranslationService{
		generator: generator,
		retryCfg:  retry.ModelCallConfig(),
		logger:    logger.Named("translation"),
	}
}

// Translate runs the full pipeline: build prompt, call the model with
// bounded retries for transient failures, extract and parse the JSON
// document, and validate it against the response schema. The result is
// returned exactly as the model produced it; violations are reported, never
// patched up.
func (s *TranslationService) Translate(ctx context.Context, sentence string, hints []models.WordHint) (*models.TranslationResult, error) {
	sentence = strings.TrimSpace(sentence)
	if sentence == "" {
		return nil, fmt.Errorf("%w: sentence is required", apperrors.ErrInvalidInput)
	}
	if s.generator == nil {
		return nil, fmt.Errorf("%w: ANTHROPIC_API_KEY is not set", apperrors.ErrConfig)
	}

	prompt := prompts.BuildTranslationPrompt(sentence, hints)

	raw, err := retry.DoWithResult(ctx, s.retryCfg, func() (string, error) {
		return s.generator.GenerateResponse(ctx, prompt)
	})
	if err != nil {
		s.logger.Error("model call failed",
			zap.String("error_type", string(llm.GetErrorType(err))),
			zap.Error(err))
		return nil, mapModelError(err)
	}

	result, err := llm.ParseJSONResponse[models.TranslationResult](raw)
	if err != nil {
		var llmErr *llm.Error
		if errors.As(err, &llmErr) {
			s.logger.Error("unparseable model response",
				zap.Int("raw_len", len(llmErr.RawBody)),
				zap.Error(err))
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrMalformedResponse, err)
	}

	if err := result.Validate(); err != nil {
		s.logger.Error("model response violates schema", zap.Error(err))
		return nil, err
	}

	s.logger.Info("translation completed",
		zap.Int("word_count", len(result.Words)),
		zap.String("model", s.generator.GetModel()))

	return &result, nil
}

// mapModelError folds the model-call classification into the shared error
// kinds the API layer knows how to surface.
func mapModelError(err error) error {
	if errors.Is(err, apperrors.ErrConfig) {
		return err
	}
	switch llm.GetErrorType(err) {
	case llm.ErrorTypeMalformed:
		return fmt.Errorf("%w: %v", apperrors.ErrMalformedResponse, err)
	default:
		// Auth failures, rejected requests, and transient errors that
		// survived the retry budget all surface as an upstream failure.
		return fmt.Errorf("%w: %v", apperrors.ErrUpstreamRejected, err)
	}
}
