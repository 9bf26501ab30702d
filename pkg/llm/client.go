// Package llm provides the client for the external text-generation capability.
package llm

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/liushuangls/go-anthropic/v2"
	"go.uber.org/zap"

	"github.com/kotoba-app/kotoba-engine/pkg/apperrors"
)

// Client sends prompts to the Anthropic Messages API.
type Client struct {
	client    *anthropic.Client
	model     string
	maxTokens int
	logger    *zap.Logger
}

// Config holds configuration for creating a model client.
type Config struct {
	APIKey    string
	Model     string
	MaxTokens int
	Timeout   time.Duration
}

// NewClient creates an Anthropic-backed client. A missing credential is a
// configuration error, reported here so no network call is ever attempted
// without one.
func NewClient(cfg *Config, logger *zap.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, NewError(ErrorTypeConfig, "ANTHROPIC_API_KEY is not set", false, apperrors.ErrConfig)
	}
	if cfg.Model == "" {
		return nil, NewError(ErrorTypeConfig, "model is required", false, apperrors.ErrConfig)
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 2048
	}

	return &Client{
		client:    anthropic.NewClient(cfg.APIKey, anthropic.WithHTTPClient(&http.Client{Timeout: timeout})),
		model:     cfg.Model,
		maxTokens: maxTokens,
		logger:    logger.Named("llm"),
	}, nil
}

// GenerateResponse sends a single-turn prompt and returns the raw text of
// the model's reply. Errors are classified for the retry policy upstream.
func (c *Client) GenerateResponse(ctx context.Context, prompt string) (string, error) {
	c.logger.Debug("model request",
		zap.String("model", c.model),
		zap.Int("prompt_len", len(prompt)))

	start := time.Now()

	resp, err := c.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:     anthropic.Model(c.model),
		MaxTokens: c.maxTokens,
		Messages: []anthropic.Message{
			{Role: anthropic.RoleUser, Content: []anthropic.MessageContent{
				{Type: "text", Text: &prompt},
			}},
		},
	})
	if err != nil {
		c.logger.Error("model request failed",
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return "", ClassifyError(err)
	}

	var text string
	for _, block := range resp.Content {
		if block.Type == "text" && block.Text != nil {
			text = *block.Text
			break
		}
	}
	if strings.TrimSpace(text) == "" {
		return "", NewError(ErrorTypeMalformed, "no text content in response", false, nil)
	}

	c.logger.Info("model request completed",
		zap.Int("input_tokens", resp.Usage.InputTokens),
		zap.Int("output_tokens", resp.Usage.OutputTokens),
		zap.Duration("elapsed", time.Since(start)))

	return text, nil
}

// GetModel returns the configured model name.
func (c *Client) GetModel() string {
	return c.model
}
