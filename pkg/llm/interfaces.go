package llm

import "context"

// TextGenerator defines the interface for single-turn model calls.
// Use it for dependency injection to enable mocking in tests.
type TextGenerator interface {
	// GenerateResponse sends a prompt and returns the raw response text.
	GenerateResponse(ctx context.Context, prompt string) (string, error)

	// GetModel returns the configured model name.
	GetModel() string
}

// Ensure Client implements TextGenerator at compile time.
var _ TextGenerator = (*Client)(nil)
