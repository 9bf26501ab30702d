package llm

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType classifies what went wrong with a model call.
type ErrorType string

const (
	ErrorTypeConfig    ErrorType = "config"    // credential/config missing, caught before any network call
	ErrorTypeAuth      ErrorType = "auth"      // upstream rejected the credential
	ErrorTypeRejected  ErrorType = "rejected"  // upstream returned a non-transient 4xx
	ErrorTypeTransient ErrorType = "transient" // timeout, 5xx, rate limit
	ErrorTypeMalformed ErrorType = "malformed" // response could not be parsed as JSON
	ErrorTypeUnknown   ErrorType = "unknown"
)

// Error is a structured model-call error with classification.
type Error struct {
	Type       ErrorType
	Message    string
	Retryable  bool
	Cause      error
	StatusCode int    // HTTP status code if applicable
	RawBody    string // raw response text, kept for diagnostics on malformed responses
}

// Error implements the error interface.
func (e *Error) Error() string {
	var parts []string
	parts = append(parts, string(e.Type))
	if e.StatusCode > 0 {
		parts = append(parts, fmt.Sprintf("HTTP %d", e.StatusCode))
	}
	parts = append(parts, e.Message)

	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", strings.Join(parts, " "), e.Cause)
	}
	return strings.Join(parts, " ")
}

// Unwrap returns the underlying cause for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// IsRetryable implements the retry.RetryableError interface so the retry
// package can check retryability without importing llm.
func (e *Error) IsRetryable() bool {
	return e.Retryable
}

// NewError creates a new structured model-call error.
func NewError(errType ErrorType, message string, retryable bool, cause error) *Error {
	return &Error{
		Type:      errType,
		Message:   message,
		Retryable: retryable,
		Cause:     cause,
	}
}

// ClassifyError categorizes an error from the Anthropic SDK into a
// structured Error. Transport errors carry status codes in their text, so
// classification pattern-matches the error string.
func ClassifyError(err error) *Error {
	if err == nil {
		return nil
	}

	var llmErr *Error
	if errors.As(err, &llmErr) {
		return llmErr
	}

	errStr := err.Error()
	lower := strings.ToLower(errStr)

	statusCode := 0
	for _, code := range []int{400, 401, 403, 404, 429, 500, 502, 503, 504, 529} {
		if strings.Contains(errStr, fmt.Sprintf("%d", code)) {
			statusCode = code
			break
		}
	}

	// Authentication errors (not retryable)
	if statusCode == 401 || statusCode == 403 ||
		strings.Contains(lower, "unauthorized") || strings.Contains(lower, "invalid api key") ||
		strings.Contains(lower, "authentication") {
		e := NewError(ErrorTypeAuth, "authentication failed", false, err)
		e.StatusCode = statusCode
		return e
	}

	// Rate limiting and overload (retryable after backoff)
	if statusCode == 429 || statusCode == 529 || strings.Contains(lower, "rate limit") ||
		strings.Contains(lower, "overloaded") {
		e := NewError(ErrorTypeTransient, "rate limited", true, err)
		e.StatusCode = statusCode
		return e
	}

	// Timeouts and connection failures (retryable)
	if strings.Contains(lower, "timeout") ||
		strings.Contains(lower, "deadline exceeded") ||
		strings.Contains(lower, "connection refused") ||
		strings.Contains(lower, "connection reset") ||
		strings.Contains(lower, "no such host") {
		e := NewError(ErrorTypeTransient, "request timeout or connection failure", true, err)
		e.StatusCode = statusCode
		return e
	}

	// 5xx server errors (retryable)
	if statusCode >= 500 {
		e := NewError(ErrorTypeTransient, "server error", true, err)
		e.StatusCode = statusCode
		return e
	}

	// Remaining 4xx: the request itself was rejected (not retryable)
	if statusCode >= 400 && statusCode < 500 {
		e := NewError(ErrorTypeRejected, "request rejected", false, err)
		e.StatusCode = statusCode
		return e
	}

	return NewError(ErrorTypeUnknown, "model call failed", false, err)
}

// GetErrorType extracts the ErrorType from an error.
func GetErrorType(err error) ErrorType {
	var llmErr *Error
	if errors.As(err, &llmErr) {
		return llmErr.Type
	}
	return ErrorTypeUnknown
}
