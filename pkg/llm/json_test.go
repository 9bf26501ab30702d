package llm

import (
	"errors"
	"testing"
)

func TestExtractJSON_PlainObject(t *testing.T) {
	input := `{"translation": "魚", "words": []}`
	result, err := ExtractJSON(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != input {
		t.Errorf("expected %q, got %q", input, result)
	}
}

func TestExtractJSON_CodeFence(t *testing.T) {
	input := "```json\n{\"translation\": \"魚\"}\n```"
	expected := `{"translation": "魚"}`
	result, err := ExtractJSON(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != expected {
		t.Errorf("expected %q, got %q", expected, result)
	}
}

func TestExtractJSON_SurroundingProse(t *testing.T) {
	input := `Here is the breakdown you asked for:

{"translation": "私は学生です", "words": [{"word": "私"}]}

Let me know if you need anything else.`
	expected := `{"translation": "私は学生です", "words": [{"word": "私"}]}`
	result, err := ExtractJSON(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != expected {
		t.Errorf("expected %q, got %q", expected, result)
	}
}

func TestExtractJSON_NestedObjectsInProse(t *testing.T) {
	input := `prose {"outer": {"inner": [1, 2, {"deep": "}"}]}} more prose`
	expected := `{"outer": {"inner": [1, 2, {"deep": "}"}]}}`
	result, err := ExtractJSON(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != expected {
		t.Errorf("expected %q, got %q", expected, result)
	}
}

func TestExtractJSON_BracesInsideStrings(t *testing.T) {
	input := `{"note": "an { unbalanced \" brace"}`
	result, err := ExtractJSON(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != input {
		t.Errorf("expected %q, got %q", input, result)
	}
}

func TestExtractJSON_NoJSON(t *testing.T) {
	if _, err := ExtractJSON("I cannot translate that sentence."); err == nil {
		t.Fatal("expected error for prose-only response")
	}
}

func TestParseJSONResponse_Success(t *testing.T) {
	type payload struct {
		Translation string `json:"translation"`
	}
	result, err := ParseJSONResponse[payload]("```\n{\"translation\": \"魚\"}\n```")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Translation != "魚" {
		t.Errorf("expected 魚, got %q", result.Translation)
	}
}

func TestParseJSONResponse_MalformedKeepsRawBody(t *testing.T) {
	raw := "sorry, no JSON today"
	_, err := ParseJSONResponse[map[string]any](raw)
	if err == nil {
		t.Fatal("expected error")
	}

	var llmErr *Error
	if !errors.As(err, &llmErr) {
		t.Fatalf("expected *llm.Error, got %T", err)
	}
	if llmErr.Type != ErrorTypeMalformed {
		t.Errorf("expected malformed type, got %q", llmErr.Type)
	}
	if llmErr.RawBody != raw {
		t.Errorf("raw body not preserved for diagnostics: %q", llmErr.RawBody)
	}
	if llmErr.IsRetryable() {
		t.Error("malformed responses must not be retried")
	}
}
