package llm

import (
	"errors"
	"testing"

	"google.golang.org/genai"
)

func TestGeminiModelMapping(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"gemini-flash", "gemini-2.5-flash"},
		{"gemini-pro", "gemini-2.5-pro"},
		{"gemini-2.0-flash", "gemini-2.0-flash"}, // Pass-through
	}
	for _, tt := range tests {
		got := resolveModel(tt.input, geminiModels)
		if got != tt.expected {
			t.Errorf("resolveModel(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestBuildGeminiSchema(t *testing.T) {
	def := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"skills":   map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"level":    map[string]any{"type": "string", "enum": []any{"basic", "intermediate"}},
			"feedback": map[string]any{"type": "string"},
		},
		"required": []string{"skills", "feedback"},
	}

	schema := buildGeminiSchema(def)

	if schema.Type != genai.TypeObject {
		t.Fatalf("expected OBJECT type, got %s", schema.Type)
	}
	if len(schema.Properties) != 3 {
		t.Fatalf("expected 3 properties, got %d", len(schema.Properties))
	}
	if schema.Properties["skills"].Items.Type != genai.TypeString {
		t.Fatalf("expected STRING items, got %s", schema.Properties["skills"].Items.Type)
	}
	if len(schema.Properties["level"].Enum) != 2 {
		t.Fatalf("expected 2 enum values, got %d", len(schema.Properties["level"].Enum))
	}
	// []string and []any both count.
	if len(schema.Required) != 2 {
		t.Fatalf("expected 2 required fields, got %d", len(schema.Required))
	}
}

func TestMapGeminiError(t *testing.T) {
	var rl *ErrRateLimit
	if err := mapGeminiError(genai.APIError{Code: 429}); !errors.As(err, &rl) {
		t.Fatalf("429 should map to ErrRateLimit, got %T", err)
	}

	var unavail *ErrProviderUnavailable
	if err := mapGeminiError(genai.APIError{Code: 503}); !errors.As(err, &unavail) {
		t.Fatalf("503 should map to ErrProviderUnavailable, got %T", err)
	}
}
