package llm

import (
	"testing"

	"google.golang.org/genai"
)

func TestGeminiSchema(t *testing.T) {
	def := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"summary":    map[string]any{"type": "string", "description": "short text"},
			"confidence": map[string]any{"type": "number"},
			"tone":       map[string]any{"type": "string", "enum": []any{"warm", "neutral"}},
			"keywords": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
		},
		"required": []string{"summary"},
	}

	s := geminiSchema(def)
	if s.Type != genai.TypeObject {
		t.Fatalf("type = %v, want object", s.Type)
	}
	if len(s.Properties) != 4 {
		t.Fatalf("properties = %d, want 4", len(s.Properties))
	}
	if s.Properties["summary"].Description != "short text" {
		t.Errorf("summary description = %q", s.Properties["summary"].Description)
	}
	if s.Properties["confidence"].Type != genai.TypeNumber {
		t.Errorf("confidence type = %v", s.Properties["confidence"].Type)
	}
	if got := s.Properties["tone"].Enum; len(got) != 2 || got[0] != "warm" {
		t.Errorf("tone enum = %v", got)
	}
	if s.Properties["keywords"].Items == nil || s.Properties["keywords"].Items.Type != genai.TypeString {
		t.Errorf("keywords items = %+v", s.Properties["keywords"].Items)
	}
	if len(s.Required) != 1 || s.Required[0] != "summary" {
		t.Errorf("required = %v", s.Required)
	}
}

func TestGeminiSchema_UnknownTypeDefaultsToString(t *testing.T) {
	if s := geminiSchema(map[string]any{"type": "null"}); s.Type != genai.TypeString {
		t.Errorf("type = %v, want string", s.Type)
	}
}
