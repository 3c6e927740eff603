package llm

import "testing"

func TestGeminiModelAliases(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"gemini-flash", "gemini-2.0-flash"},
		{"gemini-pro", "gemini-2.0-pro"},
		{"gemini-2.5-flash", "gemini-2.5-flash"}, // literal ID passes through
	}
	for _, tt := range tests {
		if got := resolveModel(tt.in, geminiModels); got != tt.want {
			t.Errorf("resolveModel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestToGeminiSchema(t *testing.T) {
	// The quiz shape exercises every JSON Schema construct the agents
	// emit: nested objects, arrays, enums and required lists.
	def := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"question":   map[string]any{"type": "string"},
						"options":    map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
						"correct":    map[string]any{"type": "integer"},
						"difficulty": map[string]any{"type": "string", "enum": []any{"easy", "medium", "hard"}},
					},
					"required": []any{"question", "options", "correct"},
				},
			},
		},
		"required": []any{"questions"},
	}

	schema := toGeminiSchema(def)

	if schema.Type != "OBJECT" {
		t.Fatalf("root type = %s, want OBJECT", schema.Type)
	}
	if len(schema.Required) != 1 || schema.Required[0] != "questions" {
		t.Fatalf("root required = %v", schema.Required)
	}

	questions := schema.Properties["questions"]
	if questions == nil || questions.Type != "ARRAY" {
		t.Fatalf("questions = %+v, want ARRAY", questions)
	}

	item := questions.Items
	if item.Type != "OBJECT" {
		t.Fatalf("item type = %s, want OBJECT", item.Type)
	}
	if item.Properties["correct"].Type != "INTEGER" {
		t.Errorf("correct type = %s, want INTEGER", item.Properties["correct"].Type)
	}
	if item.Properties["options"].Items.Type != "STRING" {
		t.Errorf("options item type = %s, want STRING", item.Properties["options"].Items.Type)
	}
	if got := item.Properties["difficulty"].Enum; len(got) != 3 {
		t.Errorf("difficulty enum = %v, want 3 values", got)
	}
	if len(item.Required) != 3 {
		t.Errorf("item required = %v, want 3 fields", item.Required)
	}
}
