package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

// questionSchema mirrors the shape of a single generated quiz question.
func questionSchema() *Schema {
	return &Schema{
		Name:        "question",
		Description: "One multiple-choice question",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"question": map[string]any{"type": "string"},
				"options":  map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
				"correct":  map[string]any{"type": "integer", "minimum": 0, "maximum": 3},
			},
			"required": []any{"question", "options", "correct"},
		},
	}
}

func TestCheckSchema(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{
			name: "well formed question",
			raw:  `{"question":"What does DNS resolve?","options":["Names to IPs","IPs to MACs","Ports to hosts","Routes to peers"],"correct":0}`,
		},
		{
			name:    "missing correct index",
			raw:     `{"question":"What does DNS resolve?","options":["Names to IPs"]}`,
			wantErr: true,
		},
		{
			name:    "correct as string",
			raw:     `{"question":"Pick one","options":["a","b"],"correct":"0"}`,
			wantErr: true,
		},
		{
			name:    "correct above range",
			raw:     `{"question":"Pick one","options":["a","b","c","d"],"correct":7}`,
			wantErr: true,
		},
		{
			name:    "not JSON at all",
			raw:     `Sure! Here is your question:`,
			wantErr: true,
		},
		{
			name:    "empty output",
			raw:     ``,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkSchema(questionSchema(), json.RawMessage(tt.raw))
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var invalid *ErrInvalidResponse
			if !errors.As(err, &invalid) {
				t.Fatalf("expected ErrInvalidResponse, got %v (%T)", err, err)
			}
		})
	}
}

func TestCheckSchema_NilSchemaSkipsValidation(t *testing.T) {
	if err := checkSchema(nil, json.RawMessage(`plain prose answer`)); err != nil {
		t.Fatalf("nil schema must accept anything, got %v", err)
	}
}

func TestCheckSchema_NestedQuizDocument(t *testing.T) {
	schema := &Schema{
		Name:        "quiz",
		Description: "Full quiz payload",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"questions": map[string]any{
					"type":  "array",
					"items": questionSchema().Definition,
				},
			},
			"required": []any{"questions"},
		},
	}

	valid := json.RawMessage(`{"questions":[{"question":"Which record maps a name to an IPv4 address?","options":["A","AAAA","MX","CNAME"],"correct":0}]}`)
	if err := checkSchema(schema, valid); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	invalid := json.RawMessage(`{"questions":[{"question":"Which record?","options":"A, AAAA","correct":0}]}`)
	if err := checkSchema(schema, invalid); err == nil {
		t.Fatal("expected error for options given as a string")
	}
}
