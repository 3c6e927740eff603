package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
)

func TestMockProvider_DrainsQueueInOrder(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{
			Content: json.RawMessage(`{"refined_topic":"DNS resolution"}`),
			Usage:   Usage{InputTokens: 42, OutputTokens: 9, TotalTokens: 51},
		},
		MockResponse{Content: json.RawMessage(`{"questions":[]}`)},
	)

	first, err := mock.Generate(context.Background(), Request{
		Messages: []Message{{Role: RoleUser, Content: "how does dns work"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(first.Content) != `{"refined_topic":"DNS resolution"}` {
		t.Fatalf("first reply = %s", first.Content)
	}
	if first.Usage.InputTokens != 42 {
		t.Fatalf("input tokens = %d, want 42", first.Usage.InputTokens)
	}
	if first.StopReason != "end" {
		t.Fatalf("stop reason = %q, want end", first.StopReason)
	}

	second, err := mock.Generate(context.Background(), Request{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(second.Content) != `{"questions":[]}` {
		t.Fatalf("second reply = %s", second.Content)
	}
}

func TestMockProvider_EmptyQueueIsUnavailable(t *testing.T) {
	mock := NewMockProvider()
	_, err := mock.Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got %v (%T)", err, err)
	}
}

func TestMockProvider_RecordsRequestAndPurpose(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{}`)})

	ctx := WithPurpose(context.Background(), "docs")
	_, _ = mock.Generate(ctx, Request{
		System:   "You are a patient tutor.",
		Messages: []Message{{Role: RoleUser, Content: "Write study notes on binary search trees"}},
	})

	if mock.CallCount() != 1 {
		t.Fatalf("calls = %d, want 1", mock.CallCount())
	}
	call := mock.Calls[0]
	if call.System != "You are a patient tutor." {
		t.Fatalf("system = %q", call.System)
	}
	if call.Purpose != "docs" {
		t.Fatalf("purpose = %q, want docs", call.Purpose)
	}
}

func TestMockProvider_SurfacesQueuedError(t *testing.T) {
	mock := NewMockProvider(MockResponse{Err: &ErrRateLimit{RetryAfter: 0}})

	_, err := mock.Generate(context.Background(), Request{})
	var limited *ErrRateLimit
	if !errors.As(err, &limited) {
		t.Fatalf("expected ErrRateLimit, got %v (%T)", err, err)
	}
}

func TestPurposeRoundTrip(t *testing.T) {
	if p := PurposeFrom(context.Background()); p != "unknown" {
		t.Fatalf("bare context purpose = %q, want unknown", p)
	}
	ctx := WithPurpose(context.Background(), "quiz-gen")
	if p := PurposeFrom(ctx); p != "quiz-gen" {
		t.Fatalf("purpose = %q, want quiz-gen", p)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"anthropic without key", Config{Provider: "anthropic"}, true},
		{"anthropic with key", Config{Provider: "anthropic", Anthropic: AnthropicConfig{APIKey: "sk-test"}}, false},
		{"openai without key", Config{Provider: "openai"}, true},
		{"openai with key", Config{Provider: "openai", OpenAI: OpenAIConfig{APIKey: "sk-test"}}, false},
		{"gemini without key", Config{Provider: "gemini"}, true},
		{"mock needs no key", Config{Provider: "mock"}, false},
		{"unknown provider", Config{Provider: "llamafile"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
