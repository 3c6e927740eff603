package llm

import (
	"context"
	"encoding/json"
)

// Provider abstracts one model backend. The tutoring agents only ever
// see this interface; which vendor serves a refinement, a docs page or
// a quiz is decided by configuration.
type Provider interface {
	// Generate runs one completion. With req.Schema set the provider
	// uses its structured-output mechanism and Content is validated
	// JSON; without it, Content is the raw text wrapped as a JSON
	// string.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID reports the resolved model this provider calls.
	ModelID() string
}

// Request is one completion to run.
type Request struct {
	// System sets the model's role, e.g. the tutor persona.
	System string

	// Messages is the conversation so far. Most operations here are
	// single-turn; the learning chat sends the whole exchange.
	Messages []Message

	// Schema, when set, constrains the output to a JSON shape
	// (quiz, refined_topic, related_topics, ...).
	Schema *Schema

	// MaxTokens bounds the response length.
	MaxTokens int

	// Temperature in [0, 1]. Zero means deterministic, which is what
	// quiz generation and scoring want.
	Temperature float64
}

// Message is one turn of conversation.
type Message struct {
	Role    Role
	Content string
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema names and describes a JSON shape the model must produce.
// Name doubles as the Anthropic tool name and the OpenAI schema name,
// so keep it short and snake_case or kebab-case.
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

// Response is the outcome of one completion.
type Response struct {
	// Content is validated JSON when the request carried a Schema,
	// otherwise the raw text as a JSON string.
	Content json.RawMessage

	Usage Usage

	// Model is the model that actually served the call, which can
	// differ from the request when a router substitutes.
	Model string

	// StopReason is normalized to "end", "max_tokens" or "error".
	StopReason string
}

// Usage is the token accounting for one call.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
