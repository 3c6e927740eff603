package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/tutora-app/tutora/internal/learning"
	"github.com/tutora-app/tutora/internal/llm"
	"github.com/tutora-app/tutora/internal/quiz"
)

// Service runs the tutoring agents on a shared LLM provider. Methods
// are synchronous; callers run them off the UI loop.
type Service struct {
	provider llm.Provider
	cfg      Config
}

// NewService creates an agent service.
func NewService(provider llm.Provider, cfg Config) *Service {
	return &Service{provider: provider, cfg: cfg}
}

// QuizInput describes one quiz generation request.
type QuizInput struct {
	Topic         string
	Documentation string

	// WeakAreas seeds a remediation quiz. Empty for a first attempt.
	WeakAreas []string

	// Attempt is the 1-based attempt number.
	Attempt int
}

// AnswerInput describes one chat question during the learning phase.
type AnswerInput struct {
	Topic         string
	Documentation string
	Question      string

	// History is the prior exchanges, oldest first.
	History []learning.ChatTurn
}

// FeedbackInput describes a feedback request for a scored quiz.
type FeedbackInput struct {
	Topic         string
	Documentation string
	Result        quiz.Result
}

// RelatedInput describes a follow-on topic request after mastery.
type RelatedInput struct {
	Topic         string
	Documentation string
}

// RefineTopic turns free-form user input into a clean topic name.
// It falls back to the trimmed input when the model returns nothing
// usable.
func (s *Service) RefineTopic(ctx context.Context, raw string) (string, error) {
	ctx = llm.WithPurpose(ctx, "topic-refine")

	req := llm.Request{
		System: refineSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildRefineUserMessage(raw)},
		},
		Schema:    RefinedTopicSchema,
		MaxTokens: s.cfg.RefineMaxTokens,
	}

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return "", fmt.Errorf("topic refinement: %w", err)
	}

	var out struct {
		Topic string `json:"topic"`
	}
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return "", fmt.Errorf("parse refined topic: %w", err)
	}

	topic := strings.TrimSpace(out.Topic)
	if topic == "" {
		topic = strings.TrimSpace(raw)
	}
	return topic, nil
}

// GenerateDocs produces Markdown study material for a topic.
func (s *Service) GenerateDocs(ctx context.Context, topic string) (string, error) {
	ctx = llm.WithPurpose(ctx, "docs")

	req := llm.Request{
		System: docsSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildDocsUserMessage(topic)},
		},
		MaxTokens:   s.cfg.DocsMaxTokens,
		Temperature: s.cfg.Temperature,
	}

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return "", fmt.Errorf("documentation generation: %w", err)
	}

	return decodeText(resp.Content)
}

// GenerateQuiz produces a validated question set. When the schema path
// yields something unparsable it falls back to lenient extraction of a
// bare JSON array before giving up.
func (s *Service) GenerateQuiz(ctx context.Context, input QuizInput) ([]quiz.Question, error) {
	ctx = llm.WithPurpose(ctx, "quiz-gen")

	req := llm.Request{
		System: quizSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildQuizUserMessage(input)},
		},
		Schema:    QuizSchema,
		MaxTokens: s.cfg.QuizMaxTokens,
	}

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("quiz generation: %w", err)
	}

	var out struct {
		Questions []quiz.Question `json:"questions"`
	}
	if err := json.Unmarshal(resp.Content, &out); err != nil || len(out.Questions) == 0 {
		questions, parseErr := quiz.Parse(resp.Content)
		if parseErr != nil {
			return nil, fmt.Errorf("parse quiz: %w", parseErr)
		}
		return questions, nil
	}

	for i, q := range out.Questions {
		if err := q.Validate(); err != nil {
			return nil, fmt.Errorf("question %d: %w", i+1, err)
		}
	}
	return out.Questions, nil
}

// Answer answers a learner's chat question against the study material.
func (s *Service) Answer(ctx context.Context, input AnswerInput) (string, error) {
	ctx = llm.WithPurpose(ctx, "chat")

	messages := []llm.Message{
		{Role: llm.RoleUser, Content: buildChatContextMessage(input)},
		{Role: llm.RoleAssistant, Content: "Understood. I'll answer questions about this material."},
	}
	for _, turn := range input.History {
		messages = append(messages,
			llm.Message{Role: llm.RoleUser, Content: turn.Question},
			llm.Message{Role: llm.RoleAssistant, Content: turn.Answer},
		)
	}
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: input.Question})

	req := llm.Request{
		System:      chatSystemPrompt,
		Messages:    messages,
		MaxTokens:   s.cfg.ChatMaxTokens,
		Temperature: s.cfg.Temperature,
	}

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return "", fmt.Errorf("chat answer: %w", err)
	}

	return decodeText(resp.Content)
}

// Feedback produces short feedback text for a scored quiz.
func (s *Service) Feedback(ctx context.Context, input FeedbackInput) (string, error) {
	ctx = llm.WithPurpose(ctx, "feedback")

	req := llm.Request{
		System: feedbackSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildFeedbackUserMessage(input)},
		},
		Schema:      FeedbackSchema,
		MaxTokens:   s.cfg.FeedbackMaxTokens,
		Temperature: s.cfg.Temperature,
	}

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return "", fmt.Errorf("feedback generation: %w", err)
	}

	var out struct {
		Feedback string `json:"feedback"`
	}
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return "", fmt.Errorf("parse feedback: %w", err)
	}
	return strings.TrimSpace(out.Feedback), nil
}

// RelatedTopics suggests up to 5 follow-on topics after mastery. When
// the schema path fails it falls back to splitting the raw response
// into non-empty lines.
func (s *Service) RelatedTopics(ctx context.Context, input RelatedInput) ([]string, error) {
	ctx = llm.WithPurpose(ctx, "related-topics")

	req := llm.Request{
		System: relatedSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildRelatedUserMessage(input)},
		},
		Schema:    RelatedTopicsSchema,
		MaxTokens: s.cfg.RelatedMaxTokens,
	}

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("related topics: %w", err)
	}

	var out struct {
		Topics []string `json:"topics"`
	}
	var topics []string
	if err := json.Unmarshal(resp.Content, &out); err == nil && len(out.Topics) > 0 {
		topics = out.Topics
	} else {
		text, decErr := decodeText(resp.Content)
		if decErr != nil {
			text = string(resp.Content)
		}
		topics = strings.Split(text, "\n")
	}

	topics = lo.FilterMap(topics, func(t string, _ int) (string, bool) {
		t = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(t), "-*0123456789. "))
		return t, t != ""
	})
	if len(topics) > learning.MaxRelatedTopics {
		topics = topics[:learning.MaxRelatedTopics]
	}
	return topics, nil
}

// decodeText unwraps a schemaless response, which providers return as
// a JSON-encoded string. Raw text that is not valid JSON passes
// through unchanged.
func decodeText(raw json.RawMessage) (string, error) {
	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return string(raw), nil
	}
	return strings.TrimSpace(text), nil
}
