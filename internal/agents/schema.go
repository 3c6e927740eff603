package agents

import (
	"github.com/tutora-app/tutora/internal/llm"
	"github.com/tutora-app/tutora/internal/quiz"
)

// RefinedTopicSchema defines the JSON schema for topic refinement.
var RefinedTopicSchema = &llm.Schema{
	Name:        "refined-topic",
	Description: "A cleaned-up learning topic extracted from free-form input",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"topic": map[string]any{
				"type":        "string",
				"description": "Concise topic name suitable as a search query (2-6 words)",
			},
		},
		"required":             []any{"topic"},
		"additionalProperties": false,
	},
}

// QuizSchema defines the JSON schema for quiz generation. Every
// question carries exactly four options and a correct index in [0, 3].
var QuizSchema = &llm.Schema{
	Name:        "topic-quiz",
	Description: "A multiple-choice quiz testing understanding of the study material",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type":     "array",
				"minItems": quiz.QuestionCount,
				"maxItems": quiz.QuestionCount,
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"question": map[string]any{
							"type":        "string",
							"description": "The question text",
						},
						"options": map[string]any{
							"type":        "array",
							"minItems":    quiz.OptionCount,
							"maxItems":    quiz.OptionCount,
							"items":       map[string]any{"type": "string"},
							"description": "Exactly four answer options",
						},
						"correct": map[string]any{
							"type":        "integer",
							"minimum":     0,
							"maximum":     quiz.OptionCount - 1,
							"description": "Zero-based index of the correct option",
						},
						"explanation": map[string]any{
							"type":        "string",
							"description": "One-sentence explanation of the correct answer",
						},
					},
					"required":             []any{"question", "options", "correct", "explanation"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	},
}

// RelatedTopicsSchema defines the JSON schema for follow-on topic
// suggestions after mastery.
var RelatedTopicsSchema = &llm.Schema{
	Name:        "related-topics",
	Description: "Adjacent topics a learner could study next",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"topics": map[string]any{
				"type":        "array",
				"minItems":    1,
				"maxItems":    5,
				"items":       map[string]any{"type": "string"},
				"description": "Up to five related topic names (2-6 words each)",
			},
		},
		"required":             []any{"topics"},
		"additionalProperties": false,
	},
}

// FeedbackSchema defines the JSON schema for post-quiz feedback.
var FeedbackSchema = &llm.Schema{
	Name:        "quiz-feedback",
	Description: "Short personalized feedback on a quiz result",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"feedback": map[string]any{
				"type":        "string",
				"description": "2-4 sentences of feedback on the result",
			},
		},
		"required":             []any{"feedback"},
		"additionalProperties": false,
	},
}
