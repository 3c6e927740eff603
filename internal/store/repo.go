package store

import (
	"context"
	"time"
)

// QueryOpts narrows history queries. Zero values mean no bound.
type QueryOpts struct {
	Limit  int       // max rows returned
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// SessionEventData captures one session lifecycle event.
type SessionEventData struct {
	SessionID    string
	Action       string // start, end, reset
	Topic        string
	QuizAttempts int
	Mastery      bool
}

// QuizEventData captures one scored quiz attempt.
type QuizEventData struct {
	SessionID  string
	Topic      string
	Attempt    int
	Score      int
	Total      int
	Percentage float64
	Mastery    bool
	WeakAreas  []string
}

// ChatEventData captures one learning-phase Q&A exchange.
type ChatEventData struct {
	SessionID string
	Topic     string
	Question  string
	Answer    string
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// SessionRecord is a stored session event.
type SessionRecord struct {
	Timestamp    time.Time
	SessionID    string
	Action       string
	Topic        string
	QuizAttempts int
	Mastery      bool
}

// QuizRecord is a stored quiz attempt.
type QuizRecord struct {
	Timestamp  time.Time
	SessionID  string
	Topic      string
	Attempt    int
	Score      int
	Total      int
	Percentage float64
	Mastery    bool
}

// LLMEventRecord is a stored LLM request.
type LLMEventRecord struct {
	ID           int
	Timestamp    time.Time
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// PurposeUsage aggregates LLM usage for one purpose label.
type PurposeUsage struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// ModelUsage aggregates LLM usage for one model.
type ModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	// AppendSessionEvent records a session lifecycle event.
	AppendSessionEvent(ctx context.Context, data SessionEventData) error

	// AppendQuizEvent records a scored quiz attempt.
	AppendQuizEvent(ctx context.Context, data QuizEventData) error

	// AppendChatEvent records a Q&A exchange.
	AppendChatEvent(ctx context.Context, data ChatEventData) error

	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// SessionHistory returns session events, newest first.
	SessionHistory(ctx context.Context, opts QueryOpts) ([]SessionRecord, error)

	// QuizHistory returns quiz attempts, newest first.
	QuizHistory(ctx context.Context, opts QueryOpts) ([]QuizRecord, error)

	// QueryLLMEvents returns LLM events, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEventRecord, error)

	// GetLLMEvent returns one LLM event by ID, or nil if not found.
	GetLLMEvent(ctx context.Context, id int) (*LLMEventRecord, error)

	// LLMUsageByPurpose aggregates token usage per purpose label.
	LLMUsageByPurpose(ctx context.Context) ([]PurposeUsage, error)

	// LLMUsageByModel aggregates token usage per model.
	LLMUsageByModel(ctx context.Context) ([]ModelUsage, error)
}
