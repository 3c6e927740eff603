package agents

// Config holds generation settings for the tutoring agents.
type Config struct {
	RefineMaxTokens   int
	DocsMaxTokens     int
	QuizMaxTokens     int
	ChatMaxTokens     int
	FeedbackMaxTokens int
	RelatedMaxTokens  int

	// Temperature applies to the creative agents (docs, chat, feedback).
	// Quiz generation and topic refinement always run deterministic.
	Temperature float64
}

// DefaultConfig returns sensible defaults for all agents.
func DefaultConfig() Config {
	return Config{
		RefineMaxTokens:   128,
		DocsMaxTokens:     2048,
		QuizMaxTokens:     2048,
		ChatMaxTokens:     1024,
		FeedbackMaxTokens: 256,
		RelatedMaxTokens:  256,
		Temperature:       0.5,
	}
}
