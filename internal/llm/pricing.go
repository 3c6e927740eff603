package llm

// ModelCost is USD pricing per one million tokens.
type ModelCost struct {
	InputPerMTok  float64
	OutputPerMTok float64
}

// Cost computes the USD cost of a single call.
func (c ModelCost) Cost(inputTokens, outputTokens int) float64 {
	return float64(inputTokens)*c.InputPerMTok/1_000_000 +
		float64(outputTokens)*c.OutputPerMTok/1_000_000
}

// LookupCost returns pricing for a provider model ID, or nil when the
// model is not in the table. Callers show "n/a" for unknown models
// rather than guessing.
func LookupCost(modelID string) *ModelCost {
	if c, ok := modelCosts[modelID]; ok {
		return &c
	}
	return nil
}

// modelCosts covers the models the app's providers resolve to, plus the
// stronger siblings a user is likely to switch to for longer study
// sessions. Prices from models.dev, last checked 2026-02-15.
var modelCosts = map[string]ModelCost{
	// Anthropic. claude-haiku resolves to the dated haiku-4-5 ID.
	"claude-haiku-4-5":           {1, 5},
	"claude-haiku-4-5-20251001":  {1, 5},
	"claude-sonnet-4-5":          {3, 15},
	"claude-sonnet-4-5-20250929": {3, 15},
	"claude-opus-4-5":            {5, 25},
	"claude-opus-4-5-20251101":   {5, 25},

	// OpenAI. gpt-4o-mini is the default chat/docs model.
	"gpt-4o-mini":       {0.15, 0.6},
	"gpt-4o":            {2.5, 10},
	"gpt-4o-2024-11-20": {2.5, 10},
	"gpt-4.1":           {2, 8},
	"gpt-4.1-mini":      {0.4, 1.6},
	"gpt-4.1-nano":      {0.1, 0.4},
	"o4-mini":           {1.1, 4.4},

	// Google. gemini-flash resolves to gemini-2.0-flash, which is also
	// what the OpenRouter default routes to.
	"gemini-2.0-flash":      {0.1, 0.4},
	"gemini-2.0-flash-lite": {0.075, 0.3},
	"gemini-2.5-flash":      {0.3, 2.5},
	"gemini-2.5-flash-lite": {0.1, 0.4},
	"gemini-2.5-pro":        {1.25, 10},

	// OpenRouter model IDs carry the upstream vendor prefix.
	"google/gemini-2.0-flash-exp":     {0.1, 0.4},
	"anthropic/claude-haiku-4.5":      {1, 5},
	"openai/gpt-4o-mini":              {0.15, 0.6},
	"meta-llama/llama-3.3-70b":        {0.12, 0.3},
	"deepseek/deepseek-chat-v3-0324":  {0.27, 1.1},
	"mistralai/mistral-small-3.1-24b": {0.1, 0.3},
}
