package llm

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config selects and parameterizes the model backend.
type Config struct {
	// Provider is one of "anthropic", "openai", "gemini", "openrouter"
	// or "mock".
	Provider string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig

	// Timeout bounds one Generate call including its retries.
	Timeout time.Duration
}

type AnthropicConfig struct {
	APIKey string
	Model  string // friendly alias or full model ID
}

type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string // set for OpenAI-compatible endpoints
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type OpenRouterConfig struct {
	APIKey  string
	Model   string // vendor-prefixed, e.g. "google/gemini-2.0-flash-exp"
	BaseURL string
}

// RetryConfig shapes the backoff for transient provider failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig picks the cheap fast model for every provider. Tutoring
// turns are short and frequent, so latency and cost beat raw quality.
func DefaultConfig() Config {
	return Config{
		Provider:   "anthropic",
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenAI:     OpenAIConfig{Model: "gpt-4o-mini"},
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenRouter: OpenRouterConfig{Model: "google/gemini-2.0-flash-exp"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 30 * time.Second,
	}
}

// ConfigFromEnv overlays TUTORA_* environment variables on the
// defaults. When TUTORA_LLM_PROVIDER is unset, the provider follows
// whichever key was supplied.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	setenv := func(dst *string, name string) {
		if v := os.Getenv(name); v != "" {
			*dst = v
		}
	}

	setenv(&cfg.Provider, "TUTORA_LLM_PROVIDER")

	setenv(&cfg.Anthropic.APIKey, "TUTORA_ANTHROPIC_API_KEY")
	setenv(&cfg.Anthropic.Model, "TUTORA_ANTHROPIC_MODEL")

	setenv(&cfg.OpenAI.APIKey, "TUTORA_OPENAI_API_KEY")
	setenv(&cfg.OpenAI.Model, "TUTORA_OPENAI_MODEL")
	setenv(&cfg.OpenAI.BaseURL, "TUTORA_OPENAI_BASE_URL")

	setenv(&cfg.Gemini.APIKey, "TUTORA_GEMINI_API_KEY")
	setenv(&cfg.Gemini.Model, "TUTORA_GEMINI_MODEL")

	setenv(&cfg.OpenRouter.APIKey, "TUTORA_OPENROUTER_API_KEY")
	setenv(&cfg.OpenRouter.Model, "TUTORA_OPENROUTER_MODEL")

	if os.Getenv("TUTORA_LLM_PROVIDER") == "" {
		switch {
		case cfg.Gemini.APIKey != "":
			cfg.Provider = "gemini"
		case cfg.OpenAI.APIKey != "":
			cfg.Provider = "openai"
		case cfg.Anthropic.APIKey != "":
			cfg.Provider = "anthropic"
		case cfg.OpenRouter.APIKey != "":
			cfg.Provider = "openrouter"
		}
	}

	return cfg
}

// DiscoverConfig probes the vendors' own key variables in priority
// order (Gemini → OpenAI → Anthropic → OpenRouter) so the app works
// out of the box for anyone who already exports a key for another
// tool. Returns (Config{}, false) when no key is present.
func DiscoverConfig() (Config, bool) {
	cfg := DefaultConfig()
	probes := []struct {
		env      string
		provider string
		key      *string
	}{
		{"GEMINI_API_KEY", "gemini", &cfg.Gemini.APIKey},
		{"OPENAI_API_KEY", "openai", &cfg.OpenAI.APIKey},
		{"ANTHROPIC_API_KEY", "anthropic", &cfg.Anthropic.APIKey},
		{"OPENROUTER_API_KEY", "openrouter", &cfg.OpenRouter.APIKey},
	}
	for _, p := range probes {
		if k := os.Getenv(p.env); k != "" {
			cfg.Provider = p.provider
			*p.key = k
			return cfg, true
		}
	}
	return Config{}, false
}

// Validate checks that the selected provider has its key.
func (c Config) Validate() error {
	keyFor := map[string]string{
		"anthropic":  c.Anthropic.APIKey,
		"openai":     c.OpenAI.APIKey,
		"gemini":     c.Gemini.APIKey,
		"openrouter": c.OpenRouter.APIKey,
	}

	if c.Provider == "mock" {
		return nil
	}
	key, known := keyFor[c.Provider]
	if !known {
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if key == "" {
		return fmt.Errorf("TUTORA_%s_API_KEY is required for the %s provider",
			strings.ToUpper(c.Provider), c.Provider)
	}
	return nil
}
