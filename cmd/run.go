package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tutora-app/tutora/internal/agents"
	"github.com/tutora-app/tutora/internal/app"
	"github.com/tutora-app/tutora/internal/llm"
	"github.com/tutora-app/tutora/internal/videos"
)

// runApp opens the store, builds dependencies, and launches the TUI.
// A missing LLM key is not fatal: the app starts with learning flows
// degraded instead of refusing to run.
func runApp(cmd *cobra.Command) error {
	st, eventRepo, err := openEventRepo(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	opts := app.Options{
		EventRepo:   eventRepo,
		VideoClient: videos.NewClient(),
	}

	provider, err := llm.NewProviderFromEnv(cmd.Context(), eventRepo)
	if err != nil {
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "Set TUTORA_ANTHROPIC_API_KEY, TUTORA_OPENAI_API_KEY, TUTORA_GEMINI_API_KEY or TUTORA_OPENROUTER_API_KEY.")
		fmt.Fprintln(os.Stderr, "Learning sessions will be unavailable.")
	} else {
		opts.Agents = agents.NewService(provider, agents.DefaultConfig())
	}

	return app.Run(opts)
}
