package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tutora-app/tutora/internal/agents"
	"github.com/tutora-app/tutora/internal/llm"
	"github.com/tutora-app/tutora/internal/quiz"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Preview a generated quiz for a topic (no database)",
	Long: `Generate and interactively answer a quiz for a topic.

This is a stateless developer tool — no database, no session tracking, no events.
Useful for evaluating question quality across providers and prompts.`,
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().String("topic", "", "Topic to quiz on (required)")
	previewCmd.Flags().Int("attempt", 1, "Attempt number to simulate")
	_ = previewCmd.MarkFlagRequired("topic")
}

func runPreview(cmd *cobra.Command, args []string) error {
	topic, _ := cmd.Flags().GetString("topic")
	attempt, _ := cmd.Flags().GetInt("attempt")

	// Create LLM provider (no EventRepo — logging skipped).
	ctx := context.Background()
	provider, err := llm.NewProviderFromEnv(ctx, nil)
	if err != nil {
		return fmt.Errorf("LLM provider: %w", err)
	}

	svc := agents.NewService(provider, agents.DefaultConfig())
	scanner := bufio.NewScanner(os.Stdin)

	fmt.Printf("Topic: %s\n", topic)
	fmt.Printf("Generating %d questions...\n\n", quiz.QuestionCount)

	questions, err := svc.GenerateQuiz(ctx, agents.QuizInput{
		Topic:   topic,
		Attempt: attempt,
	})
	if err != nil {
		return fmt.Errorf("generate quiz: %w", err)
	}

	var correct int
	for i, q := range questions {
		fmt.Printf("── Question %d/%d ──\n", i+1, len(questions))
		fmt.Println(q.Text)
		for j, option := range q.Options {
			fmt.Printf("  %d) %s\n", j+1, option)
		}

		fmt.Print("\nYour answer (1-4): ")
		if !scanner.Scan() {
			fmt.Println("\n(input closed)")
			break
		}
		answer := strings.TrimSpace(scanner.Text())
		if answer == "" {
			fmt.Print("(skipped)\n\n")
			continue
		}

		selected, err := strconv.Atoi(answer)
		if err == nil && selected-1 == q.Correct {
			correct++
			fmt.Println("\033[32m✓ Correct!\033[0m")
		} else {
			fmt.Printf("\033[31m✗ Wrong.\033[0m Answer: %s\n", q.Options[q.Correct])
		}

		if q.Explanation != "" {
			fmt.Printf("Explanation: %s\n", q.Explanation)
		}
		fmt.Println()
	}

	fmt.Printf("── Summary: %d/%d correct ──\n", correct, len(questions))
	return nil
}
