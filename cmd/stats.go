package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tutora-app/tutora/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show learning statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve DB path: %w", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		repo := st.EventRepo()

		sessions, err := repo.SessionHistory(ctx, store.QueryOpts{Limit: 1000})
		if err != nil {
			return fmt.Errorf("load session history: %w", err)
		}
		quizzes, err := repo.QuizHistory(ctx, store.QueryOpts{Limit: 1000})
		if err != nil {
			return fmt.Errorf("load quiz history: %w", err)
		}

		var started, mastered int
		for _, s := range sessions {
			switch s.Action {
			case "start":
				started++
			case "end":
				if s.Mastery {
					mastered++
				}
			}
		}

		var scoreSum float64
		masteryAttempts := map[string]int{}
		for _, q := range quizzes {
			scoreSum += q.Percentage
			if q.Mastery {
				masteryAttempts[q.Topic] = q.Attempt
			}
		}

		fmt.Println("Learning statistics")
		fmt.Println("───────────────────")
		fmt.Printf("Sessions started:  %d\n", started)
		fmt.Printf("Topics mastered:   %d\n", mastered)
		fmt.Printf("Quizzes taken:     %d\n", len(quizzes))
		if len(quizzes) > 0 {
			fmt.Printf("Average score:     %.0f%%\n", scoreSum/float64(len(quizzes)))
		}

		if len(masteryAttempts) > 0 {
			fmt.Println()
			fmt.Println("Mastered topics:")
			for topic, attempts := range masteryAttempts {
				noun := "attempts"
				if attempts == 1 {
					noun = "attempt"
				}
				fmt.Printf("  %s (%d %s)\n", topic, attempts, noun)
			}
		}
		return nil
	},
}
