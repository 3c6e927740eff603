package components

import (
	"fmt"

	"charm.land/lipgloss/v2"

	"github.com/tutora-app/tutora/internal/ui/theme"
)

// AnswerReview renders a quiz question after scoring: the right
// option in green, the learner's wrong pick (if any) in red, the
// rest dimmed.
type AnswerReview struct {
	Question string
	Options  []string
	Correct  int
	Chosen   int // -1 when the question went unanswered
}

var optionLabels = []string{"A", "B", "C", "D", "E", "F"}

func (r AnswerReview) View() string {
	s := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(r.Question) + "\n\n"

	for i, opt := range r.Options {
		label := fmt.Sprintf("%d", i+1)
		if i < len(optionLabels) {
			label = optionLabels[i]
		}
		line := fmt.Sprintf("  %s)  %s", label, opt)

		switch {
		case i == r.Correct:
			s += theme.Correct.Render(line) + "\n"
		case i == r.Chosen:
			s += theme.Incorrect.Render(line) + "\n"
		default:
			s += lipgloss.NewStyle().Foreground(theme.TextDim).Render(line) + "\n"
		}
	}
	return s
}
