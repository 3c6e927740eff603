package quiz

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	qz "github.com/tutora-app/tutora/internal/quiz"
	"github.com/tutora-app/tutora/internal/ui/components"
	"github.com/tutora-app/tutora/internal/ui/theme"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

func (q *QuizScreen) View(width, height int) string {
	switch q.phase {
	case phaseGenerating:
		return q.generatingView(width, height)
	case phaseTaking:
		return q.takingView(width, height)
	default:
		return q.resultsView(width, height)
	}
}

func (q *QuizScreen) generatingView(width, height int) string {
	if q.errMsg != "" {
		msg := lipgloss.NewStyle().Foreground(theme.Error).Render(q.errMsg)
		hint := theme.Hint.Render("Press R to try again")
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			lipgloss.JoinVertical(lipgloss.Center, msg, "", hint))
	}

	frame := spinnerFrames[q.spinFrame%len(spinnerFrames)]
	label := fmt.Sprintf("%s Writing quiz questions...", frame)
	if q.attempt > 1 {
		label = fmt.Sprintf("%s Writing a fresh quiz around what tripped you up...", frame)
	}
	msg := lipgloss.NewStyle().Foreground(theme.Secondary).Render(label)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, msg)
}

func (q *QuizScreen) takingView(width, height int) string {
	if q.current >= len(q.sess.Quiz) {
		return ""
	}
	question := q.sess.Quiz[q.current]

	progress := theme.Hint.Render(
		fmt.Sprintf("Question %d of %d · attempt %d", q.current+1, len(q.sess.Quiz), q.attempt))

	text := lipgloss.NewStyle().
		Foreground(theme.Text).
		Bold(true).
		Width(min(width-8, 72)).
		Render(question.Text)

	var opts strings.Builder
	for i, option := range question.Options {
		line := fmt.Sprintf("%d. %s", i+1, option)
		if i == q.cursor {
			opts.WriteString(theme.Selected.Render("▸ " + line))
		} else {
			opts.WriteString(theme.Unselected.Render("  " + line))
		}
		opts.WriteString("\n")
	}

	card := theme.Card.Width(min(width-6, 76)).Render(
		lipgloss.JoinVertical(lipgloss.Left, text, "", opts.String()))

	content := lipgloss.JoinVertical(lipgloss.Left, progress, "", card)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func (q *QuizScreen) resultsView(width, height int) string {
	result := q.sess.LastResult
	if result == nil {
		return ""
	}

	if q.reviewOpen {
		return q.reviewView(width, height)
	}

	var headline string
	if result.Mastery {
		headline = lipgloss.NewStyle().Foreground(theme.Success).Bold(true).
			Render(fmt.Sprintf("Mastered! %d/%d correct", result.Score, result.Total))
	} else {
		headline = lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).
			Render(fmt.Sprintf("Not quite: %d/%d correct", result.Score, result.Total))
	}

	bar := components.NewProgressBar("Score", result.Percentage, true, min(width-10, 50)).View()

	feedback := ""
	switch {
	case q.feedbackPending:
		frame := spinnerFrames[q.spinFrame%len(spinnerFrames)]
		feedback = theme.Hint.Render(frame + " Your coach is writing feedback...")
	case q.feedback != "":
		feedback = lipgloss.NewStyle().
			Foreground(theme.Text).
			Italic(true).
			Width(min(width-8, 72)).
			Render(q.feedback)
	}

	sections := []string{headline, "", bar, "", feedback, ""}

	if result.Mastery && q.relatedPending {
		frame := spinnerFrames[q.spinFrame%len(spinnerFrames)]
		sections = append(sections, theme.Hint.Render(frame+" Finding what to learn next..."), "")
	}
	sections = append(sections, q.menu.View())

	if q.errMsg != "" {
		sections = append(sections, lipgloss.NewStyle().Foreground(theme.Error).Render(q.errMsg))
	}

	content := lipgloss.JoinVertical(lipgloss.Center, sections...)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

// reviewView lists every question with the learner's pick against the
// right answer.
func (q *QuizScreen) reviewView(width, height int) string {
	var b strings.Builder
	textWidth := min(width-8, 72)

	for i, question := range q.sess.Quiz {
		selected, answered := q.sess.UserAnswers[i]
		if !answered {
			selected = qz.Unanswered
		}

		mark := theme.Correct.Render("✓")
		if selected != question.Correct {
			mark = theme.Incorrect.Render("✗")
		}
		b.WriteString(fmt.Sprintf("%s Question %d\n", mark, i+1))

		review := components.AnswerReview{
			Question: question.Text,
			Options:  question.Options,
			Correct:  question.Correct,
			Chosen:   selected,
		}
		b.WriteString(review.View())
		if question.Explanation != "" {
			b.WriteString(theme.Hint.Width(textWidth).Render("   "+question.Explanation) + "\n")
		}
		if i < len(q.sess.Quiz)-1 {
			b.WriteString("\n")
		}
	}

	b.WriteString("\n" + theme.Hint.Render("Press R to go back to the results"))

	// Tall reviews scroll off the top; keep the header visible.
	lines := strings.Split(b.String(), "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	return strings.Join(lines, "\n")
}
