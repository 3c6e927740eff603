package quiz

import (
	"time"

	tea "charm.land/bubbletea/v2"

	qz "github.com/tutora-app/tutora/internal/quiz"
)

// quizReadyMsg delivers the generated question set.
type quizReadyMsg struct {
	Questions []qz.Question
	Err       error
}

// feedbackMsg delivers the coach feedback for a scored attempt.
type feedbackMsg struct {
	Feedback string
	Err      error
}

// relatedMsg delivers follow-on topic suggestions after mastery.
type relatedMsg struct {
	Topics []string
	Err    error
}

// resultsChoiceMsg is emitted by the results menu.
type resultsChoiceMsg struct {
	Choice string // "retry", "study", "related", "another", "home"
	Topic  string // set for "related"
}

// spinnerTickMsg drives the loading animation.
type spinnerTickMsg struct{}

func spinnerTick() tea.Cmd {
	return tea.Tick(120*time.Millisecond, func(time.Time) tea.Msg {
		return spinnerTickMsg{}
	})
}
