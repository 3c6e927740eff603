package learn

import (
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/tutora-app/tutora/internal/videos"
)

// videosFetchedMsg delivers the video search results for the topic.
type videosFetchedMsg struct {
	Videos []videos.Video
	Err    error
}

// docsReadyMsg delivers the generated study documentation.
type docsReadyMsg struct {
	Docs string
	Err  error
}

// answerReadyMsg delivers the tutor's reply to a chat question.
type answerReadyMsg struct {
	Answer string
	Err    error
}

// spinnerTickMsg drives the loading animation.
type spinnerTickMsg struct{}

func spinnerTick() tea.Cmd {
	return tea.Tick(120*time.Millisecond, func(time.Time) tea.Msg {
		return spinnerTickMsg{}
	})
}
