// Package screen defines what the router pushes and pops: one Screen
// per step of the learning flow (topic entry, refine, learn, quiz).
package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/tutora-app/tutora/internal/ui/layout"
)

// Screen is a self-contained view between the shared header and footer.
type Screen interface {
	Init() tea.Cmd
	// Update returns the screen to keep showing, usually the receiver.
	Update(msg tea.Msg) (Screen, tea.Cmd)
	// View renders the content area only; the frame is drawn around it.
	View(width, height int) string
	// Title names the screen in the header bar.
	Title() string
}

// KeyHintProvider lets a screen put its own shortcuts in the footer.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// SessionInfoProvider is implemented by screens attached to a learning
// session; the header shows the topic and, past the first quiz attempt,
// the attempt number.
type SessionInfoProvider interface {
	SessionInfo() (topic string, attempt int)
}
