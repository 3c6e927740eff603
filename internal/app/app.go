// Package app assembles the TUI: the root Bubble Tea model, the screen
// router, and the shared header/footer chrome.
package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/tutora-app/tutora/internal/agents"
	"github.com/tutora-app/tutora/internal/router"
	"github.com/tutora-app/tutora/internal/screen"
	"github.com/tutora-app/tutora/internal/screens/home"
	"github.com/tutora-app/tutora/internal/screens/welcome"
	"github.com/tutora-app/tutora/internal/store"
	"github.com/tutora-app/tutora/internal/ui/layout"
	"github.com/tutora-app/tutora/internal/videos"
)

// Options carries the wired services into the TUI. Nil fields degrade
// the affected screens rather than crashing.
type Options struct {
	Agents      *agents.Service
	VideoClient *videos.Client
	EventRepo   store.EventRepo
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	width  int
	height int
}

// newAppModel creates a new AppModel starting at the welcome splash.
func newAppModel(opts Options) AppModel {
	homeFactory := func() screen.Screen {
		return home.New(opts.Agents, opts.VideoClient, opts.EventRepo)
	}
	return AppModel{
		router: router.New(welcome.New(homeFactory)),
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}
	return m, m.router.Update(msg)
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	switch {
	case m.width == 0 || m.height == 0:
		return v
	case layout.IsTooSmall(m.width, m.height):
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title, topic, attempt := headerInfo(active)
	header := layout.RenderHeader(title, topic, attempt, m.width)
	footer := layout.RenderFooter(footerHints(active), m.width)

	contentHeight := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if contentHeight < 0 {
		contentHeight = 0
	}
	content := m.router.View(m.width, contentHeight)

	v.SetContent(layout.RenderFrame(header, content, footer, m.width, m.height))
	return v
}

func headerInfo(active screen.Screen) (title, topic string, attempt int) {
	if active == nil {
		return "", "", 0
	}
	title = active.Title()
	if info, ok := active.(screen.SessionInfoProvider); ok {
		topic, attempt = info.SessionInfo()
	}
	return title, topic, attempt
}

// footerHints falls back to generic navigation keys for screens that
// do not declare their own; Ctrl+C is always appended.
func footerHints(active screen.Screen) []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
	}
	if hinter, ok := active.(screen.KeyHintProvider); ok {
		hints = hinter.KeyHints()
	}
	return append(hints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(opts Options) error {
	if _, err := tea.NewProgram(newAppModel(opts)).Run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
