package home

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/tutora-app/tutora/internal/agents"
	"github.com/tutora-app/tutora/internal/router"
	"github.com/tutora-app/tutora/internal/screen"
	"github.com/tutora-app/tutora/internal/screens/history"
	"github.com/tutora-app/tutora/internal/screens/placeholder"
	"github.com/tutora-app/tutora/internal/screens/topic"
	"github.com/tutora-app/tutora/internal/store"
	"github.com/tutora-app/tutora/internal/ui/components"
	"github.com/tutora-app/tutora/internal/ui/theme"
	"github.com/tutora-app/tutora/internal/videos"
)

// HomeScreen is the main menu with a glance at past progress.
type HomeScreen struct {
	menu components.Menu

	sessionsStarted int
	topicsMastered  int
	quizzesTaken    int
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates the home screen. A nil agents service means no LLM
// credentials were found, so learning falls back to a placeholder that
// explains the setup.
func New(agentsSvc *agents.Service, videoClient *videos.Client, eventRepo store.EventRepo) *HomeScreen {
	h := &HomeScreen{}
	h.loadStats(eventRepo)

	items := []components.MenuItem{
		{Label: "START LEARNING", Action: func() tea.Cmd {
			if agentsSvc == nil {
				return func() tea.Msg {
					return router.PushScreenMsg{Screen: placeholder.New("Start Learning")}
				}
			}
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: topic.New(agentsSvc, videoClient, eventRepo)}
			}
		}},
		{Label: "HISTORY", Action: func() tea.Cmd {
			if eventRepo == nil {
				return func() tea.Msg {
					return router.PushScreenMsg{Screen: placeholder.New("History")}
				}
			}
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: history.New(eventRepo)}
			}
		}},
		{Label: "EXIT", Action: func() tea.Cmd {
			return tea.Quit
		}},
	}

	h.menu = components.NewMenu(items)
	return h
}

// loadStats pulls a small progress summary from stored events. Any
// query failure just leaves the counters at zero.
func (h *HomeScreen) loadStats(eventRepo store.EventRepo) {
	if eventRepo == nil {
		return
	}
	ctx := context.Background()

	if sessions, err := eventRepo.SessionHistory(ctx, store.QueryOpts{Limit: 500}); err == nil {
		for _, s := range sessions {
			switch s.Action {
			case "start":
				h.sessionsStarted++
			case "end":
				if s.Mastery {
					h.topicsMastered++
				}
			}
		}
	}
	if quizzes, err := eventRepo.QuizHistory(ctx, store.QueryOpts{Limit: 500}); err == nil {
		h.quizzesTaken = len(quizzes)
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) View(width, height int) string {
	title := theme.Title.Render("T U T O R A")
	tagline := theme.Subtitle.Render("Learn anything, one topic at a time.")

	stats := h.statsBar()

	menuBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(1, 4).
		Render(h.menu.View())

	content := strings.Join([]string{title, tagline, "", stats, "", menuBox}, "\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func (h *HomeScreen) statsBar() string {
	if h.sessionsStarted == 0 {
		return theme.Hint.Render("No sessions yet. Pick a topic and dive in!")
	}

	stat := func(n int, label string) string {
		return lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render(fmt.Sprintf("%d", n)) +
			theme.Hint.Render(" "+label)
	}
	return strings.Join([]string{
		stat(h.sessionsStarted, "sessions"),
		stat(h.quizzesTaken, "quizzes"),
		stat(h.topicsMastered, "mastered"),
	}, theme.Hint.Render("  ·  "))
}
