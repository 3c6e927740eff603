// Package history lists past learning sessions with their quiz attempts.
package history

import (
	"context"
	"fmt"
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/tutora-app/tutora/internal/router"
	"github.com/tutora-app/tutora/internal/screen"
	"github.com/tutora-app/tutora/internal/store"
	"github.com/tutora-app/tutora/internal/ui/layout"
	"github.com/tutora-app/tutora/internal/ui/theme"
)

const (
	sessionScanLimit = 200 // session events fetched before dedup
	sessionRows      = 50  // distinct sessions shown
)

type historyLoadedMsg struct {
	Sessions []store.SessionRecord
	Quizzes  map[string][]store.QuizRecord // sessionID → attempts
	Err      error
}

// HistoryScreen shows one row per session, expandable to its quiz
// attempts.
type HistoryScreen struct {
	eventRepo store.EventRepo
	sessions  []store.SessionRecord
	quizzes   map[string][]store.QuizRecord
	selected  int
	expanded  map[int]bool
	loaded    bool
	errMsg    string
}

var (
	_ screen.Screen          = (*HistoryScreen)(nil)
	_ screen.KeyHintProvider = (*HistoryScreen)(nil)
)

func New(eventRepo store.EventRepo) *HistoryScreen {
	return &HistoryScreen{eventRepo: eventRepo, expanded: make(map[int]bool)}
}

func (h *HistoryScreen) Init() tea.Cmd {
	return func() tea.Msg { return h.load(context.Background()) }
}

func (h *HistoryScreen) load(ctx context.Context) historyLoadedMsg {
	all, err := h.eventRepo.SessionHistory(ctx, store.QueryOpts{Limit: sessionScanLimit})
	if err != nil {
		return historyLoadedMsg{Err: err}
	}

	// One row per session. Records are newest first, so the closing
	// event (end or reset) wins over the start event.
	seen := make(map[string]bool)
	var sessions []store.SessionRecord
	for _, rec := range all {
		if seen[rec.SessionID] {
			continue
		}
		seen[rec.SessionID] = true
		if sessions = append(sessions, rec); len(sessions) == sessionRows {
			break
		}
	}

	bySession := make(map[string][]store.QuizRecord)
	if quizzes, err := h.eventRepo.QuizHistory(ctx, store.QueryOpts{}); err == nil {
		for _, q := range quizzes {
			bySession[q.SessionID] = append(bySession[q.SessionID], q)
		}
	}
	return historyLoadedMsg{Sessions: sessions, Quizzes: bySession}
}

func (h *HistoryScreen) Title() string { return "History" }

func (h *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Attempts"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (h *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			h.errMsg = msg.Err.Error()
		} else {
			h.sessions = msg.Sessions
			h.quizzes = msg.Quizzes
		}
		h.loaded = true
	case tea.KeyMsg:
		return h.handleKey(msg.String())
	}
	return h, nil
}

func (h *HistoryScreen) handleKey(key string) (screen.Screen, tea.Cmd) {
	switch key {
	case "esc":
		return h, func() tea.Msg { return router.PopScreenMsg{} }
	case "up", "k":
		if h.selected > 0 {
			h.selected--
		}
	case "down", "j":
		if h.selected < len(h.sessions)-1 {
			h.selected++
		}
	case "enter":
		h.expanded[h.selected] = !h.expanded[h.selected]
	}
	return h, nil
}

func (h *HistoryScreen) View(width, height int) string {
	switch {
	case h.errMsg != "":
		return centered(width, theme.Error, false, "Error: "+h.errMsg)
	case !h.loaded:
		return centered(width, theme.TextDim, false, "Loading history...")
	case len(h.sessions) == 0:
		return centered(width, theme.TextDim, true, "No sessions yet. Pick a topic and start learning!")
	}

	var b strings.Builder
	b.WriteString("\n")
	for i, sess := range h.sessions {
		h.writeSessionRow(&b, width, i, sess)
		if h.expanded[i] {
			h.writeAttempts(&b, width, sess.SessionID)
		}
	}
	return b.String()
}

func (h *HistoryScreen) writeSessionRow(b *strings.Builder, width, i int, sess store.SessionRecord) {
	topic := sess.Topic
	if topic == "" {
		topic = "(no topic)"
	}

	outcome := "in progress"
	switch {
	case sess.Action == "end" && sess.Mastery:
		outcome = fmt.Sprintf("mastered in %d attempt%s", sess.QuizAttempts, plural(sess.QuizAttempts))
	case sess.Action == "reset":
		outcome = fmt.Sprintf("stopped after %d attempt%s", sess.QuizAttempts, plural(sess.QuizAttempts))
	}

	prefix := "  "
	if i == h.selected {
		prefix = "> "
	}
	line := fmt.Sprintf("%s%s  %-30s  %s",
		prefix, sess.Timestamp.Format("Jan 02, 2006"), truncate(topic, 30), outcome)

	style := lipgloss.NewStyle().Foreground(theme.Text)
	switch {
	case sess.Mastery:
		style = style.Foreground(theme.Success)
	case i == h.selected:
		style = style.Foreground(theme.Primary).Bold(true)
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
	b.WriteString("\n")
}

func (h *HistoryScreen) writeAttempts(b *strings.Builder, width int, sessionID string) {
	attempts := h.quizzes[sessionID]
	if len(attempts) == 0 {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			theme.Hint.Render("    No quizzes taken")))
		b.WriteString("\n")
		return
	}
	// QuizHistory is newest first; show oldest attempt first.
	for j := len(attempts) - 1; j >= 0; j-- {
		q := attempts[j]
		mark, tint := "✗", theme.Error
		if q.Mastery {
			mark, tint = "✓", theme.Success
		}
		line := fmt.Sprintf("    attempt %d: %d/%d (%.0f%%) %s",
			q.Attempt, q.Score, q.Total, q.Percentage, mark)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(tint).Render(line)))
		b.WriteString("\n")
	}
}

func centered(width int, c color.Color, italic bool, msg string) string {
	return lipgloss.NewStyle().
		Width(width).Align(lipgloss.Center).Foreground(c).Italic(italic).
		Render("\n\n  " + msg)
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}
