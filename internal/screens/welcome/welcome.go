package welcome

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/tutora-app/tutora/internal/router"
	"github.com/tutora-app/tutora/internal/screen"
	"github.com/tutora-app/tutora/internal/ui/theme"
)

const (
	tickInterval = 100 * time.Millisecond
	bannerAt     = 500 * time.Millisecond
	taglineAt    = 1200 * time.Millisecond
	splashFor    = 4500 * time.Millisecond
)

// The owl mascot greets the learner on launch.
const mascotArt = `   ╭─────────╮
   │  ◉   ◉  │
   │    ∨    │
  ╭┴─────────┴╮
  │  ♬ ♪ ♬ ♪  │
  ╰─┬───────┬─╯
    ╯       ╰`

const tagline = "Learn anything, one topic at a time."

var twinkleFrames = []string{"✦", "✧"}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// WelcomeScreen plays a short splash, then swaps itself for the home
// screen. Any key skips ahead.
type WelcomeScreen struct {
	homeFactory  func() screen.Screen
	elapsed      time.Duration
	ticks        int
	transitioned bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

func New(homeFactory func() screen.Screen) *WelcomeScreen {
	return &WelcomeScreen{homeFactory: homeFactory}
}

func (w *WelcomeScreen) Title() string { return "" }

func (w *WelcomeScreen) Init() tea.Cmd { return tick() }

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		if w.elapsed < splashFor {
			w.elapsed += tickInterval
		}
		w.ticks++
		return w, tick()

	case tea.KeyPressMsg:
		return w, w.transition()
	}
	return w, nil
}

func (w *WelcomeScreen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	home := w.homeFactory()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: home}
	}
}

// typedTagline reveals the tagline a few characters per tick once its
// phase begins.
func (w *WelcomeScreen) typedTagline() string {
	ticksIn := int((w.elapsed - taglineAt) / tickInterval)
	visible := ticksIn * 3
	if visible >= len(tagline) {
		return tagline
	}
	if visible < 0 {
		visible = 0
	}
	return tagline[:visible]
}

func (w *WelcomeScreen) View(width, height int) string {
	mascot := lipgloss.NewStyle().Foreground(theme.Primary).Render(mascotArt)

	// Twinkles flank the owl from the start.
	star := twinkleFrames[w.ticks%len(twinkleFrames)]
	left := lipgloss.NewStyle().Foreground(theme.Accent).Render(star)
	right := lipgloss.NewStyle().Foreground(theme.Secondary).Render(star)
	lines := strings.Split(mascot, "\n")
	if len(lines) > 1 {
		lines[1] = left + "  " + lines[1] + "  " + right
	}
	if len(lines) > 4 {
		lines[4] = right + "  " + lines[4] + "  " + left
	}
	mascot = strings.Join(lines, "\n")

	sections := []string{mascot}

	if w.elapsed >= bannerAt {
		sections = append(sections, "", RenderBanner(width))
	}
	if w.elapsed >= taglineAt {
		typed := lipgloss.NewStyle().
			Foreground(theme.Text).
			Bold(true).
			Render(w.typedTagline())
		hint := lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Italic(true).
			Render("press any key to continue")
		sections = append(sections, "", typed, "", hint)
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		strings.Join(sections, "\n"))
}
