package placeholder

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/tutora-app/tutora/internal/router"
	"github.com/tutora-app/tutora/internal/screen"
	"github.com/tutora-app/tutora/internal/ui/theme"
)

// PlaceholderScreen stands in for a flow whose services are not
// wired, e.g. running without an API key configured.
type PlaceholderScreen struct {
	title string
}

var _ screen.Screen = (*PlaceholderScreen)(nil)

func New(title string) *PlaceholderScreen {
	return &PlaceholderScreen{title: title}
}

func (p *PlaceholderScreen) Init() tea.Cmd {
	return nil
}

func (p *PlaceholderScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok && kmsg.String() == "esc" {
		return p, func() tea.Msg { return router.PopScreenMsg{} }
	}
	return p, nil
}

func (p *PlaceholderScreen) View(width, height int) string {
	content := lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.Text).
		Render("╌╌ Not available ╌╌\n\nA required service is not configured.\nCheck your API key and database, then restart.")

	return content
}

func (p *PlaceholderScreen) Title() string {
	return p.title
}
