package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/tutora-app/tutora/internal/ui/theme"
)

// ProgressBar is a horizontal score bar. Percent is on the 0-100
// scale quiz results use.
type ProgressBar struct {
	Label       string
	Percent     float64
	ShowPercent bool
	Width       int
}

func NewProgressBar(label string, percent float64, showPercent bool, width int) ProgressBar {
	return ProgressBar{Label: label, Percent: percent, ShowPercent: showPercent, Width: width}
}

func (p ProgressBar) View() string {
	var out string
	if p.Label != "" {
		out = lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label) + "  "
	}

	barWidth := p.Width - lipgloss.Width(out)
	if p.ShowPercent {
		barWidth -= 6 // room for "  100%"
	}
	if barWidth < 4 {
		barWidth = 4
	}

	ratio := p.Percent / 100
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	filled := int(float64(barWidth) * ratio)

	out += theme.ProgressFilled.Render(strings.Repeat(" ", filled))
	out += theme.ProgressEmpty.Render(strings.Repeat(" ", barWidth-filled))

	if p.ShowPercent {
		out += lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Render(fmt.Sprintf("  %d%%", int(p.Percent)))
	}
	return out
}
