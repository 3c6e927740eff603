package learn

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/tutora-app/tutora/internal/ui/theme"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

func (l *LearnScreen) View(width, height int) string {
	if l.pendingFetch > 0 {
		return l.loadingView(width, height)
	}

	tabs := l.tabBar()

	body := ""
	bodyHeight := height - lipgloss.Height(tabs) - 2
	switch l.activeTab {
	case tabDocs:
		body = l.docsView(width, bodyHeight)
	case tabVideos:
		body = l.videosView(width, bodyHeight)
	case tabChat:
		body = l.chatView(width, bodyHeight)
	}

	var errLine string
	if l.errMsg != "" {
		errLine = lipgloss.NewStyle().Foreground(theme.Error).Render(l.errMsg)
	}

	return lipgloss.JoinVertical(lipgloss.Left, tabs, "", body, errLine)
}

func (l *LearnScreen) loadingView(width, height int) string {
	frame := spinnerFrames[l.spinFrame%len(spinnerFrames)]
	msg := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Render(fmt.Sprintf("%s Preparing your study material on %q...", frame, l.sess.Topic))
	sub := theme.Hint.Render("Searching videos and writing documentation")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center, msg, "", sub))
}

func (l *LearnScreen) tabBar() string {
	labels := []string{"Docs", "Videos", "Chat"}
	parts := make([]string, 0, len(labels))
	for i, label := range labels {
		style := lipgloss.NewStyle().Foreground(theme.TextDim).Padding(0, 2)
		if tab(i) == l.activeTab {
			style = style.Foreground(theme.Primary).Bold(true).Underline(true)
		}
		parts = append(parts, style.Render(label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (l *LearnScreen) docsView(width, height int) string {
	if l.sess.Documentation == "" {
		return theme.Hint.Render("No documentation was generated for this topic.")
	}

	wrapped := lipgloss.NewStyle().Width(width - 4).Render(l.sess.Documentation)
	lines := strings.Split(wrapped, "\n")

	// Clamp the scroll so the last page stays full.
	maxScroll := max(0, len(lines)-height)
	if l.docsScroll > maxScroll {
		l.docsScroll = maxScroll
	}
	end := min(len(lines), l.docsScroll+height)
	visible := strings.Join(lines[l.docsScroll:end], "\n")

	if maxScroll == 0 {
		return visible
	}
	pos := theme.Hint.Render(fmt.Sprintf("— %d/%d —", end, len(lines)))
	return lipgloss.JoinVertical(lipgloss.Left, visible, pos)
}

func (l *LearnScreen) videosView(width, height int) string {
	video, ok := l.sess.CurrentVideo()
	if !ok {
		return theme.Hint.Render("No videos found for this topic. The docs have you covered.")
	}

	title := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(video.Title)
	meta := theme.Hint.Render(fmt.Sprintf("%s · %s · %s", video.Channel, video.Duration, video.Views))
	link := lipgloss.NewStyle().Foreground(theme.Accent).Underline(true).Render(video.Link)
	pos := lipgloss.NewStyle().Foreground(theme.Secondary).
		Render(fmt.Sprintf("Video %d of %d", l.sess.CurrentVideoIndex+1, len(l.sess.Videos)))

	card := theme.Card.Width(min(width-6, 76)).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, meta, "", link))

	return lipgloss.JoinVertical(lipgloss.Left, pos, "", card)
}

func (l *LearnScreen) chatView(width, height int) string {
	var b strings.Builder

	questionStyle := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	answerStyle := lipgloss.NewStyle().Foreground(theme.Text).Width(width - 6)

	if len(l.sess.ChatHistory) == 0 && !l.chatWaiting {
		b.WriteString(theme.Hint.Render("Stuck on something? Ask the tutor below."))
		b.WriteString("\n")
	}
	for _, turn := range l.sess.ChatHistory {
		b.WriteString(questionStyle.Render("You: " + turn.Question))
		b.WriteString("\n")
		b.WriteString(answerStyle.Render("Tutor: " + turn.Answer))
		b.WriteString("\n\n")
	}
	if l.chatWaiting {
		frame := spinnerFrames[l.spinFrame%len(spinnerFrames)]
		b.WriteString(questionStyle.Render("You: " + l.sess.PendingQuestion))
		b.WriteString("\n")
		b.WriteString(theme.Hint.Render(frame + " Tutor is thinking..."))
		b.WriteString("\n")
	}

	history := b.String()

	// Keep the tail of the conversation in view.
	lines := strings.Split(strings.TrimRight(history, "\n"), "\n")
	historyHeight := max(1, height-3)
	if len(lines) > historyHeight {
		lines = lines[len(lines)-historyHeight:]
	}

	input := l.chatInput.View()
	return lipgloss.JoinVertical(lipgloss.Left, strings.Join(lines, "\n"), "", input)
}
