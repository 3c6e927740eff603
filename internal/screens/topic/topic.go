package topic

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/tutora-app/tutora/internal/agents"
	"github.com/tutora-app/tutora/internal/learning"
	"github.com/tutora-app/tutora/internal/router"
	"github.com/tutora-app/tutora/internal/screen"
	"github.com/tutora-app/tutora/internal/screens/learn"
	"github.com/tutora-app/tutora/internal/store"
	"github.com/tutora-app/tutora/internal/ui/components"
	"github.com/tutora-app/tutora/internal/ui/layout"
	"github.com/tutora-app/tutora/internal/ui/theme"
	"github.com/tutora-app/tutora/internal/videos"
)

// topicRefinedMsg delivers the refined topic (or the refinement error).
type topicRefinedMsg struct {
	Topic string
	Err   error
}

// TopicScreen asks what the learner wants to study and refines the
// free-form input into a topic before starting the session.
type TopicScreen struct {
	agents      *agents.Service
	videoClient *videos.Client
	eventRepo   store.EventRepo

	sess     *learning.SessionData
	input    components.TextInput
	refining bool
	errMsg   string
}

var _ screen.Screen = (*TopicScreen)(nil)
var _ screen.KeyHintProvider = (*TopicScreen)(nil)

// New creates a TopicScreen with a fresh session.
func New(agentsSvc *agents.Service, videoClient *videos.Client, eventRepo store.EventRepo) *TopicScreen {
	return &TopicScreen{
		agents:      agentsSvc,
		videoClient: videoClient,
		eventRepo:   eventRepo,
		sess:        learning.NewSession(),
		input:       components.NewTextInput("What do you want to learn?", 120),
	}
}

func (t *TopicScreen) Init() tea.Cmd {
	return t.input.Init()
}

func (t *TopicScreen) Title() string {
	return "New Topic"
}

func (t *TopicScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Start"},
		{Key: "Esc", Description: "Back"},
	}
}

func (t *TopicScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case topicRefinedMsg:
		return t.handleRefined(msg)

	case tea.KeyMsg:
		if t.refining {
			return t, nil
		}
		switch msg.String() {
		case "esc":
			return t, func() tea.Msg { return router.PopScreenMsg{} }
		case "enter":
			return t.submit()
		}
	}

	if !t.refining {
		var cmd tea.Cmd
		t.input, cmd = t.input.Update(msg)
		return t, cmd
	}
	return t, nil
}

func (t *TopicScreen) submit() (screen.Screen, tea.Cmd) {
	raw := strings.TrimSpace(t.input.Value())

	effects, err := learning.Apply(t.sess, learning.SubmitTopic{Input: raw})
	if err != nil {
		t.errMsg = "Type a topic first."
		return t, nil
	}

	t.errMsg = ""
	t.refining = true

	var cmds []tea.Cmd
	for _, effect := range effects {
		if effect == learning.EffectRefineTopic {
			cmds = append(cmds, t.refineCmd(raw))
		}
	}
	return t, tea.Batch(cmds...)
}

func (t *TopicScreen) refineCmd(raw string) tea.Cmd {
	return func() tea.Msg {
		refined, err := t.agents.RefineTopic(context.Background(), raw)
		return topicRefinedMsg{Topic: refined, Err: err}
	}
}

func (t *TopicScreen) handleRefined(msg topicRefinedMsg) (screen.Screen, tea.Cmd) {
	topic := msg.Topic
	if msg.Err != nil {
		// Refinement is best-effort: study the raw input instead.
		topic = strings.TrimSpace(t.input.Value())
	}

	if _, err := learning.Apply(t.sess, learning.TopicRefined{Topic: topic}); err != nil {
		t.refining = false
		t.errMsg = err.Error()
		return t, nil
	}

	if t.eventRepo != nil {
		_ = t.eventRepo.AppendSessionEvent(context.Background(), store.SessionEventData{
			SessionID: t.sess.SessionID,
			Action:    "start",
			Topic:     t.sess.Topic,
		})
	}

	learnScreen := learn.New(t.sess, t.agents, t.videoClient, t.eventRepo, t.selfFactory())
	return t, func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: learnScreen}
	}
}

// selfFactory builds a fresh TopicScreen, used when the learner picks
// "learn another topic" deeper in the flow.
func (t *TopicScreen) selfFactory() func() screen.Screen {
	return func() screen.Screen {
		return New(t.agents, t.videoClient, t.eventRepo)
	}
}

func (t *TopicScreen) View(width, height int) string {
	title := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true).
		Render("What would you like to learn today?")

	hint := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Italic(true).
		Render(`Anything goes: "binary search", "how does TLS work", "french revolution"`)

	var status string
	switch {
	case t.refining:
		status = lipgloss.NewStyle().
			Foreground(theme.Secondary).
			Render("Refining your topic...")
	case t.errMsg != "":
		status = lipgloss.NewStyle().
			Foreground(theme.Error).
			Render(t.errMsg)
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(1, 2).
		Width(min(width-8, 72)).
		Render(t.input.View())

	content := strings.Join([]string{title, "", hint, "", box, "", status}, "\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
