package learn

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/tutora-app/tutora/internal/agents"
	"github.com/tutora-app/tutora/internal/learning"
	"github.com/tutora-app/tutora/internal/router"
	"github.com/tutora-app/tutora/internal/screen"
	quizscreen "github.com/tutora-app/tutora/internal/screens/quiz"
	"github.com/tutora-app/tutora/internal/store"
	"github.com/tutora-app/tutora/internal/ui/components"
	"github.com/tutora-app/tutora/internal/ui/layout"
	"github.com/tutora-app/tutora/internal/videos"
)

type tab int

const (
	tabDocs tab = iota
	tabVideos
	tabChat
	tabCount
)

// LearnScreen is the study phase: generated documentation, video
// results and a Q&A chat, with a quiz gated behind it.
type LearnScreen struct {
	sess         *learning.SessionData
	agents       *agents.Service
	videoClient  *videos.Client
	eventRepo    store.EventRepo
	topicFactory func() screen.Screen

	activeTab  tab
	docsScroll int

	chatInput   components.TextInput
	chatWaiting bool

	pendingFetch  int
	fetchedVideos []videos.Video
	fetchedDocs   string
	spinFrame     int
	errMsg        string
}

var _ screen.Screen = (*LearnScreen)(nil)
var _ screen.KeyHintProvider = (*LearnScreen)(nil)
var _ screen.SessionInfoProvider = (*LearnScreen)(nil)

// New creates the study screen for an in-progress session. The session
// must already hold a refined topic.
func New(sess *learning.SessionData, agentsSvc *agents.Service, videoClient *videos.Client, eventRepo store.EventRepo, topicFactory func() screen.Screen) *LearnScreen {
	return &LearnScreen{
		sess:         sess,
		agents:       agentsSvc,
		videoClient:  videoClient,
		eventRepo:    eventRepo,
		topicFactory: topicFactory,
		chatInput:    components.NewTextInput("Ask the tutor anything about this topic...", 200),
	}
}

// Init derives the fetch work still missing for the session. Entering
// with content already cached (after a quiz retry, say) fetches
// nothing.
func (l *LearnScreen) Init() tea.Cmd {
	effects, err := learning.Apply(l.sess, learning.TopicRefined{})
	if err != nil {
		l.errMsg = err.Error()
		return nil
	}

	var cmds []tea.Cmd
	for _, effect := range effects {
		switch effect {
		case learning.EffectFetchVideos:
			l.pendingFetch++
			cmds = append(cmds, l.fetchVideosCmd())
		case learning.EffectGenerateDocs:
			l.pendingFetch++
			cmds = append(cmds, l.generateDocsCmd())
		}
	}
	if l.pendingFetch > 0 {
		cmds = append(cmds, spinnerTick())
	} else {
		// Everything cached from a previous pass; skip straight ahead.
		_, _ = l.maybeContentReady()
	}
	return tea.Batch(cmds...)
}

func (l *LearnScreen) Title() string {
	return "Study"
}

func (l *LearnScreen) SessionInfo() (string, int) {
	return l.sess.Topic, l.sess.QuizAttempt
}

func (l *LearnScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{{Key: "Tab", Description: "Switch panel"}}
	switch l.activeTab {
	case tabDocs:
		hints = append(hints, layout.KeyHint{Key: "↑/↓", Description: "Scroll"})
	case tabVideos:
		hints = append(hints, layout.KeyHint{Key: "←/→", Description: "Browse"})
	case tabChat:
		hints = append(hints, layout.KeyHint{Key: "Enter", Description: "Ask"})
	}
	if l.activeTab != tabChat {
		hints = append(hints, layout.KeyHint{Key: "S", Description: "Take quiz"})
	}
	hints = append(hints, layout.KeyHint{Key: "Esc", Description: "End session"})
	return hints
}

func (l *LearnScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case spinnerTickMsg:
		if l.pendingFetch == 0 && !l.chatWaiting {
			return l, nil
		}
		l.spinFrame++
		return l, spinnerTick()

	case videosFetchedMsg:
		return l.handleVideos(msg)

	case docsReadyMsg:
		return l.handleDocs(msg)

	case answerReadyMsg:
		return l.handleAnswer(msg)

	case tea.KeyMsg:
		return l.handleKey(msg)
	}

	if l.activeTab == tabChat && !l.chatWaiting {
		var cmd tea.Cmd
		l.chatInput, cmd = l.chatInput.Update(msg)
		return l, cmd
	}
	return l, nil
}

func (l *LearnScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "tab":
		l.activeTab = (l.activeTab + 1) % tabCount
		return l, nil
	case "shift+tab":
		l.activeTab = (l.activeTab - 1 + tabCount) % tabCount
		return l, nil
	case "esc":
		return l.endSession()
	}

	switch l.activeTab {
	case tabDocs:
		return l.handleDocsKey(msg)
	case tabVideos:
		return l.handleVideosKey(msg)
	case tabChat:
		return l.handleChatKey(msg)
	}
	return l, nil
}

func (l *LearnScreen) handleDocsKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if l.docsScroll > 0 {
			l.docsScroll--
		}
	case "down", "j":
		l.docsScroll++
	case "pgup":
		l.docsScroll = max(0, l.docsScroll-10)
	case "pgdown":
		l.docsScroll += 10
	case "g":
		l.docsScroll = 0
	case "s":
		return l.startQuiz()
	}
	return l, nil
}

func (l *LearnScreen) handleVideosKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "right", "n", "down":
		_, _ = learning.Apply(l.sess, learning.NextVideo{})
	case "left", "p", "up":
		_, _ = learning.Apply(l.sess, learning.PrevVideo{})
	case "s":
		return l.startQuiz()
	}
	return l, nil
}

func (l *LearnScreen) handleChatKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if l.chatWaiting {
		return l, nil
	}
	if msg.String() == "enter" {
		return l.askQuestion()
	}
	var cmd tea.Cmd
	l.chatInput, cmd = l.chatInput.Update(msg)
	return l, cmd
}

func (l *LearnScreen) askQuestion() (screen.Screen, tea.Cmd) {
	question := strings.TrimSpace(l.chatInput.Value())
	if question == "" {
		return l, nil
	}

	effects, err := learning.Apply(l.sess, learning.AskQuestion{Question: question})
	if err != nil {
		l.errMsg = err.Error()
		return l, nil
	}

	l.chatInput.Reset()
	l.errMsg = ""

	var cmds []tea.Cmd
	for _, effect := range effects {
		if effect == learning.EffectAnswerQuestion {
			l.chatWaiting = true
			cmds = append(cmds, l.answerCmd(question), spinnerTick(), l.chatInput.Init())
		}
	}
	return l, tea.Batch(cmds...)
}

func (l *LearnScreen) startQuiz() (screen.Screen, tea.Cmd) {
	if l.pendingFetch > 0 {
		return l, nil
	}

	if _, err := learning.Apply(l.sess, learning.StartQuiz{}); err != nil {
		l.errMsg = err.Error()
		return l, nil
	}

	next := quizscreen.New(l.sess, l.agents, l.eventRepo, l.selfFactory(), l.topicFactory)
	return l, func() tea.Msg {
		return router.PushScreenMsg{Screen: next}
	}
}

func (l *LearnScreen) endSession() (screen.Screen, tea.Cmd) {
	if l.eventRepo != nil {
		_ = l.eventRepo.AppendSessionEvent(context.Background(), store.SessionEventData{
			SessionID:    l.sess.SessionID,
			Action:       "reset",
			Topic:        l.sess.Topic,
			QuizAttempts: l.sess.QuizAttempt,
		})
	}
	return l, func() tea.Msg { return router.PopScreenMsg{} }
}

// selfFactory builds a fresh LearnScreen over the same session, used
// when the learner jumps to a related topic after mastery.
func (l *LearnScreen) selfFactory() func() screen.Screen {
	return func() screen.Screen {
		return New(l.sess, l.agents, l.videoClient, l.eventRepo, l.topicFactory)
	}
}

func (l *LearnScreen) fetchVideosCmd() tea.Cmd {
	topic := l.sess.Topic
	return func() tea.Msg {
		found, err := l.videoClient.Search(context.Background(), topic, videos.DefaultLimit)
		return videosFetchedMsg{Videos: found, Err: err}
	}
}

func (l *LearnScreen) generateDocsCmd() tea.Cmd {
	topic := l.sess.Topic
	return func() tea.Msg {
		docs, err := l.agents.GenerateDocs(context.Background(), topic)
		return docsReadyMsg{Docs: docs, Err: err}
	}
}

func (l *LearnScreen) answerCmd(question string) tea.Cmd {
	input := agents.AnswerInput{
		Topic:         l.sess.Topic,
		Documentation: l.sess.Documentation,
		Question:      question,
		History:       l.sess.ChatHistory,
	}
	return func() tea.Msg {
		answer, err := l.agents.Answer(context.Background(), input)
		return answerReadyMsg{Answer: answer, Err: err}
	}
}

func (l *LearnScreen) handleVideos(msg videosFetchedMsg) (screen.Screen, tea.Cmd) {
	l.pendingFetch--
	if msg.Err != nil {
		// Video search is best-effort; the session continues on docs.
		l.errMsg = "Video search failed: " + msg.Err.Error()
	}
	l.fetchedVideos = msg.Videos
	return l.maybeContentReady()
}

func (l *LearnScreen) handleDocs(msg docsReadyMsg) (screen.Screen, tea.Cmd) {
	l.pendingFetch--
	if msg.Err != nil {
		l.errMsg = "Documentation failed: " + msg.Err.Error()
	}
	l.fetchedDocs = msg.Docs
	return l.maybeContentReady()
}

func (l *LearnScreen) maybeContentReady() (screen.Screen, tea.Cmd) {
	if l.pendingFetch > 0 {
		return l, nil
	}
	if _, err := learning.Apply(l.sess, learning.ContentReady{
		Videos:        l.fetchedVideos,
		Documentation: l.fetchedDocs,
	}); err != nil {
		l.errMsg = err.Error()
	}
	return l, nil
}

func (l *LearnScreen) handleAnswer(msg answerReadyMsg) (screen.Screen, tea.Cmd) {
	l.chatWaiting = false
	answer := msg.Answer
	if msg.Err != nil {
		answer = "Sorry, I couldn't answer that right now. Try again in a moment."
	}
	if _, err := learning.Apply(l.sess, learning.AnswerReady{Answer: answer}); err != nil {
		l.errMsg = err.Error()
		return l, nil
	}

	if l.eventRepo != nil && msg.Err == nil {
		n := len(l.sess.ChatHistory)
		if n > 0 {
			turn := l.sess.ChatHistory[n-1]
			_ = l.eventRepo.AppendChatEvent(context.Background(), store.ChatEventData{
				SessionID: l.sess.SessionID,
				Topic:     l.sess.Topic,
				Question:  turn.Question,
				Answer:    turn.Answer,
			})
		}
	}
	return l, nil
}
