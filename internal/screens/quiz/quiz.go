package quiz

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"

	"github.com/tutora-app/tutora/internal/agents"
	"github.com/tutora-app/tutora/internal/learning"
	qz "github.com/tutora-app/tutora/internal/quiz"
	"github.com/tutora-app/tutora/internal/router"
	"github.com/tutora-app/tutora/internal/screen"
	"github.com/tutora-app/tutora/internal/store"
	"github.com/tutora-app/tutora/internal/ui/components"
	"github.com/tutora-app/tutora/internal/ui/layout"
)

type phase int

const (
	phaseGenerating phase = iota
	phaseTaking
	phaseResults
)

// QuizScreen generates a quiz for the session topic, collects answers
// and presents the scored result with follow-up choices.
type QuizScreen struct {
	sess         *learning.SessionData
	agents       *agents.Service
	eventRepo    store.EventRepo
	learnFactory func() screen.Screen
	topicFactory func() screen.Screen

	phase   phase
	attempt int

	// taking
	current int
	cursor  int
	answers map[int]int

	// results
	feedback        string
	feedbackPending bool
	relatedPending  bool
	reviewOpen      bool
	menu            components.Menu

	spinFrame int
	errMsg    string
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)
var _ screen.SessionInfoProvider = (*QuizScreen)(nil)

// New creates the quiz screen. The session must already be in the
// quiz-generation step.
func New(sess *learning.SessionData, agentsSvc *agents.Service, eventRepo store.EventRepo, learnFactory, topicFactory func() screen.Screen) *QuizScreen {
	return &QuizScreen{
		sess:         sess,
		agents:       agentsSvc,
		eventRepo:    eventRepo,
		learnFactory: learnFactory,
		topicFactory: topicFactory,
		answers:      make(map[int]int),
		attempt:      sess.QuizAttempt,
	}
}

func (q *QuizScreen) Init() tea.Cmd {
	return tea.Batch(q.generateCmd(), spinnerTick())
}

func (q *QuizScreen) Title() string {
	return "Quiz"
}

func (q *QuizScreen) SessionInfo() (string, int) {
	return q.sess.Topic, q.attempt
}

func (q *QuizScreen) KeyHints() []layout.KeyHint {
	switch q.phase {
	case phaseTaking:
		return []layout.KeyHint{
			{Key: "↑/↓", Description: "Select"},
			{Key: "1-4", Description: "Pick"},
			{Key: "Enter", Description: "Confirm"},
			{Key: "←", Description: "Previous"},
		}
	case phaseResults:
		return []layout.KeyHint{
			{Key: "↑/↓", Description: "Navigate"},
			{Key: "Enter", Description: "Choose"},
			{Key: "R", Description: "Review answers"},
		}
	default:
		if q.errMsg != "" {
			return []layout.KeyHint{{Key: "R", Description: "Retry"}}
		}
		return nil
	}
}

func (q *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case spinnerTickMsg:
		if q.phase != phaseGenerating && !q.feedbackPending && !q.relatedPending {
			return q, nil
		}
		q.spinFrame++
		return q, spinnerTick()

	case quizReadyMsg:
		return q.handleQuizReady(msg)

	case feedbackMsg:
		q.feedbackPending = false
		if msg.Err == nil {
			q.feedback = msg.Feedback
		}
		return q, nil

	case relatedMsg:
		return q.handleRelated(msg)

	case resultsChoiceMsg:
		return q.handleChoice(msg)

	case tea.KeyMsg:
		return q.handleKey(msg)
	}
	return q, nil
}

func (q *QuizScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch q.phase {
	case phaseGenerating:
		if q.errMsg != "" && msg.String() == "r" {
			q.errMsg = ""
			return q, tea.Batch(q.generateCmd(), spinnerTick())
		}
		return q, nil

	case phaseTaking:
		return q.handleTakingKey(msg)

	case phaseResults:
		if msg.String() == "r" {
			q.reviewOpen = !q.reviewOpen
			return q, nil
		}
		var cmd tea.Cmd
		q.menu, cmd = q.menu.Update(msg)
		return q, cmd
	}
	return q, nil
}

func (q *QuizScreen) handleTakingKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if q.cursor > 0 {
			q.cursor--
		}
	case "down", "j":
		if q.cursor < qz.OptionCount-1 {
			q.cursor++
		}
	case "1", "2", "3", "4":
		q.cursor = int(msg.String()[0] - '1')
	case "left", "h":
		if q.current > 0 {
			q.current--
			q.cursor = q.answers[q.current]
		}
	case "enter":
		return q.confirmAnswer()
	}
	return q, nil
}

func (q *QuizScreen) confirmAnswer() (screen.Screen, tea.Cmd) {
	q.answers[q.current] = q.cursor

	if q.current < len(q.sess.Quiz)-1 {
		q.current++
		if selected, ok := q.answers[q.current]; ok {
			q.cursor = selected
		} else {
			q.cursor = 0
		}
		return q, nil
	}
	return q.submit()
}

func (q *QuizScreen) submit() (screen.Screen, tea.Cmd) {
	effects, err := learning.Apply(q.sess, learning.SubmitAnswers{Answers: q.answers})
	if err != nil {
		q.errMsg = err.Error()
		return q, nil
	}

	var cmds []tea.Cmd
	for _, effect := range effects {
		if effect == learning.EffectEvaluate {
			cmds = append(cmds, q.evaluate()...)
		}
	}
	return q, tea.Batch(cmds...)
}

// evaluate scores the attempt, records it and kicks off the feedback
// (and, on first mastery, related-topic) requests.
func (q *QuizScreen) evaluate() []tea.Cmd {
	result := qz.Evaluate(q.sess.Quiz, q.sess.UserAnswers)

	effects, err := learning.Apply(q.sess, learning.Scored{Result: result})
	if err != nil {
		q.errMsg = err.Error()
		return nil
	}

	q.phase = phaseResults
	q.feedbackPending = true
	q.menu = q.buildMenu(result)

	cmds := []tea.Cmd{q.feedbackCmd(result), spinnerTick()}
	for _, effect := range effects {
		if effect == learning.EffectSuggestRelated {
			q.relatedPending = true
			cmds = append(cmds, q.relatedCmd())
		}
	}

	if q.eventRepo != nil {
		ctx := context.Background()
		_ = q.eventRepo.AppendQuizEvent(ctx, store.QuizEventData{
			SessionID:  q.sess.SessionID,
			Topic:      q.sess.Topic,
			Attempt:    q.attempt,
			Score:      result.Score,
			Total:      result.Total,
			Percentage: result.Percentage,
			Mastery:    result.Mastery,
			WeakAreas:  result.WeakAreas,
		})
		if result.Mastery {
			_ = q.eventRepo.AppendSessionEvent(ctx, store.SessionEventData{
				SessionID:    q.sess.SessionID,
				Action:       "end",
				Topic:        q.sess.Topic,
				QuizAttempts: q.attempt,
				Mastery:      true,
			})
		}
	}
	return cmds
}

func (q *QuizScreen) handleQuizReady(msg quizReadyMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		q.errMsg = "Quiz generation failed: " + msg.Err.Error()
		return q, nil
	}
	if _, err := learning.Apply(q.sess, learning.QuizReady{Questions: msg.Questions}); err != nil {
		q.errMsg = err.Error()
		return q, nil
	}
	q.current = 0
	q.cursor = 0
	q.answers = make(map[int]int)

	// A degraded generation can deliver zero questions. There is
	// nothing to take, so it scores straight away as 0%.
	if len(msg.Questions) == 0 {
		return q.submit()
	}

	q.phase = phaseTaking
	return q, nil
}

func (q *QuizScreen) handleRelated(msg relatedMsg) (screen.Screen, tea.Cmd) {
	q.relatedPending = false
	if msg.Err != nil {
		// The mastery path still works without suggestions.
		return q, nil
	}
	if _, err := learning.Apply(q.sess, learning.RelatedReady{Topics: msg.Topics}); err != nil {
		q.errMsg = err.Error()
		return q, nil
	}
	if q.sess.LastResult != nil {
		q.menu = q.buildMenu(*q.sess.LastResult)
	}
	return q, nil
}

// buildMenu assembles the results menu for the latest outcome. Related
// topics appear as soon as they arrive.
func (q *QuizScreen) buildMenu(result qz.Result) components.Menu {
	choice := func(kind, topic string) func() tea.Cmd {
		return func() tea.Cmd {
			return func() tea.Msg { return resultsChoiceMsg{Choice: kind, Topic: topic} }
		}
	}

	var items []components.MenuItem
	if result.Mastery {
		for _, topic := range q.sess.RelatedTopics {
			items = append(items, components.MenuItem{
				Label:  "Learn next: " + topic,
				Action: choice("related", topic),
			})
		}
		items = append(items,
			components.MenuItem{Label: "Learn something else", Action: choice("another", "")},
			components.MenuItem{Label: "Back to home", Action: choice("home", "")},
		)
	} else {
		items = append(items,
			components.MenuItem{Label: fmt.Sprintf("Retry quiz (attempt %d)", q.sess.QuizAttempt), Action: choice("retry", "")},
			components.MenuItem{Label: "Back to studying", Action: choice("study", "")},
			components.MenuItem{Label: "Learn something else", Action: choice("another", "")},
		)
	}
	return components.NewMenu(items)
}

func (q *QuizScreen) handleChoice(msg resultsChoiceMsg) (screen.Screen, tea.Cmd) {
	switch msg.Choice {
	case "retry":
		effects, err := learning.Apply(q.sess, learning.RetryQuiz{})
		if err != nil {
			q.errMsg = err.Error()
			return q, nil
		}
		for _, effect := range effects {
			if effect == learning.EffectGenerateQuiz {
				q.resetForAttempt()
				return q, tea.Batch(q.generateCmd(), spinnerTick())
			}
		}
		return q, nil

	case "study":
		if _, err := learning.Apply(q.sess, learning.StudyAgain{}); err != nil {
			q.errMsg = err.Error()
			return q, nil
		}
		return q, func() tea.Msg { return router.PopScreenMsg{} }

	case "related":
		if _, err := learning.Apply(q.sess, learning.PickRelated{Topic: msg.Topic}); err != nil {
			q.errMsg = err.Error()
			return q, nil
		}
		if q.eventRepo != nil {
			_ = q.eventRepo.AppendSessionEvent(context.Background(), store.SessionEventData{
				SessionID: q.sess.SessionID,
				Action:    "start",
				Topic:     q.sess.Topic,
			})
		}
		next := q.learnFactory()
		return q, tea.Sequence(
			func() tea.Msg { return router.PopScreenMsg{} },
			func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} },
		)

	case "another":
		if _, err := learning.Apply(q.sess, learning.AnotherTopic{}); err != nil {
			q.errMsg = err.Error()
			return q, nil
		}
		next := q.topicFactory()
		return q, tea.Sequence(
			func() tea.Msg { return router.PopScreenMsg{} },
			func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} },
		)

	case "home":
		return q, func() tea.Msg { return router.PopToRootMsg{} }
	}
	return q, nil
}

// resetForAttempt clears per-attempt screen state for a regenerated
// quiz.
func (q *QuizScreen) resetForAttempt() {
	q.phase = phaseGenerating
	q.attempt = q.sess.QuizAttempt
	q.answers = make(map[int]int)
	q.current = 0
	q.cursor = 0
	q.feedback = ""
	q.feedbackPending = false
	q.relatedPending = false
	q.reviewOpen = false
	q.errMsg = ""
}

func (q *QuizScreen) generateCmd() tea.Cmd {
	input := agents.QuizInput{
		Topic:         q.sess.Topic,
		Documentation: q.sess.Documentation,
		WeakAreas:     q.sess.WeakAreas,
		Attempt:       q.sess.QuizAttempt,
	}
	return func() tea.Msg {
		questions, err := q.agents.GenerateQuiz(context.Background(), input)
		return quizReadyMsg{Questions: questions, Err: err}
	}
}

func (q *QuizScreen) feedbackCmd(result qz.Result) tea.Cmd {
	input := agents.FeedbackInput{
		Topic:         q.sess.Topic,
		Documentation: q.sess.Documentation,
		Result:        result,
	}
	return func() tea.Msg {
		feedback, err := q.agents.Feedback(context.Background(), input)
		return feedbackMsg{Feedback: feedback, Err: err}
	}
}

func (q *QuizScreen) relatedCmd() tea.Cmd {
	input := agents.RelatedInput{
		Topic:         q.sess.Topic,
		Documentation: q.sess.Documentation,
	}
	return func() tea.Msg {
		topics, err := q.agents.RelatedTopics(context.Background(), input)
		return relatedMsg{Topics: topics, Err: err}
	}
}
