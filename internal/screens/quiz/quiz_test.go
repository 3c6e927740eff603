package quiz

import (
	"context"
	"fmt"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/tutora-app/tutora/internal/learning"
	qz "github.com/tutora-app/tutora/internal/quiz"
	"github.com/tutora-app/tutora/internal/screen"
	"github.com/tutora-app/tutora/internal/screens/placeholder"
	"github.com/tutora-app/tutora/internal/store"
)

// mockEventRepo implements store.EventRepo for testing.
type mockEventRepo struct {
	sessionEvents []store.SessionEventData
	quizEvents    []store.QuizEventData
	chatEvents    []store.ChatEventData
}

func (m *mockEventRepo) AppendSessionEvent(_ context.Context, data store.SessionEventData) error {
	m.sessionEvents = append(m.sessionEvents, data)
	return nil
}
func (m *mockEventRepo) AppendQuizEvent(_ context.Context, data store.QuizEventData) error {
	m.quizEvents = append(m.quizEvents, data)
	return nil
}
func (m *mockEventRepo) AppendChatEvent(_ context.Context, data store.ChatEventData) error {
	m.chatEvents = append(m.chatEvents, data)
	return nil
}
func (m *mockEventRepo) AppendLLMRequest(_ context.Context, _ store.LLMRequestEventData) error {
	return nil
}
func (m *mockEventRepo) SessionHistory(_ context.Context, _ store.QueryOpts) ([]store.SessionRecord, error) {
	return nil, nil
}
func (m *mockEventRepo) QuizHistory(_ context.Context, _ store.QueryOpts) ([]store.QuizRecord, error) {
	return nil, nil
}
func (m *mockEventRepo) QueryLLMEvents(_ context.Context, _ store.QueryOpts) ([]store.LLMEventRecord, error) {
	return nil, nil
}
func (m *mockEventRepo) GetLLMEvent(_ context.Context, _ int) (*store.LLMEventRecord, error) {
	return nil, nil
}
func (m *mockEventRepo) LLMUsageByPurpose(_ context.Context) ([]store.PurposeUsage, error) {
	return nil, nil
}
func (m *mockEventRepo) LLMUsageByModel(_ context.Context) ([]store.ModelUsage, error) {
	return nil, nil
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func sampleQuestions() []qz.Question {
	questions := make([]qz.Question, qz.QuestionCount)
	for i := range questions {
		questions[i] = qz.Question{
			Text:        fmt.Sprintf("Q%d", i+1),
			Options:     []string{"a", "b", "c", "d"},
			Correct:     0,
			Explanation: "because",
		}
	}
	return questions
}

// quizReadySession builds a session at the quiz-generation step.
func quizReadySession(t *testing.T) *learning.SessionData {
	t.Helper()
	s := learning.NewSession()
	for _, ev := range []learning.Event{
		learning.SubmitTopic{Input: "dns"},
		learning.TopicRefined{Topic: "How DNS works"},
		learning.ContentReady{Documentation: "docs"},
		learning.StartQuiz{},
	} {
		if _, err := learning.Apply(s, ev); err != nil {
			t.Fatalf("Apply(%T): %v", ev, err)
		}
	}
	return s
}

func testQuizScreen(t *testing.T) (*QuizScreen, *mockEventRepo) {
	repo := &mockEventRepo{}
	factory := func() screen.Screen { return placeholder.New("next") }
	s := New(quizReadySession(t), nil, repo, factory, factory)
	return s, repo
}

// answerAll confirms the given option for every question.
func answerAll(t *testing.T, s *QuizScreen, option rune) screen.Screen {
	t.Helper()
	var scr screen.Screen = s
	for range s.sess.Quiz {
		scr, _ = scr.Update(keyPress(option))
		scr, _ = scr.Update(specialKey(tea.KeyEnter))
	}
	return scr
}

func TestQuizScreen_Title(t *testing.T) {
	s, _ := testQuizScreen(t)
	if s.Title() != "Quiz" {
		t.Errorf("Title = %q, want %q", s.Title(), "Quiz")
	}
}

func TestQuizScreen_View_Generating(t *testing.T) {
	s, _ := testQuizScreen(t)
	if s.View(80, 24) == "" {
		t.Error("expected non-empty view while generating")
	}
}

func TestQuizScreen_QuizReady_StartsTaking(t *testing.T) {
	s, _ := testQuizScreen(t)

	scr, _ := s.Update(quizReadyMsg{Questions: sampleQuestions()})
	qs := scr.(*QuizScreen)

	if qs.phase != phaseTaking {
		t.Errorf("phase = %d, want taking", qs.phase)
	}
	if qs.sess.CurrentStep != learning.StepTakeQuiz {
		t.Errorf("step = %s, want take_quiz", qs.sess.CurrentStep)
	}
	if qs.View(80, 24) == "" {
		t.Error("expected non-empty taking view")
	}
}

func TestQuizScreen_QuizReady_Error(t *testing.T) {
	s, _ := testQuizScreen(t)

	scr, _ := s.Update(quizReadyMsg{Err: fmt.Errorf("model unavailable")})
	qs := scr.(*QuizScreen)

	if qs.phase != phaseGenerating {
		t.Error("expected to stay in generating phase")
	}
	if qs.errMsg == "" {
		t.Error("expected error message")
	}

	// R retries.
	_, cmd := qs.Update(keyPress('r'))
	if cmd == nil {
		t.Error("expected retry command")
	}
}

func TestQuizScreen_PerfectScore_Mastery(t *testing.T) {
	s, repo := testQuizScreen(t)
	s.Update(quizReadyMsg{Questions: sampleQuestions()})

	scr := answerAll(t, s, '1')
	qs := scr.(*QuizScreen)

	if qs.phase != phaseResults {
		t.Fatalf("phase = %d, want results", qs.phase)
	}
	result := qs.sess.LastResult
	if result == nil || !result.Mastery {
		t.Fatal("expected mastery result")
	}
	if result.Score != qz.QuestionCount {
		t.Errorf("score = %d, want %d", result.Score, qz.QuestionCount)
	}

	if len(repo.quizEvents) != 1 {
		t.Fatalf("quiz events = %d, want 1", len(repo.quizEvents))
	}
	if !repo.quizEvents[0].Mastery || repo.quizEvents[0].Attempt != 1 {
		t.Errorf("quiz event = %+v, want mastery on attempt 1", repo.quizEvents[0])
	}

	// Mastery closes the session.
	if len(repo.sessionEvents) != 1 || repo.sessionEvents[0].Action != "end" {
		t.Errorf("session events = %+v, want one end event", repo.sessionEvents)
	}
}

func TestQuizScreen_EmptyQuiz_ScoresZeroWithoutTaking(t *testing.T) {
	s, repo := testQuizScreen(t)

	scr, _ := s.Update(quizReadyMsg{Questions: []qz.Question{}})
	qs := scr.(*QuizScreen)

	if qs.phase != phaseResults {
		t.Fatalf("phase = %d, want results", qs.phase)
	}
	result := qs.sess.LastResult
	if result == nil {
		t.Fatal("expected a scored result")
	}
	if result.Percentage != 0 || result.Mastery {
		t.Errorf("result = %+v, want 0%% no mastery", result)
	}
	if qs.sess.QuizAttempt != 2 {
		t.Errorf("attempt = %d, want 2 after the degraded attempt", qs.sess.QuizAttempt)
	}
	if len(repo.quizEvents) != 1 || repo.quizEvents[0].Score != 0 {
		t.Errorf("quiz events = %+v, want one 0-score attempt", repo.quizEvents)
	}
	if qs.View(80, 24) == "" {
		t.Error("expected non-empty results view")
	}
}

func TestQuizScreen_FailedAttempt_SeedsRetry(t *testing.T) {
	s, repo := testQuizScreen(t)
	s.Update(quizReadyMsg{Questions: sampleQuestions()})

	// Every answer wrong (correct is always option 1).
	scr := answerAll(t, s, '2')
	qs := scr.(*QuizScreen)

	result := qs.sess.LastResult
	if result == nil || result.Mastery {
		t.Fatal("expected failed result")
	}
	if qs.sess.QuizAttempt != 2 {
		t.Errorf("attempt = %d, want 2", qs.sess.QuizAttempt)
	}
	if len(qs.sess.WeakAreas) != qz.MaxWeakAreas {
		t.Errorf("weak areas = %d, want %d", len(qs.sess.WeakAreas), qz.MaxWeakAreas)
	}
	if qs.sess.WeakAreas[0] != "Q1" {
		t.Errorf("weak areas start with %q, want Q1", qs.sess.WeakAreas[0])
	}
	if len(repo.sessionEvents) != 0 {
		t.Errorf("session events = %+v, want none on failure", repo.sessionEvents)
	}

	// Retry regenerates under the new attempt number.
	scr, cmd := qs.Update(resultsChoiceMsg{Choice: "retry"})
	qs = scr.(*QuizScreen)
	if qs.phase != phaseGenerating {
		t.Error("expected generating phase after retry")
	}
	if qs.attempt != 2 {
		t.Errorf("screen attempt = %d, want 2", qs.attempt)
	}
	if cmd == nil {
		t.Error("expected generation command")
	}
}

func TestQuizScreen_StudyAgain_ReturnsToLearning(t *testing.T) {
	s, _ := testQuizScreen(t)
	s.Update(quizReadyMsg{Questions: sampleQuestions()})
	scr := answerAll(t, s, '2')
	qs := scr.(*QuizScreen)

	_, cmd := qs.Update(resultsChoiceMsg{Choice: "study"})
	if cmd == nil {
		t.Error("expected pop command")
	}
	if qs.sess.CurrentStep != learning.StepLearning {
		t.Errorf("step = %s, want learning", qs.sess.CurrentStep)
	}
}

func TestQuizScreen_RelatedTopics_FillMenu(t *testing.T) {
	s, _ := testQuizScreen(t)
	s.Update(quizReadyMsg{Questions: sampleQuestions()})
	scr := answerAll(t, s, '1')
	qs := scr.(*QuizScreen)

	if !qs.relatedPending {
		t.Fatal("expected related topics request after first mastery")
	}

	scr, _ = qs.Update(relatedMsg{Topics: []string{"DNSSEC", "DHCP"}})
	qs = scr.(*QuizScreen)

	if len(qs.sess.RelatedTopics) != 2 {
		t.Fatalf("related topics = %d, want 2", len(qs.sess.RelatedTopics))
	}
	// Two suggestions plus "Learn something else" and "Back to home".
	if len(qs.menu.Items) != 4 {
		t.Errorf("menu items = %d, want 4", len(qs.menu.Items))
	}
}

func TestQuizScreen_PickRelated_StartsNewSession(t *testing.T) {
	s, repo := testQuizScreen(t)
	s.Update(quizReadyMsg{Questions: sampleQuestions()})
	scr := answerAll(t, s, '1')
	qs := scr.(*QuizScreen)
	qs.Update(relatedMsg{Topics: []string{"DNSSEC"}})

	oldID := qs.sess.SessionID
	_, cmd := qs.Update(resultsChoiceMsg{Choice: "related", Topic: "DNSSEC"})
	if cmd == nil {
		t.Fatal("expected navigation command")
	}
	if qs.sess.SessionID == oldID {
		t.Error("expected a fresh session ID")
	}
	if qs.sess.Topic != "DNSSEC" {
		t.Errorf("topic = %q, want DNSSEC", qs.sess.Topic)
	}

	last := repo.sessionEvents[len(repo.sessionEvents)-1]
	if last.Action != "start" || last.Topic != "DNSSEC" {
		t.Errorf("last session event = %+v, want start for DNSSEC", last)
	}
}

func TestQuizScreen_Feedback_ShownInResults(t *testing.T) {
	s, _ := testQuizScreen(t)
	s.Update(quizReadyMsg{Questions: sampleQuestions()})
	scr := answerAll(t, s, '1')
	qs := scr.(*QuizScreen)

	scr, _ = qs.Update(feedbackMsg{Feedback: "Nicely done."})
	qs = scr.(*QuizScreen)

	if qs.feedbackPending {
		t.Error("expected feedback no longer pending")
	}
	if qs.feedback != "Nicely done." {
		t.Errorf("feedback = %q", qs.feedback)
	}
	if qs.View(80, 24) == "" {
		t.Error("expected non-empty results view")
	}
}

func TestQuizScreen_ReviewToggle(t *testing.T) {
	s, _ := testQuizScreen(t)
	s.Update(quizReadyMsg{Questions: sampleQuestions()})
	scr := answerAll(t, s, '2')
	qs := scr.(*QuizScreen)

	scr, _ = qs.Update(keyPress('r'))
	qs = scr.(*QuizScreen)
	if !qs.reviewOpen {
		t.Error("expected review open")
	}
	if qs.View(80, 40) == "" {
		t.Error("expected non-empty review view")
	}

	scr, _ = qs.Update(keyPress('r'))
	qs = scr.(*QuizScreen)
	if qs.reviewOpen {
		t.Error("expected review closed")
	}
}
