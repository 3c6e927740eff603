package learning

import (
	"errors"
	"reflect"
	"testing"

	"github.com/tutora-app/tutora/internal/quiz"
	"github.com/tutora-app/tutora/internal/videos"
)

func sampleVideos(n int) []videos.Video {
	vs := make([]videos.Video, n)
	for i := range vs {
		vs[i] = videos.Video{Title: "Video", Link: "https://example.com", Channel: "Ch"}
	}
	return vs
}

func sampleQuiz() []quiz.Question {
	qs := make([]quiz.Question, 5)
	for i := range qs {
		qs[i] = quiz.Question{
			Text:        "Q" + string(rune('1'+i)),
			Options:     []string{"a", "b", "c", "d"},
			Correct:     0,
			Explanation: "e",
		}
	}
	return qs
}

// drive applies an event and fails the test on error.
func drive(t *testing.T, s *SessionData, ev Event) []Effect {
	t.Helper()
	effects, err := Apply(s, ev)
	if err != nil {
		t.Fatalf("Apply(%T): %v", ev, err)
	}
	return effects
}

// advanceToLearning walks a fresh session to the learning step.
func advanceToLearning(t *testing.T, s *SessionData) {
	t.Helper()
	drive(t, s, SubmitTopic{Input: "binary search"})
	drive(t, s, TopicRefined{Topic: "Binary Search"})
	drive(t, s, ContentReady{Videos: sampleVideos(3), Documentation: "# Binary Search"})
}

// advanceToEvaluate continues from learning through a scored quiz.
func advanceToEvaluate(t *testing.T, s *SessionData, answers map[int]int) quiz.Result {
	t.Helper()
	drive(t, s, StartQuiz{})
	drive(t, s, QuizReady{Questions: sampleQuiz()})
	drive(t, s, SubmitAnswers{Answers: answers})
	result := quiz.Evaluate(s.Quiz, s.UserAnswers)
	drive(t, s, Scored{Result: result})
	return result
}

func allCorrect(qs []quiz.Question) map[int]int {
	answers := make(map[int]int)
	for i, q := range qs {
		answers[i] = q.Correct
	}
	return answers
}

func TestApply_EmptyTopicRejected(t *testing.T) {
	s := NewSession()
	_, err := Apply(s, SubmitTopic{Input: ""})
	if !errors.Is(err, ErrEmptyTopic) {
		t.Fatalf("expected ErrEmptyTopic, got %v", err)
	}
	if s.CurrentStep != StepTopicInput {
		t.Fatalf("step must not advance on invalid input, got %s", s.CurrentStep)
	}
}

func TestApply_TopicSubmissionTriggersRefinement(t *testing.T) {
	s := NewSession()
	effects := drive(t, s, SubmitTopic{Input: "teach me binary search pls"})

	if s.CurrentStep != StepFetchContent {
		t.Fatalf("expected fetch_content, got %s", s.CurrentStep)
	}
	if !reflect.DeepEqual(effects, []Effect{EffectRefineTopic}) {
		t.Fatalf("expected refine effect, got %v", effects)
	}
}

func TestApply_FetchEffectsOnlyForMissingContent(t *testing.T) {
	s := NewSession()
	drive(t, s, SubmitTopic{Input: "graphs"})

	effects := drive(t, s, TopicRefined{Topic: "Graph Theory"})
	want := []Effect{EffectFetchVideos, EffectGenerateDocs}
	if !reflect.DeepEqual(effects, want) {
		t.Fatalf("expected %v, got %v", want, effects)
	}
	if s.Topic != "Graph Theory" {
		t.Fatalf("expected refined topic, got %q", s.Topic)
	}
}

func TestApply_FetchContentIdempotent(t *testing.T) {
	s := NewSession()
	advanceToLearning(t, s)
	vids := s.Videos

	// Study again after a failed quiz, then take another quiz and fail
	// again; going back through fetch must not emit fetch effects.
	s.CurrentStep = StepFetchContent
	effects := drive(t, s, TopicRefined{})
	if len(effects) != 0 {
		t.Fatalf("expected no effects on re-entry with content, got %v", effects)
	}

	drive(t, s, ContentReady{Videos: sampleVideos(9), Documentation: "other docs"})
	if !reflect.DeepEqual(s.Videos, vids) {
		t.Fatal("existing videos must not be replaced")
	}
	if s.Documentation != "# Binary Search" {
		t.Fatalf("existing documentation must not be replaced, got %q", s.Documentation)
	}
}

func TestApply_StartQuizResetsAnswers(t *testing.T) {
	s := NewSession()
	advanceToLearning(t, s)

	effects := drive(t, s, StartQuiz{})
	if !reflect.DeepEqual(effects, []Effect{EffectGenerateQuiz}) {
		t.Fatalf("expected generate-quiz effect, got %v", effects)
	}

	drive(t, s, QuizReady{Questions: sampleQuiz()})
	if s.CurrentStep != StepTakeQuiz {
		t.Fatalf("expected take_quiz, got %s", s.CurrentStep)
	}
	if len(s.UserAnswers) != 0 {
		t.Fatalf("answers must reset with a new quiz, got %v", s.UserAnswers)
	}
}

func TestApply_IncompleteAnswersRejected(t *testing.T) {
	s := NewSession()
	advanceToLearning(t, s)
	drive(t, s, StartQuiz{})
	drive(t, s, QuizReady{Questions: sampleQuiz()})

	_, err := Apply(s, SubmitAnswers{Answers: map[int]int{0: 1}})
	if !errors.Is(err, ErrIncompleteAnswers) {
		t.Fatalf("expected ErrIncompleteAnswers, got %v", err)
	}
	if s.CurrentStep != StepTakeQuiz {
		t.Fatalf("step must stay at take_quiz, got %s", s.CurrentStep)
	}
	if len(s.UserAnswers) != 0 {
		t.Fatalf("rejected submission must not be merged, got %v", s.UserAnswers)
	}
}

func TestApply_MasteryScenario(t *testing.T) {
	// Scenario: 5-question quiz, 4/5 correct.
	s := NewSession()
	advanceToLearning(t, s)
	drive(t, s, StartQuiz{})
	drive(t, s, QuizReady{Questions: sampleQuiz()})

	answers := allCorrect(s.Quiz)
	answers[4] = 3
	drive(t, s, SubmitAnswers{Answers: answers})

	result := quiz.Evaluate(s.Quiz, s.UserAnswers)
	if result.Score != 4 || result.Percentage != 80 || !result.Mastery {
		t.Fatalf("expected 4/5 80%% mastery, got %+v", result)
	}

	effects := drive(t, s, Scored{Result: result})
	if !reflect.DeepEqual(effects, []Effect{EffectSuggestRelated}) {
		t.Fatalf("expected related-topics effect on first mastery, got %v", effects)
	}
	if !s.MasteryAchieved {
		t.Fatal("expected mastery flag")
	}
	if s.QuizAttempt != 1 {
		t.Fatalf("attempt counter must not change on mastery, got %d", s.QuizAttempt)
	}

	drive(t, s, RelatedReady{Topics: []string{"Interpolation Search", "AVL Trees"}})
	if len(s.RelatedTopics) != 2 {
		t.Fatalf("expected related topics stored, got %v", s.RelatedTopics)
	}
}

func TestApply_FailureStoresWeakAreasAndIncrementsAttempt(t *testing.T) {
	// Scenario: 5-question quiz, 2/5 correct.
	s := NewSession()
	advanceToLearning(t, s)

	answers := map[int]int{0: 0, 1: 0, 2: 1, 3: 1, 4: 1}
	result := advanceToEvaluate(t, s, answers)

	if result.Mastery {
		t.Fatal("2/5 must not be mastery")
	}
	want := []string{"Q3", "Q4", "Q5"}
	if !reflect.DeepEqual(s.WeakAreas, want) {
		t.Fatalf("expected weak areas %v, got %v", want, s.WeakAreas)
	}
	if s.QuizAttempt != 2 {
		t.Fatalf("expected attempt 2 after one failure, got %d", s.QuizAttempt)
	}
}

func TestApply_WeakAreasTruncatedToThree(t *testing.T) {
	s := NewSession()
	advanceToLearning(t, s)

	// All five wrong.
	result := advanceToEvaluate(t, s, map[int]int{0: 1, 1: 1, 2: 1, 3: 1, 4: 1})
	if len(result.WeakAreas) != 5 {
		t.Fatalf("expected 5 missed questions, got %d", len(result.WeakAreas))
	}
	if !reflect.DeepEqual(s.WeakAreas, []string{"Q1", "Q2", "Q3"}) {
		t.Fatalf("expected first 3 in quiz order, got %v", s.WeakAreas)
	}
}

func TestApply_AttemptCounterIncrementsOncePerFailure(t *testing.T) {
	s := NewSession()
	advanceToLearning(t, s)

	wrong := map[int]int{0: 1, 1: 1, 2: 1, 3: 1, 4: 1}
	advanceToEvaluate(t, s, wrong)
	if s.QuizAttempt != 2 {
		t.Fatalf("expected attempt 2, got %d", s.QuizAttempt)
	}

	drive(t, s, RetryQuiz{})
	drive(t, s, QuizReady{Questions: sampleQuiz()})
	drive(t, s, SubmitAnswers{Answers: wrong})
	drive(t, s, Scored{Result: quiz.Evaluate(s.Quiz, s.UserAnswers)})
	if s.QuizAttempt != 3 {
		t.Fatalf("expected attempt 3 after second failure, got %d", s.QuizAttempt)
	}
}

func TestApply_RelatedTopicsPopulatedOnce(t *testing.T) {
	s := NewSession()
	advanceToLearning(t, s)
	advanceToEvaluate(t, s, allCorrect(sampleQuiz()))
	drive(t, s, RelatedReady{Topics: []string{"A", "B"}})

	// Mastery reached again: no second suggestion call.
	drive(t, s, RetryQuiz{})
	drive(t, s, QuizReady{Questions: sampleQuiz()})
	drive(t, s, SubmitAnswers{Answers: allCorrect(s.Quiz)})
	effects := drive(t, s, Scored{Result: quiz.Evaluate(s.Quiz, s.UserAnswers)})
	if len(effects) != 0 {
		t.Fatalf("expected no effects on repeat mastery, got %v", effects)
	}

	drive(t, s, RelatedReady{Topics: []string{"C", "D"}})
	if !reflect.DeepEqual(s.RelatedTopics, []string{"A", "B"}) {
		t.Fatalf("related topics must not be overwritten, got %v", s.RelatedTopics)
	}
}

func TestApply_RelatedTopicsCappedAtFive(t *testing.T) {
	s := NewSession()
	advanceToLearning(t, s)
	advanceToEvaluate(t, s, allCorrect(sampleQuiz()))

	drive(t, s, RelatedReady{Topics: []string{"1", "2", "3", "4", "5", "6", "7"}})
	if len(s.RelatedTopics) != MaxRelatedTopics {
		t.Fatalf("expected %d topics, got %d", MaxRelatedTopics, len(s.RelatedTopics))
	}
}

func TestApply_EmptyQuizEvaluatesWithoutPanic(t *testing.T) {
	// Scenario: quiz generation degraded to an empty list.
	s := NewSession()
	advanceToLearning(t, s)
	drive(t, s, StartQuiz{})
	drive(t, s, QuizReady{Questions: nil})

	drive(t, s, SubmitAnswers{Answers: nil})
	result := quiz.Evaluate(s.Quiz, s.UserAnswers)
	drive(t, s, Scored{Result: result})

	if result.Percentage != 0 || result.Mastery {
		t.Fatalf("empty quiz must score 0%% no mastery, got %+v", result)
	}
	if s.QuizAttempt != 2 {
		t.Fatalf("failed empty-quiz attempt still counts, got attempt %d", s.QuizAttempt)
	}
}

func TestApply_StudyAgainReturnsToLearning(t *testing.T) {
	s := NewSession()
	advanceToLearning(t, s)
	advanceToEvaluate(t, s, map[int]int{0: 1, 1: 1, 2: 1, 3: 1, 4: 1})

	drive(t, s, StudyAgain{})
	if s.CurrentStep != StepLearning {
		t.Fatalf("expected learning, got %s", s.CurrentStep)
	}
	if s.Documentation == "" || len(s.Videos) == 0 {
		t.Fatal("study-again must keep existing content")
	}
}

func TestApply_PickRelatedResetsAndSkipsRefinement(t *testing.T) {
	s := NewSession()
	advanceToLearning(t, s)
	advanceToEvaluate(t, s, allCorrect(sampleQuiz()))
	drive(t, s, RelatedReady{Topics: []string{"Hash Tables"}})
	oldID := s.SessionID

	effects := drive(t, s, PickRelated{Topic: "Hash Tables"})

	if s.CurrentStep != StepFetchContent {
		t.Fatalf("expected fetch_content, got %s", s.CurrentStep)
	}
	if s.Topic != "Hash Tables" {
		t.Fatalf("expected topic carried over, got %q", s.Topic)
	}
	want := []Effect{EffectFetchVideos, EffectGenerateDocs}
	if !reflect.DeepEqual(effects, want) {
		t.Fatalf("expected fresh fetch effects, got %v", effects)
	}
	if s.SessionID == oldID {
		t.Fatal("expected a fresh session ID")
	}
	if s.Documentation != "" || len(s.Quiz) != 0 || s.QuizAttempt != 1 {
		t.Fatal("expected session cleared apart from topic")
	}
}

func TestApply_AnotherTopicFullReset(t *testing.T) {
	s := NewSession()
	advanceToLearning(t, s)
	advanceToEvaluate(t, s, allCorrect(sampleQuiz()))

	drive(t, s, AnotherTopic{})
	if s.CurrentStep != StepTopicInput {
		t.Fatalf("expected topic_input, got %s", s.CurrentStep)
	}
	if s.Topic != "" || s.QuizAttempt != 1 || s.MasteryAchieved {
		t.Fatal("expected full reset")
	}
}

func TestApply_ChatAppendsHistory(t *testing.T) {
	s := NewSession()
	advanceToLearning(t, s)

	effects := drive(t, s, AskQuestion{Question: "Why log n?"})
	if !reflect.DeepEqual(effects, []Effect{EffectAnswerQuestion}) {
		t.Fatalf("expected answer effect, got %v", effects)
	}

	drive(t, s, AnswerReady{Answer: "Each step halves the space."})
	drive(t, s, AskQuestion{Question: "And worst case?"})
	drive(t, s, AnswerReady{Answer: "Still log n."})

	if len(s.ChatHistory) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(s.ChatHistory))
	}
	if s.ChatHistory[0].Question != "Why log n?" {
		t.Fatalf("history out of order: %+v", s.ChatHistory)
	}
}

func TestApply_EventInvalidForStep(t *testing.T) {
	s := NewSession()
	if _, err := Apply(s, StartQuiz{}); err == nil {
		t.Fatal("expected error for quiz start before learning")
	}
	if _, err := Apply(s, SubmitAnswers{}); err == nil {
		t.Fatal("expected error for answer submission at topic input")
	}
}
