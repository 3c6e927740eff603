package learning

import (
	"errors"
	"fmt"

	"github.com/tutora-app/tutora/internal/quiz"
	"github.com/tutora-app/tutora/internal/videos"
)

// ErrEmptyTopic is returned when the learner submits a blank topic.
var ErrEmptyTopic = errors.New("topic must not be empty")

// ErrIncompleteAnswers is returned when a quiz is submitted with
// unanswered questions.
var ErrIncompleteAnswers = errors.New("all questions must be answered")

// Effect names a side effect the presentation layer must run after a
// transition. Effects carry no payload; handlers read what they need
// from the session.
type Effect int

const (
	// EffectRefineTopic asks the topic agent to clean up raw input.
	EffectRefineTopic Effect = iota

	// EffectFetchVideos searches for videos on the current topic.
	EffectFetchVideos

	// EffectGenerateDocs generates study documentation.
	EffectGenerateDocs

	// EffectGenerateQuiz generates a quiz, seeded by WeakAreas when set.
	EffectGenerateQuiz

	// EffectEvaluate scores the submitted answers.
	EffectEvaluate

	// EffectAnswerQuestion answers the pending chat question.
	EffectAnswerQuestion

	// EffectSuggestRelated fetches follow-on topic suggestions.
	EffectSuggestRelated
)

// Event is a learner action or a completed side effect fed back into
// the machine. Each concrete event carries exactly the data its
// transition needs.
type Event interface{ isEvent() }

// SubmitTopic is the learner submitting raw topic text.
type SubmitTopic struct{ Input string }

// TopicRefined delivers the refined topic string.
type TopicRefined struct{ Topic string }

// ContentReady delivers fetched videos and generated documentation.
// Either part may be empty when the corresponding fetch failed or was
// skipped because the session already had it.
type ContentReady struct {
	Videos        []videos.Video
	Documentation string
}

// NextVideo and PrevVideo move the video cursor.
type NextVideo struct{}
type PrevVideo struct{}

// AskQuestion is a chat question from the learner.
type AskQuestion struct{ Question string }

// AnswerReady delivers the chat answer for the pending question.
type AnswerReady struct{ Answer string }

// StartQuiz is the learner requesting a quiz.
type StartQuiz struct{}

// QuizReady delivers a generated quiz. An empty slice is a legitimate
// degraded result, not an error.
type QuizReady struct{ Questions []quiz.Question }

// SubmitAnswers is the learner submitting all answers.
type SubmitAnswers struct{ Answers map[int]int }

// Scored delivers the evaluation result.
type Scored struct{ Result quiz.Result }

// RelatedReady delivers follow-on topic suggestions.
type RelatedReady struct{ Topics []string }

// RetryQuiz re-enters quiz generation after a failed attempt.
type RetryQuiz struct{}

// StudyAgain returns to the learning phase after a failed attempt.
type StudyAgain struct{}

// PickRelated starts a new run on a suggested topic, skipping refinement.
type PickRelated struct{ Topic string }

// AnotherTopic resets the whole session back to topic input.
type AnotherTopic struct{}

func (SubmitTopic) isEvent()   {}
func (TopicRefined) isEvent()  {}
func (ContentReady) isEvent()  {}
func (NextVideo) isEvent()     {}
func (PrevVideo) isEvent()     {}
func (AskQuestion) isEvent()   {}
func (AnswerReady) isEvent()   {}
func (StartQuiz) isEvent()     {}
func (QuizReady) isEvent()     {}
func (SubmitAnswers) isEvent() {}
func (Scored) isEvent()        {}
func (RelatedReady) isEvent()  {}
func (RetryQuiz) isEvent()     {}
func (StudyAgain) isEvent()    {}
func (PickRelated) isEvent()   {}
func (AnotherTopic) isEvent()  {}

// Apply advances the session by one event. It mutates s (the machine is
// the sole writer) and returns the side effects the caller must run.
// Events that are not valid in the current step return an error and
// leave the session untouched.
func Apply(s *SessionData, ev Event) ([]Effect, error) {
	switch ev := ev.(type) {
	case SubmitTopic:
		if err := requireStep(s, StepTopicInput); err != nil {
			return nil, err
		}
		if ev.Input == "" {
			return nil, ErrEmptyTopic
		}
		s.Topic = ev.Input
		s.CurrentStep = StepFetchContent
		return []Effect{EffectRefineTopic}, nil

	case TopicRefined:
		if err := requireStep(s, StepFetchContent); err != nil {
			return nil, err
		}
		if ev.Topic != "" {
			s.Topic = ev.Topic
		}
		return fetchEffects(s), nil

	case ContentReady:
		if err := requireStep(s, StepFetchContent); err != nil {
			return nil, err
		}
		// Re-entry guard: never overwrite content that is already there.
		if len(s.Videos) == 0 && len(ev.Videos) > 0 {
			s.Videos = ev.Videos
			s.CurrentVideoIndex = 0
		}
		if s.Documentation == "" {
			s.Documentation = ev.Documentation
		}
		s.CurrentStep = StepLearning
		return nil, nil

	case NextVideo:
		if err := requireStep(s, StepLearning); err != nil {
			return nil, err
		}
		s.NextVideo()
		return nil, nil

	case PrevVideo:
		if err := requireStep(s, StepLearning); err != nil {
			return nil, err
		}
		s.PrevVideo()
		return nil, nil

	case AskQuestion:
		if err := requireStep(s, StepLearning); err != nil {
			return nil, err
		}
		if ev.Question == "" {
			return nil, nil
		}
		s.PendingQuestion = ev.Question
		return []Effect{EffectAnswerQuestion}, nil

	case AnswerReady:
		if err := requireStep(s, StepLearning); err != nil {
			return nil, err
		}
		if s.PendingQuestion == "" {
			return nil, nil
		}
		s.ChatHistory = append(s.ChatHistory, ChatTurn{
			Question: s.PendingQuestion,
			Answer:   ev.Answer,
		})
		s.PendingQuestion = ""
		return nil, nil

	case StartQuiz:
		if err := requireStep(s, StepLearning); err != nil {
			return nil, err
		}
		s.CurrentStep = StepGenerateQuiz
		return []Effect{EffectGenerateQuiz}, nil

	case QuizReady:
		if err := requireStep(s, StepGenerateQuiz); err != nil {
			return nil, err
		}
		s.Quiz = ev.Questions
		s.UserAnswers = make(map[int]int)
		s.CurrentStep = StepTakeQuiz
		return nil, nil

	case SubmitAnswers:
		if err := requireStep(s, StepTakeQuiz); err != nil {
			return nil, err
		}
		// Validate before merging so a rejected submission leaves the
		// session untouched.
		for i := range s.Quiz {
			if _, ok := ev.Answers[i]; !ok {
				return nil, ErrIncompleteAnswers
			}
		}
		for i, a := range ev.Answers {
			s.UserAnswers[i] = a
		}
		s.CurrentStep = StepEvaluate
		return []Effect{EffectEvaluate}, nil

	case Scored:
		if err := requireStep(s, StepEvaluate); err != nil {
			return nil, err
		}
		result := ev.Result
		s.LastResult = &result
		if result.Mastery {
			s.MasteryAchieved = true
			// Related topics are generated at most once per session.
			if len(s.RelatedTopics) == 0 {
				return []Effect{EffectSuggestRelated}, nil
			}
			return nil, nil
		}
		s.WeakAreas = quiz.TruncateWeakAreas(result.WeakAreas)
		s.QuizAttempt++
		return nil, nil

	case RelatedReady:
		if err := requireStep(s, StepEvaluate); err != nil {
			return nil, err
		}
		if len(s.RelatedTopics) == 0 {
			topics := ev.Topics
			if len(topics) > MaxRelatedTopics {
				topics = topics[:MaxRelatedTopics]
			}
			s.RelatedTopics = topics
		}
		return nil, nil

	case RetryQuiz:
		if err := requireStep(s, StepEvaluate); err != nil {
			return nil, err
		}
		s.CurrentStep = StepGenerateQuiz
		return []Effect{EffectGenerateQuiz}, nil

	case StudyAgain:
		if err := requireStep(s, StepEvaluate); err != nil {
			return nil, err
		}
		s.CurrentStep = StepLearning
		return nil, nil

	case PickRelated:
		if err := requireStep(s, StepEvaluate); err != nil {
			return nil, err
		}
		topic := ev.Topic
		s.Reset()
		s.Topic = topic
		s.CurrentStep = StepFetchContent
		return fetchEffects(s), nil

	case AnotherTopic:
		if err := requireStep(s, StepEvaluate); err != nil {
			return nil, err
		}
		s.Reset()
		return nil, nil

	default:
		return nil, fmt.Errorf("unhandled event %T", ev)
	}
}

// fetchEffects emits fetch work only for content the session is
// missing, so re-entering fetch never repeats an external call.
func fetchEffects(s *SessionData) []Effect {
	var effects []Effect
	if len(s.Videos) == 0 {
		effects = append(effects, EffectFetchVideos)
	}
	if s.Documentation == "" {
		effects = append(effects, EffectGenerateDocs)
	}
	return effects
}

func requireStep(s *SessionData, want Step) error {
	if s.CurrentStep != want {
		return fmt.Errorf("event not valid in step %s (requires %s)", s.CurrentStep, want)
	}
	return nil
}
