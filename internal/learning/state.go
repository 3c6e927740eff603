package learning

import (
	"github.com/google/uuid"

	"github.com/tutora-app/tutora/internal/quiz"
	"github.com/tutora-app/tutora/internal/videos"
)

// Step is the learner's position in the tutoring workflow.
type Step int

const (
	StepTopicInput Step = iota
	StepFetchContent
	StepLearning
	StepGenerateQuiz
	StepTakeQuiz
	StepEvaluate
)

// String returns the step name for event logging and display.
func (s Step) String() string {
	switch s {
	case StepTopicInput:
		return "topic_input"
	case StepFetchContent:
		return "fetch_content"
	case StepLearning:
		return "learning"
	case StepGenerateQuiz:
		return "generate_quiz"
	case StepTakeQuiz:
		return "take_quiz"
	case StepEvaluate:
		return "evaluate"
	default:
		return "unknown"
	}
}

// MaxRelatedTopics caps the follow-on suggestions kept after mastery.
const MaxRelatedTopics = 5

// ChatTurn is one question/answer exchange in the learning-phase chat.
type ChatTurn struct {
	Question string
	Answer   string
}

// SessionData holds all learner progress for one session. It is owned
// exclusively by the state machine: only Apply mutates it, and it is
// never shared across sessions.
type SessionData struct {
	// SessionID groups persisted events for this session.
	SessionID string

	// CurrentStep is the active workflow step.
	CurrentStep Step

	// Topic is the refined learning topic.
	Topic string

	// Videos are the cached search results for Topic.
	Videos []videos.Video

	// CurrentVideoIndex addresses Videos; navigation wraps modulo length.
	CurrentVideoIndex int

	// Documentation is the generated study material (opaque markup).
	Documentation string

	// Quiz is the current question set.
	Quiz []quiz.Question

	// UserAnswers maps question index to selected option index. Keys
	// are always a subset of quiz indices.
	UserAnswers map[int]int

	// LastResult is the outcome of the most recent evaluation, nil
	// before the first quiz is scored.
	LastResult *quiz.Result

	// WeakAreas holds up to 3 question texts from the latest failed
	// attempt, seeding the next quiz generation.
	WeakAreas []string

	// QuizAttempt counts attempts, starting at 1. It increments on each
	// failed evaluation and resets only with the whole session.
	QuizAttempt int

	// MasteryAchieved is set once an attempt reaches the threshold.
	MasteryAchieved bool

	// ChatHistory is the append-only Q&A log for the learning phase.
	ChatHistory []ChatTurn

	// PendingQuestion is the chat question currently awaiting an answer.
	PendingQuestion string

	// RelatedTopics holds up to 5 follow-on suggestions, populated at
	// most once per session when mastery is first reached.
	RelatedTopics []string
}

// NewSession creates a fresh session at the topic-input step.
func NewSession() *SessionData {
	return &SessionData{
		SessionID:   uuid.New().String(),
		CurrentStep: StepTopicInput,
		UserAnswers: make(map[int]int),
		QuizAttempt: 1,
	}
}

// Reset clears the session back to defaults under a new session ID.
func (s *SessionData) Reset() {
	*s = *NewSession()
}

// CurrentVideo returns the video at the cursor, or false when the list
// is empty.
func (s *SessionData) CurrentVideo() (videos.Video, bool) {
	if len(s.Videos) == 0 {
		return videos.Video{}, false
	}
	return s.Videos[s.CurrentVideoIndex], true
}

// NextVideo advances the cursor, wrapping past the end.
func (s *SessionData) NextVideo() {
	if len(s.Videos) == 0 {
		return
	}
	s.CurrentVideoIndex = (s.CurrentVideoIndex + 1) % len(s.Videos)
}

// PrevVideo moves the cursor back, wrapping before the start.
func (s *SessionData) PrevVideo() {
	if len(s.Videos) == 0 {
		return
	}
	s.CurrentVideoIndex = (s.CurrentVideoIndex - 1 + len(s.Videos)) % len(s.Videos)
}

// AnsweredAll reports whether every quiz question has an answer.
func (s *SessionData) AnsweredAll() bool {
	for i := range s.Quiz {
		if _, ok := s.UserAnswers[i]; !ok {
			return false
		}
	}
	return true
}
