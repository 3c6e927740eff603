package quiz

import "fmt"

// QuestionCount is the number of questions in a generated quiz.
const QuestionCount = 5

// OptionCount is the number of answer options every question carries.
const OptionCount = 4

// Unanswered is the sentinel answer index for a question the learner
// never answered. It can never match a valid Correct index.
const Unanswered = -1

// Question is a single multiple-choice question.
type Question struct {
	// Text is the question prompt shown to the learner.
	Text string `json:"question"`

	// Options holds exactly 4 answer choices in display order.
	Options []string `json:"options"`

	// Correct is the index into Options of the right answer (0-3).
	Correct int `json:"correct"`

	// Explanation is shown during answer review after evaluation.
	Explanation string `json:"explanation"`
}

// Validate checks the structural invariants of a question: exactly 4
// non-empty options and a correct index inside them. Model output that
// fails these checks is rejected at the boundary rather than graded
// against silently.
func (q Question) Validate() error {
	if q.Text == "" {
		return fmt.Errorf("empty question text")
	}
	if len(q.Options) != OptionCount {
		return fmt.Errorf("expected %d options, got %d", OptionCount, len(q.Options))
	}
	for i, opt := range q.Options {
		if opt == "" {
			return fmt.Errorf("option %d is empty", i)
		}
	}
	if q.Correct < 0 || q.Correct >= len(q.Options) {
		return fmt.Errorf("correct index %d out of range [0,%d)", q.Correct, len(q.Options))
	}
	return nil
}
