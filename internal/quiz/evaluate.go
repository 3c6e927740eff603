package quiz

// MasteryThreshold is the minimum percentage for a quiz attempt to
// count as mastery.
const MasteryThreshold = 80.0

// MaxWeakAreas caps how many missed questions feed back into the next
// quiz generation pass. Flat truncation in quiz order, no ranking.
const MaxWeakAreas = 3

// Result is the outcome of scoring one quiz attempt. It is transient:
// computed from (quiz, answers) and never persisted as-is.
type Result struct {
	// Score is the count of correctly answered questions.
	Score int

	// Total is the quiz length.
	Total int

	// Percentage is Score/Total*100, or 0 for an empty quiz.
	Percentage float64

	// Mastery is true when Percentage reaches MasteryThreshold.
	Mastery bool

	// WeakAreas lists the question texts answered incorrectly (or not
	// at all), in quiz order.
	WeakAreas []string

	// Feedback is coach prose filled in after scoring; presentation
	// only, never consulted for control flow.
	Feedback string
}

// Evaluate scores a quiz attempt. answers maps question index to the
// selected option index; missing entries count as Unanswered and are
// always wrong. An empty quiz yields 0% and no mastery rather than a
// division by zero.
func Evaluate(questions []Question, answers map[int]int) Result {
	r := Result{Total: len(questions)}

	for i, q := range questions {
		selected, ok := answers[i]
		if !ok {
			selected = Unanswered
		}
		if selected == q.Correct {
			r.Score++
		} else {
			r.WeakAreas = append(r.WeakAreas, q.Text)
		}
	}

	if r.Total > 0 {
		r.Percentage = float64(r.Score) / float64(r.Total) * 100
	}
	r.Mastery = r.Percentage >= MasteryThreshold

	return r
}

// TruncateWeakAreas limits a weak-area list to MaxWeakAreas entries,
// preserving quiz order.
func TruncateWeakAreas(areas []string) []string {
	if len(areas) <= MaxWeakAreas {
		return areas
	}
	return areas[:MaxWeakAreas]
}
