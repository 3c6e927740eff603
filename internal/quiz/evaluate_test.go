package quiz

import (
	"fmt"
	"reflect"
	"testing"
)

func makeQuiz(n int) []Question {
	qs := make([]Question, n)
	for i := range qs {
		qs[i] = Question{
			Text:        fmt.Sprintf("Question %d", i+1),
			Options:     []string{"A", "B", "C", "D"},
			Correct:     i % OptionCount,
			Explanation: "because",
		}
	}
	return qs
}

func TestEvaluate_AllCorrect(t *testing.T) {
	qs := makeQuiz(5)
	answers := make(map[int]int)
	for i, q := range qs {
		answers[i] = q.Correct
	}

	r := Evaluate(qs, answers)

	if r.Score != 5 || r.Total != 5 {
		t.Fatalf("expected 5/5, got %d/%d", r.Score, r.Total)
	}
	if r.Percentage != 100 {
		t.Fatalf("expected 100%%, got %.1f", r.Percentage)
	}
	if !r.Mastery {
		t.Fatal("expected mastery")
	}
	if len(r.WeakAreas) != 0 {
		t.Fatalf("expected no weak areas, got %v", r.WeakAreas)
	}
}

func TestEvaluate_MasteryBoundary(t *testing.T) {
	// 4/5 is exactly 80% — mastery is inclusive.
	qs := makeQuiz(5)
	answers := make(map[int]int)
	for i, q := range qs {
		answers[i] = q.Correct
	}
	answers[4] = (qs[4].Correct + 1) % OptionCount

	r := Evaluate(qs, answers)

	if r.Score != 4 {
		t.Fatalf("expected score 4, got %d", r.Score)
	}
	if r.Percentage != 80 {
		t.Fatalf("expected 80%%, got %.1f", r.Percentage)
	}
	if !r.Mastery {
		t.Fatal("expected mastery at exactly 80%")
	}
	if !reflect.DeepEqual(r.WeakAreas, []string{"Question 5"}) {
		t.Fatalf("unexpected weak areas: %v", r.WeakAreas)
	}
}

func TestEvaluate_BelowThreshold(t *testing.T) {
	qs := makeQuiz(5)
	answers := map[int]int{
		0: qs[0].Correct,
		1: qs[1].Correct,
		2: (qs[2].Correct + 1) % OptionCount,
		3: (qs[3].Correct + 1) % OptionCount,
		4: (qs[4].Correct + 1) % OptionCount,
	}

	r := Evaluate(qs, answers)

	if r.Score != 2 || r.Mastery {
		t.Fatalf("expected 2/5 no mastery, got %d/%d mastery=%t", r.Score, r.Total, r.Mastery)
	}
	want := []string{"Question 3", "Question 4", "Question 5"}
	if !reflect.DeepEqual(r.WeakAreas, want) {
		t.Fatalf("expected weak areas %v in quiz order, got %v", want, r.WeakAreas)
	}
}

func TestEvaluate_UnansweredCountsWrong(t *testing.T) {
	qs := makeQuiz(3)
	// Only the first question is answered.
	r := Evaluate(qs, map[int]int{0: qs[0].Correct})

	if r.Score != 1 {
		t.Fatalf("expected score 1, got %d", r.Score)
	}
	if len(r.WeakAreas) != 2 {
		t.Fatalf("expected 2 weak areas, got %v", r.WeakAreas)
	}
}

func TestEvaluate_EmptyQuiz(t *testing.T) {
	r := Evaluate(nil, nil)

	if r.Total != 0 || r.Score != 0 {
		t.Fatalf("expected 0/0, got %d/%d", r.Score, r.Total)
	}
	if r.Percentage != 0 {
		t.Fatalf("expected 0%% for empty quiz, got %.1f", r.Percentage)
	}
	if r.Mastery {
		t.Fatal("empty quiz must not count as mastery")
	}
}

func TestEvaluate_PercentageArithmetic(t *testing.T) {
	for total := 1; total <= 10; total++ {
		for score := 0; score <= total; score++ {
			qs := makeQuiz(total)
			answers := make(map[int]int)
			for i := 0; i < score; i++ {
				answers[i] = qs[i].Correct
			}
			for i := score; i < total; i++ {
				answers[i] = (qs[i].Correct + 1) % OptionCount
			}

			r := Evaluate(qs, answers)
			want := float64(score) / float64(total) * 100
			if r.Percentage != want {
				t.Fatalf("score %d/%d: expected %.2f%%, got %.2f%%", score, total, want, r.Percentage)
			}
			if r.Mastery != (want >= MasteryThreshold) {
				t.Fatalf("score %d/%d: mastery mismatch", score, total)
			}
		}
	}
}

func TestTruncateWeakAreas(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"nil", nil, nil},
		{"under cap", []string{"a", "b"}, []string{"a", "b"}},
		{"at cap", []string{"a", "b", "c"}, []string{"a", "b", "c"}},
		{"over cap keeps quiz order", []string{"a", "b", "c", "d", "e"}, []string{"a", "b", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TruncateWeakAreas(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}
