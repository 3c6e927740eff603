package quiz

import "testing"

const validQuizJSON = `[
  {"question": "What is a binary search?", "options": ["A sorting algorithm", "A divide-and-conquer lookup", "A hash function", "A tree rotation"], "correct": 1, "explanation": "It halves the search space each step."},
  {"question": "What is the time complexity?", "options": ["O(n)", "O(n log n)", "O(log n)", "O(1)"], "correct": 2, "explanation": "Each comparison halves the candidates."}
]`

func TestParse_PlainJSON(t *testing.T) {
	qs, err := Parse([]byte(validQuizJSON))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(qs) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(qs))
	}
	if qs[0].Correct != 1 {
		t.Fatalf("expected correct index 1, got %d", qs[0].Correct)
	}
}

func TestParse_FencedJSON(t *testing.T) {
	fenced := "```json\n" + validQuizJSON + "\n```"
	qs, err := Parse([]byte(fenced))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(qs) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(qs))
	}
}

func TestParse_FencedWithoutLanguageTag(t *testing.T) {
	fenced := "```\n" + validQuizJSON + "\n```"
	if _, err := Parse([]byte(fenced)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestParse_RejectsOutOfRangeCorrect(t *testing.T) {
	bad := `[{"question": "Q", "options": ["a", "b", "c", "d"], "correct": 4, "explanation": "e"}]`
	if _, err := Parse([]byte(bad)); err == nil {
		t.Fatal("expected error for out-of-range correct index")
	}

	negative := `[{"question": "Q", "options": ["a", "b", "c", "d"], "correct": -1, "explanation": "e"}]`
	if _, err := Parse([]byte(negative)); err == nil {
		t.Fatal("expected error for negative correct index")
	}
}

func TestParse_RejectsWrongOptionCount(t *testing.T) {
	bad := `[{"question": "Q", "options": ["a", "b", "c"], "correct": 0, "explanation": "e"}]`
	if _, err := Parse([]byte(bad)); err == nil {
		t.Fatal("expected error for 3 options")
	}
}

func TestParse_RejectsNonJSON(t *testing.T) {
	if _, err := Parse([]byte("Sure! Here are your questions:")); err == nil {
		t.Fatal("expected error for conversational response")
	}
	if _, err := Parse(nil); err == nil {
		t.Fatal("expected error for empty response")
	}
}

func TestStripFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no fence", `[1]`, `[1]`},
		{"fence with tag", "```json\n[1]\n```", `[1]`},
		{"fence without tag", "```\n[1]\n```", `[1]`},
		{"unterminated fence", "```json\n[1]", `[1]`},
		{"surrounding whitespace", "  \n```json\n[1]\n```\n ", `[1]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripFences(tt.in); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
