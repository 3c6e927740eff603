package agents

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/tutora-app/tutora/internal/learning"
	"github.com/tutora-app/tutora/internal/llm"
	"github.com/tutora-app/tutora/internal/quiz"
)

func validQuizJSON() json.RawMessage {
	questions := make([]string, 5)
	for i := range questions {
		questions[i] = fmt.Sprintf(`{
			"question": "Question %d?",
			"options": ["a", "b", "c", "d"],
			"correct": %d,
			"explanation": "Because."
		}`, i+1, i%4)
	}
	return json.RawMessage(`{"questions": [` + strings.Join(questions, ",") + `]}`)
}

func TestRefineTopic(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"topic": "Binary Search Trees"}`),
	})
	svc := NewService(mock, DefaultConfig())

	topic, err := svc.RefineTopic(t.Context(), "teach me bst pls")
	if err != nil {
		t.Fatal(err)
	}
	if topic != "Binary Search Trees" {
		t.Fatalf("expected refined topic, got %q", topic)
	}

	if mock.Calls[0].Schema != RefinedTopicSchema {
		t.Error("expected refined-topic schema on the request")
	}
	if !strings.Contains(mock.Calls[0].Messages[0].Content, "teach me bst pls") {
		t.Error("expected raw input in the prompt")
	}
}

func TestRefineTopic_EmptyResultFallsBackToInput(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"topic": "  "}`),
	})
	svc := NewService(mock, DefaultConfig())

	topic, err := svc.RefineTopic(t.Context(), " graph theory ")
	if err != nil {
		t.Fatal(err)
	}
	if topic != "graph theory" {
		t.Fatalf("expected trimmed input fallback, got %q", topic)
	}
}

func TestGenerateDocs_UnwrapsTextResponse(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`"# Binary Search\n\nHalve the range each step."`),
	})
	svc := NewService(mock, DefaultConfig())

	docs, err := svc.GenerateDocs(t.Context(), "Binary Search")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(docs, "# Binary Search") {
		t.Fatalf("expected unwrapped markdown, got %q", docs)
	}
	if mock.Calls[0].Schema != nil {
		t.Error("docs generation must not request structured output")
	}
}

func TestGenerateQuiz(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: validQuizJSON()})
	svc := NewService(mock, DefaultConfig())

	questions, err := svc.GenerateQuiz(t.Context(), QuizInput{
		Topic:         "Binary Search",
		Documentation: "# Binary Search",
		Attempt:       1,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(questions) != quiz.QuestionCount {
		t.Fatalf("expected %d questions, got %d", quiz.QuestionCount, len(questions))
	}
	if questions[0].Text != "Question 1?" {
		t.Fatalf("unexpected first question: %q", questions[0].Text)
	}
}

func TestGenerateQuiz_WeakAreasInPrompt(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: validQuizJSON()})
	svc := NewService(mock, DefaultConfig())

	_, err := svc.GenerateQuiz(t.Context(), QuizInput{
		Topic:         "Sorting",
		Documentation: "docs",
		WeakAreas:     []string{"What is the pivot in quicksort?"},
		Attempt:       2,
	})
	if err != nil {
		t.Fatal(err)
	}

	prompt := mock.Calls[0].Messages[0].Content
	if !strings.Contains(prompt, "What is the pivot in quicksort?") {
		t.Error("expected weak area in the prompt")
	}
	if !strings.Contains(prompt, "Attempt: 2") {
		t.Error("expected attempt number in the prompt")
	}
}

func TestGenerateQuiz_RejectsOutOfRangeCorrect(t *testing.T) {
	bad := json.RawMessage(`{"questions": [{
		"question": "Q?",
		"options": ["a", "b", "c", "d"],
		"correct": 4,
		"explanation": "e"
	}]}`)
	mock := llm.NewMockProvider(llm.MockResponse{Content: bad})
	svc := NewService(mock, DefaultConfig())

	_, err := svc.GenerateQuiz(t.Context(), QuizInput{Topic: "t", Documentation: "d", Attempt: 1})
	if err == nil {
		t.Fatal("expected validation error for correct index 4")
	}
}

func TestGenerateQuiz_BareArrayFallback(t *testing.T) {
	// Some providers ignore the wrapper object and return the array.
	raw := json.RawMessage("```json\n" + `[
		{"question": "Q1?", "options": ["a","b","c","d"], "correct": 0, "explanation": "e"},
		{"question": "Q2?", "options": ["a","b","c","d"], "correct": 1, "explanation": "e"}
	]` + "\n```")
	mock := llm.NewMockProvider(llm.MockResponse{Content: raw})
	svc := NewService(mock, DefaultConfig())

	questions, err := svc.GenerateQuiz(t.Context(), QuizInput{Topic: "t", Documentation: "d", Attempt: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(questions) != 2 {
		t.Fatalf("expected 2 questions from bare array, got %d", len(questions))
	}
}

func TestAnswer_ThreadsHistory(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`"Still O(log n) in the worst case."`),
	})
	svc := NewService(mock, DefaultConfig())

	answer, err := svc.Answer(t.Context(), AnswerInput{
		Topic:         "Binary Search",
		Documentation: "# Binary Search",
		Question:      "And the worst case?",
		History: []learning.ChatTurn{
			{Question: "Why log n?", Answer: "Each step halves the range."},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if answer != "Still O(log n) in the worst case." {
		t.Fatalf("unexpected answer: %q", answer)
	}

	msgs := mock.Calls[0].Messages
	// Context pair, one history pair, then the new question.
	if len(msgs) != 5 {
		t.Fatalf("expected 5 messages, got %d", len(msgs))
	}
	if msgs[2].Content != "Why log n?" || msgs[2].Role != llm.RoleUser {
		t.Errorf("expected history question at position 2, got %+v", msgs[2])
	}
	if msgs[4].Content != "And the worst case?" {
		t.Errorf("expected new question last, got %+v", msgs[4])
	}
}

func TestFeedback(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"feedback": "Solid work. Revisit pivot selection."}`),
	})
	svc := NewService(mock, DefaultConfig())

	fb, err := svc.Feedback(t.Context(), FeedbackInput{
		Topic:         "Quicksort",
		Documentation: "# Quicksort\n\nPick a pivot, partition, recurse.",
		Result: quiz.Result{
			Score: 3, Total: 5, Percentage: 60,
			WeakAreas: []string{"What is the pivot?"},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if fb != "Solid work. Revisit pivot selection." {
		t.Fatalf("unexpected feedback: %q", fb)
	}
	prompt := mock.Calls[0].Messages[0].Content
	if !strings.Contains(prompt, "3/5 (60%)") {
		t.Error("expected score in the prompt")
	}
	if !strings.Contains(prompt, "Pick a pivot, partition, recurse.") {
		t.Error("expected study material in the prompt")
	}
}

func TestRelatedTopics(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"topics": ["AVL Trees", "Red-Black Trees", "B-Trees"]}`),
	})
	svc := NewService(mock, DefaultConfig())

	topics, err := svc.RelatedTopics(t.Context(), RelatedInput{
		Topic:         "Binary Search Trees",
		Documentation: "# Binary Search Trees\n\nOrdered nodes, O(log n) lookups when balanced.",
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(topics) != 3 || topics[0] != "AVL Trees" {
		t.Fatalf("unexpected topics: %v", topics)
	}
	if !strings.Contains(mock.Calls[0].Messages[0].Content, "when balanced") {
		t.Error("expected study material in the prompt")
	}
}

func TestRelatedTopics_LineFallbackAndCap(t *testing.T) {
	raw := json.RawMessage(`"1. AVL Trees\n2. Red-Black Trees\n- B-Trees\n\nSkip Lists\nTries\nSplay Trees"`)
	mock := llm.NewMockProvider(llm.MockResponse{Content: raw})
	svc := NewService(mock, DefaultConfig())

	topics, err := svc.RelatedTopics(t.Context(), RelatedInput{Topic: "Binary Search Trees"})
	if err != nil {
		t.Fatal(err)
	}
	if len(topics) != learning.MaxRelatedTopics {
		t.Fatalf("expected cap at %d, got %v", learning.MaxRelatedTopics, topics)
	}
	if topics[0] != "AVL Trees" || topics[2] != "B-Trees" {
		t.Fatalf("expected list markers stripped, got %v", topics)
	}
}

func TestServiceErrorsPropagate(t *testing.T) {
	wantErr := &llm.ErrProviderUnavailable{}
	mock := llm.NewMockProvider(llm.MockResponse{Err: wantErr})
	svc := NewService(mock, DefaultConfig())

	_, err := svc.GenerateDocs(t.Context(), "anything")
	var unavail *llm.ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected provider error to propagate, got %v", err)
	}
}
