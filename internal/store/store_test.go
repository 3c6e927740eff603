package store

import (
	"context"
	"testing"
)

// openTestStore gives each test its own migrated in-memory database.
func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open("file::memory:?cache=shared")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenClose(t *testing.T) {
	if s := openTestStore(t); s.Client() == nil {
		t.Fatal("expected non-nil ent client")
	}
}

func TestPragmasApplied(t *testing.T) {
	db := openTestStore(t).DB()

	// journal_mode is absent: WAL degrades to "memory" on in-memory
	// databases, so it only holds for file-backed ones.
	want := map[string]string{
		"foreign_keys": "1",
		"synchronous":  "1", // NORMAL
	}
	for pragma, expected := range want {
		var got string
		if err := db.QueryRow("PRAGMA " + pragma).Scan(&got); err != nil {
			t.Errorf("PRAGMA %s: %v", pragma, err)
		} else if got != expected {
			t.Errorf("PRAGMA %s = %q, want %q", pragma, got, expected)
		}
	}
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var seqs []int64
	for i := 0; i < 5; i++ {
		seq, err := s.seq.Next(ctx)
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		seqs = append(seqs, seq)
	}

	// Should be monotonically increasing starting from 1.
	for i, seq := range seqs {
		expected := int64(i + 1)
		if seq != expected {
			t.Errorf("seq[%d] = %d, want %d", i, seq, expected)
		}
	}
}

func TestQuizEventRoundTrip(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	err := repo.AppendQuizEvent(ctx, QuizEventData{
		SessionID:  "sess-1",
		Topic:      "Binary Search",
		Attempt:    1,
		Score:      2,
		Total:      5,
		Percentage: 40,
		Mastery:    false,
		WeakAreas:  []string{"Q3", "Q4", "Q5"},
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	err = repo.AppendQuizEvent(ctx, QuizEventData{
		SessionID:  "sess-1",
		Topic:      "Binary Search",
		Attempt:    2,
		Score:      4,
		Total:      5,
		Percentage: 80,
		Mastery:    true,
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	records, err := repo.QuizHistory(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	// Newest first.
	if records[0].Attempt != 2 || !records[0].Mastery {
		t.Errorf("expected mastery attempt first, got %+v", records[0])
	}
	if records[1].Percentage != 40 {
		t.Errorf("percentage = %v, want 40", records[1].Percentage)
	}
}

func TestSessionHistoryFiltersAndLimits(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	topics := []string{"Graphs", "Sorting", "Hashing"}
	for _, topic := range topics {
		err := repo.AppendSessionEvent(ctx, SessionEventData{
			SessionID: "sess-" + topic,
			Action:    "start",
			Topic:     topic,
		})
		if err != nil {
			t.Fatalf("append %s: %v", topic, err)
		}
	}

	records, err := repo.SessionHistory(ctx, QueryOpts{Limit: 2})
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Topic != "Hashing" {
		t.Errorf("expected newest first, got %q", records[0].Topic)
	}

	// After the first event's sequence.
	all, err := repo.SessionHistory(ctx, QueryOpts{After: 1})
	if err != nil {
		t.Fatalf("history after: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 records after seq 1, got %d", len(all))
	}
}

func TestChatEventAppend(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	err := repo.AppendChatEvent(ctx, ChatEventData{
		SessionID: "sess-1",
		Topic:     "Binary Search",
		Question:  "Why log n?",
		Answer:    "Each step halves the range.",
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	count, err := s.Client().ChatEvent.Query().Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("chat events = %d, want 1", count)
	}
}

func TestLLMEventQueriesAndAggregates(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []LLMRequestEventData{
		{Provider: "anthropic", Model: "claude-haiku", Purpose: "docs", InputTokens: 100, OutputTokens: 500, LatencyMs: 900, Success: true},
		{Provider: "anthropic", Model: "claude-haiku", Purpose: "quiz-gen", InputTokens: 200, OutputTokens: 400, LatencyMs: 1100, Success: true},
		{Provider: "anthropic", Model: "claude-haiku", Purpose: "quiz-gen", InputTokens: 300, OutputTokens: 0, LatencyMs: 50, Success: false, ErrorMessage: "rate limited"},
	}
	for i, e := range events {
		if err := repo.AppendLLMRequest(ctx, e); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	records, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 10})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}

	got, err := repo.GetLLMEvent(ctx, records[0].ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil || got.Purpose != records[0].Purpose {
		t.Errorf("get returned %+v, want %+v", got, records[0])
	}

	missing, err := repo.GetLLMEvent(ctx, 99999)
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for unknown ID")
	}

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	if err != nil {
		t.Fatalf("usage by purpose: %v", err)
	}
	usage := map[string]PurposeUsage{}
	for _, u := range byPurpose {
		usage[u.Purpose] = u
	}
	if usage["quiz-gen"].Calls != 2 || usage["quiz-gen"].InputTokens != 500 {
		t.Errorf("quiz-gen usage = %+v", usage["quiz-gen"])
	}
	if usage["docs"].OutputTokens != 500 {
		t.Errorf("docs usage = %+v", usage["docs"])
	}

	byModel, err := repo.LLMUsageByModel(ctx)
	if err != nil {
		t.Fatalf("usage by model: %v", err)
	}
	if len(byModel) != 1 || byModel[0].Calls != 3 {
		t.Errorf("model usage = %+v", byModel)
	}
}

func TestAutoMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	for _, table := range []string{"session_events", "quiz_events", "chat_events", "llm_request_events"} {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %s: %v", table, err)
		}
	}
}
