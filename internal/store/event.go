package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/tutora-app/tutora/ent"
)

// eventRepo is the ent-backed EventRepo. Every append stamps the event
// with the next value from the shared sequence counter.
type eventRepo struct {
	client *ent.Client
	seq    *sequenceCounter
}

// sequenceCounter hands out one monotonic sequence shared by every event
// kind. Session, chat, quiz and LLM events each live in their own table,
// so auto-increment IDs only order events within a kind; replaying a
// learning session (did the chat question land before the quiz attempt?)
// needs a single cross-table ordering, which this counter provides.
//
// ent has no notion of a database-level counter, so the increment goes
// through raw SQL. RETURNING keeps it atomic on the SQLite side; the
// mutex keeps concurrent appends within the process from interleaving.
type sequenceCounter struct {
	mu sync.Mutex
	db *sql.DB
}

func newSequenceCounter(db *sql.DB) (*sequenceCounter, error) {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS global_sequence (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			next_val INTEGER NOT NULL DEFAULT 1
		)`,
		`INSERT OR IGNORE INTO global_sequence (id, next_val) VALUES (1, 1)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return nil, fmt.Errorf("init global_sequence: %w", err)
		}
	}
	return &sequenceCounter{db: db}, nil
}

// Next returns the next sequence number, advancing the counter.
func (sc *sequenceCounter) Next(ctx context.Context) (int64, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	var seq int64
	err := sc.db.QueryRowContext(ctx,
		`UPDATE global_sequence SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`,
	).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("advance sequence: %w", err)
	}
	return seq, nil
}
