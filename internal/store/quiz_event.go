package store

import (
	"context"
	"fmt"

	"github.com/tutora-app/tutora/ent"
	"github.com/tutora-app/tutora/ent/quizevent"
)

func (r *eventRepo) AppendQuizEvent(ctx context.Context, data QuizEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	builder := r.client.QuizEvent.Create().
		SetSequence(seqNum).
		SetSessionID(data.SessionID).
		SetTopic(data.Topic).
		SetAttempt(data.Attempt).
		SetScore(data.Score).
		SetTotal(data.Total).
		SetPercentage(data.Percentage).
		SetMastery(data.Mastery)

	if len(data.WeakAreas) > 0 {
		builder = builder.SetWeakAreas(data.WeakAreas)
	}

	_, err = builder.Save(ctx)
	if err != nil {
		return fmt.Errorf("save quiz event: %w", err)
	}
	return nil
}

func (r *eventRepo) QuizHistory(ctx context.Context, opts QueryOpts) ([]QuizRecord, error) {
	q := r.client.QuizEvent.Query()

	if opts.After > 0 {
		q = q.Where(quizevent.SequenceGT(opts.After))
	}
	if opts.Before > 0 {
		q = q.Where(quizevent.SequenceLT(opts.Before))
	}
	if !opts.From.IsZero() {
		q = q.Where(quizevent.TimestampGTE(opts.From))
	}
	if !opts.To.IsZero() {
		q = q.Where(quizevent.TimestampLTE(opts.To))
	}

	q = q.Order(ent.Desc(quizevent.FieldSequence))
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}

	events, err := q.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("query quiz events: %w", err)
	}

	records := make([]QuizRecord, 0, len(events))
	for _, e := range events {
		records = append(records, QuizRecord{
			Timestamp:  e.Timestamp,
			SessionID:  e.SessionID,
			Topic:      e.Topic,
			Attempt:    e.Attempt,
			Score:      e.Score,
			Total:      e.Total,
			Percentage: e.Percentage,
			Mastery:    e.Mastery,
		})
	}
	return records, nil
}
