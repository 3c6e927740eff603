package store

import (
	"context"
	"fmt"

	"github.com/tutora-app/tutora/ent"
	"github.com/tutora-app/tutora/ent/sessionevent"
)

func (r *eventRepo) AppendSessionEvent(ctx context.Context, data SessionEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	_, err = r.client.SessionEvent.Create().
		SetSequence(seqNum).
		SetSessionID(data.SessionID).
		SetAction(data.Action).
		SetTopic(data.Topic).
		SetQuizAttempts(data.QuizAttempts).
		SetMastery(data.Mastery).
		Save(ctx)
	if err != nil {
		return fmt.Errorf("save session event: %w", err)
	}
	return nil
}

func (r *eventRepo) SessionHistory(ctx context.Context, opts QueryOpts) ([]SessionRecord, error) {
	q := r.client.SessionEvent.Query()

	if opts.After > 0 {
		q = q.Where(sessionevent.SequenceGT(opts.After))
	}
	if opts.Before > 0 {
		q = q.Where(sessionevent.SequenceLT(opts.Before))
	}
	if !opts.From.IsZero() {
		q = q.Where(sessionevent.TimestampGTE(opts.From))
	}
	if !opts.To.IsZero() {
		q = q.Where(sessionevent.TimestampLTE(opts.To))
	}

	q = q.Order(ent.Desc(sessionevent.FieldSequence))
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}

	events, err := q.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("query session events: %w", err)
	}

	records := make([]SessionRecord, 0, len(events))
	for _, e := range events {
		records = append(records, SessionRecord{
			Timestamp:    e.Timestamp,
			SessionID:    e.SessionID,
			Action:       e.Action,
			Topic:        e.Topic,
			QuizAttempts: e.QuizAttempts,
			Mastery:      e.Mastery,
		})
	}
	return records, nil
}
