package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// QuizEvent records one scored quiz attempt.
type QuizEvent struct {
	ent.Schema
}

func (QuizEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (QuizEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("session_id").
			NotEmpty().
			Comment("UUID grouping events in a session"),
		field.String("topic").
			NotEmpty().
			Comment("Topic the quiz covered"),
		field.Int("attempt").
			Min(1).
			Comment("1-based attempt number within the session"),
		field.Int("score").
			Min(0).
			Comment("Correct answers"),
		field.Int("total").
			Min(0).
			Comment("Questions asked"),
		field.Float("percentage").
			Comment("score / total * 100, 0 for an empty quiz"),
		field.Bool("mastery").
			Comment("Whether this attempt reached the threshold"),
		field.JSON("weak_areas", []string{}).
			Optional().
			Comment("Missed question texts kept for remediation"),
	}
}

func (QuizEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("session_id"),
		index.Fields("topic"),
		index.Fields("mastery"),
	}
}
