package llm

import "context"

type purposeKey struct{}

// WithPurpose labels the context with the tutoring operation behind a
// request (topic-refine, docs, quiz-gen, chat, feedback,
// related-topics). The logging middleware stores the label with the
// request event and `tutora llm stats` aggregates by it.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey{}, purpose)
}

// PurposeFrom reads the purpose label, or "unknown" for an unlabeled
// context.
func PurposeFrom(ctx context.Context) string {
	p, _ := ctx.Value(purposeKey{}).(string)
	if p == "" {
		return "unknown"
	}
	return p
}
