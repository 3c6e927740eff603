package quiz

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Parse decodes a model response into a quiz. The response may arrive
// wrapped in a Markdown code fence (some providers ignore "JSON only"
// instructions), so fences are stripped before decoding. Every question
// is structurally validated; a single bad question fails the whole
// parse so the caller can degrade to an empty quiz.
func Parse(raw []byte) ([]Question, error) {
	content := StripFences(string(raw))
	if content == "" {
		return nil, fmt.Errorf("empty quiz response")
	}

	var questions []Question
	if err := json.Unmarshal([]byte(content), &questions); err != nil {
		return nil, fmt.Errorf("decode quiz JSON: %w", err)
	}

	for i, q := range questions {
		if err := q.Validate(); err != nil {
			return nil, fmt.Errorf("question %d: %w", i+1, err)
		}
	}

	return questions, nil
}

// StripFences removes a leading/trailing Markdown code fence from s,
// including an optional "json" language tag. Content without fences is
// returned trimmed but otherwise untouched.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```")
	// Everything after a closing fence is discarded.
	if idx := strings.Index(s, "```"); idx >= 0 {
		s = s[:idx]
	}
	s = strings.TrimSpace(s)
	if rest, ok := strings.CutPrefix(s, "json"); ok {
		s = rest
	}
	return strings.TrimSpace(s)
}
