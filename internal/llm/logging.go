package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/tutora-app/tutora/internal/store"
)

// audited records every model call as an llm_request event so the
// llm list/view/stats commands can replay what the tutor asked and paid.
type audited struct {
	inner Provider
	repo  store.EventRepo
}

// WithLogging makes every Generate call leave an event, success or not.
func WithLogging(p Provider, repo store.EventRepo) Provider {
	return &audited{inner: p, repo: repo}
}

func (a *audited) ModelID() string { return a.inner.ModelID() }

func (a *audited) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()

	resp, err := a.inner.Generate(ctx, req)

	data := store.LLMRequestEventData{
		Provider:    a.inner.ModelID(),
		Model:       a.inner.ModelID(),
		Purpose:     PurposeFrom(ctx),
		LatencyMs:   time.Since(start).Milliseconds(),
		Success:     err == nil,
		RequestBody: renderRequest(req),
	}
	if resp != nil {
		data.Model = resp.Model
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
		data.ResponseBody = string(resp.Content)
	}
	if err != nil {
		data.ErrorMessage = err.Error()
	}

	// A broken audit trail must not take the tutoring session down.
	if logErr := a.repo.AppendLLMRequest(ctx, data); logErr != nil {
		fmt.Fprintf(os.Stderr, "warning: could not record llm_request event: %v\n", logErr)
	}

	return resp, err
}

// renderRequest flattens the request into the transcript form shown by
// `tutora llm view`.
func renderRequest(req Request) string {
	var b strings.Builder

	if req.System != "" {
		fmt.Fprintf(&b, "[system]\n%s\n\n", req.System)
	}
	for _, m := range req.Messages {
		fmt.Fprintf(&b, "[%s]\n%s\n\n", m.Role, m.Content)
	}
	if req.Schema != nil {
		if def, err := json.Marshal(req.Schema.Definition); err == nil {
			fmt.Fprintf(&b, "[schema: %s]\n%s\n", req.Schema.Name, def)
		}
	}
	return b.String()
}
