package llm

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"
)

// retryDecision says whether another attempt is worth making and how
// long to wait first. A zero wait means "use the backoff schedule".
type retryDecision struct {
	retry bool
	wait  time.Duration
}

// retrier re-issues failed Generate calls for transient errors. Schema
// violations get a single re-ask; everything the taxonomy marks
// permanent returns immediately.
type retrier struct {
	inner Provider
	cfg   RetryConfig

	// test hook; defaults to rand.Float64
	jitter func() float64
}

// WithRetry wraps a Provider with transient-error retries.
func WithRetry(p Provider, cfg RetryConfig) Provider {
	return &retrier{inner: p, cfg: cfg, jitter: rand.Float64}
}

func (r *retrier) ModelID() string { return r.inner.ModelID() }

func (r *retrier) Generate(ctx context.Context, req Request) (*Response, error) {
	schedule := r.cfg.InitialWait
	invalidSeen := false

	var lastErr error
	for attempt := 1; ; attempt++ {
		resp, err := r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		d := classify(err, &invalidSeen)
		if !d.retry || attempt >= r.cfg.MaxAttempts {
			break
		}

		wait := d.wait
		if wait == 0 {
			wait = r.withJitter(schedule)
			schedule = r.nextWait(schedule)
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
	return nil, lastErr
}

// classify maps an error to a retry decision. invalidSeen tracks the
// one-shot budget for schema violations across the whole call.
func classify(err error, invalidSeen *bool) retryDecision {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return retryDecision{}
	}

	var truncated *ErrMaxTokensExceeded
	if errors.As(err, &truncated) {
		// Retrying the identical request truncates again.
		return retryDecision{}
	}

	var invalid *ErrInvalidResponse
	if errors.As(err, &invalid) {
		if *invalidSeen {
			return retryDecision{}
		}
		*invalidSeen = true
		return retryDecision{retry: true}
	}

	var limited *ErrRateLimit
	if errors.As(err, &limited) {
		return retryDecision{retry: true, wait: limited.RetryAfter}
	}

	// Unavailable providers and anything unclassified (DNS, resets)
	// count as transient.
	return retryDecision{retry: true}
}

// nextWait advances the backoff schedule, capped at MaxWait.
func (r *retrier) nextWait(current time.Duration) time.Duration {
	next := time.Duration(float64(current) * r.cfg.Multiplier)
	if next > r.cfg.MaxWait {
		return r.cfg.MaxWait
	}
	return next
}

// withJitter spreads a wait over ±20% so concurrent sessions don't
// retry in lockstep.
func (r *retrier) withJitter(wait time.Duration) time.Duration {
	spread := 0.2 * (2*r.jitter() - 1)
	jittered := time.Duration(float64(wait) * (1 + spread))
	if jittered < 0 {
		return 0
	}
	return jittered
}
