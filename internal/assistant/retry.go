package assistant

import (
	"context"
	"log/slog"
	"time"
)

const (
	DefaultMaxRetries = 2
	DefaultTimeout    = 20 * time.Second
	DefaultRetryDelay = time.Second
)

type RetryPolicy struct {
	MaxRetries int
	Timeout    time.Duration
	Delay      time.Duration
	// Simplify rewrites the prompt before every retry.
	Simplify bool
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries: DefaultMaxRetries,
		Timeout:    DefaultTimeout,
		Delay:      DefaultRetryDelay,
		Simplify:   true,
	}
}

// Retrier wraps a Completer with a per-attempt timeout and a bounded number of
// retries. The caller's context stops the loop at any point.
type Retrier struct {
	next   Completer
	policy RetryPolicy
}

func NewRetrier(next Completer, policy RetryPolicy) *Retrier {
	if policy.MaxRetries < 0 {
		policy.MaxRetries = 0
	}
	if policy.Timeout <= 0 {
		policy.Timeout = DefaultTimeout
	}
	return &Retrier{next: next, policy: policy}
}

func (r *Retrier) Complete(ctx context.Context, req Request) (*Reply, error) {
	var lastErr error

	for attempt := 0; attempt <= r.policy.MaxRetries; attempt++ {
		slog.Debug("Assistant attempt", "attempt", attempt+1, "of", r.policy.MaxRetries+1, "prompt", truncate(req.Prompt, 50))

		reply, err := r.once(ctx, req)
		if err == nil {
			return reply, nil
		}
		lastErr = err
		slog.Warn("Assistant attempt failed", "attempt", attempt+1, "error", err)

		if ctx.Err() != nil || attempt == r.policy.MaxRetries {
			break
		}

		if r.policy.Simplify {
			req.Prompt = Simplify(req.Prompt, attempt+1)
		}

		if r.policy.Delay > 0 {
			t := time.NewTimer(r.policy.Delay)
			select {
			case <-ctx.Done():
				t.Stop()
				return nil, lastErr
			case <-t.C:
			}
		}
	}

	return nil, lastErr
}

func (r *Retrier) once(ctx context.Context, req Request) (*Reply, error) {
	ctx, cancel := context.WithTimeout(ctx, r.policy.Timeout)
	defer cancel()
	return r.next.Complete(ctx, req)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
