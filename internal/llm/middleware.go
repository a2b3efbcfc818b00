package llm

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"
)

// Middleware decorates an LLMClient.
type Middleware func(LLMClient) LLMClient

// Wrap applies middlewares outermost first: Wrap(c, A, B) is A(B(c)).
func Wrap(inner LLMClient, mws ...Middleware) LLMClient {
	out := inner
	for i := len(mws) - 1; i >= 0; i-- {
		out = mws[i](out)
	}
	return out
}

// passthrough forwards everything; decorators embed it and override
// GenerateJSON.
type passthrough struct{ next LLMClient }

func (p passthrough) Name() string { return p.next.Name() }
func (p passthrough) Close() error { return p.next.Close() }

// RateLimit waits on l before every call. A nil limiter is a no-op.
func RateLimit(l Limiter) Middleware {
	return func(next LLMClient) LLMClient {
		if l == nil {
			return next
		}
		return &rateLimited{passthrough{next}, l}
	}
}

type rateLimited struct {
	passthrough
	limiter Limiter
}

func (c *rateLimited) GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error) {
	if err := c.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	return c.next.GenerateJSON(ctx, prompt, input)
}

// Retry makes up to maxAttempts calls, doubling the pause from baseDelay.
// *PermanentError and context cancellation end it early.
func Retry(maxAttempts int, baseDelay time.Duration) Middleware {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	if baseDelay <= 0 {
		baseDelay = 300 * time.Millisecond
	}
	return func(next LLMClient) LLMClient {
		if maxAttempts == 1 {
			return next
		}
		return &retrying{passthrough{next}, maxAttempts, baseDelay}
	}
}

type retrying struct {
	passthrough
	attempts int
	base     time.Duration
}

func (r *retrying) GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error) {
	var err error
	for i := 0; i < r.attempts; i++ {
		if i > 0 {
			if werr := Sleep(ctx, Backoff(r.base, i-1)); werr != nil {
				return nil, werr
			}
		}
		var raw json.RawMessage
		if raw, err = r.next.GenerateJSON(ctx, prompt, input); err == nil {
			return raw, nil
		}
		var perm *PermanentError
		if errors.As(err, &perm) {
			return nil, err
		}
	}
	return nil, err
}

// Backoff is base doubled n times.
func Backoff(base time.Duration, n int) time.Duration { return base << uint(n) }

// Sleep waits d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// WithLogging logs each call's size and latency at debug and failures at
// warn. nil uses slog.Default().
func WithLogging(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next LLMClient) LLMClient {
		return &logging{passthrough{next}, logger}
	}
}

type logging struct {
	passthrough
	log *slog.Logger
}

func (l *logging) GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error) {
	in, _ := json.Marshal(input)
	attrs := []any{"client", l.next.Name(), "phase", PhaseFrom(ctx)}
	start := time.Now()
	raw, err := l.next.GenerateJSON(ctx, prompt, input)
	if err != nil {
		l.log.WarnContext(ctx, "llm call failed", append(attrs, "error", err)...)
		return raw, err
	}
	l.log.DebugContext(ctx, "llm call", append(attrs,
		"request_bytes", len(prompt)+len(in),
		"response_bytes", len(raw),
		"took", time.Since(start))...)
	return raw, nil
}

// WithHooks reports every call to the Observer in the context, if any.
func WithHooks() Middleware {
	return func(next LLMClient) LLMClient {
		return &observed{passthrough{next}}
	}
}

type observed struct{ passthrough }

func (o *observed) GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error) {
	obs := ObserverFrom(ctx)
	if obs == nil {
		return o.next.GenerateJSON(ctx, prompt, input)
	}
	phase := PhaseFrom(ctx)
	obs.Before(ctx, phase, prompt, input)
	raw, err := o.next.GenerateJSON(ctx, prompt, input)
	obs.After(ctx, phase, raw, err)
	return raw, err
}
