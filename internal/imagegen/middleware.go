package imagegen

import (
	"context"
	"errors"
	"log/slog"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"deckgen/internal/llm"
)

// Middleware decorates a Capability.
type Middleware func(Capability) Capability

// Wrap applies middlewares in left-to-right order: Wrap(c, A, B) is A(B(c)).
func Wrap(inner Capability, mws ...Middleware) Capability {
	out := inner
	for i := len(mws) - 1; i >= 0; i-- {
		if mws[i] != nil {
			out = mws[i](out)
		}
	}
	return out
}

// -------- Rate Limiting --------

// RateLimit gates requests on l. A nil limiter disables the middleware.
func RateLimit(l llm.Limiter) Middleware {
	return func(next Capability) Capability {
		if l == nil {
			return next
		}
		return &rateLimited{next: next, rl: l}
	}
}

type rateLimited struct {
	next Capability
	rl   llm.Limiter
}

func (c *rateLimited) Name() string { return c.next.Name() }
func (c *rateLimited) RequestImage(ctx context.Context, prompt string, ratio AspectRatio) (Image, error) {
	if err := c.rl.Acquire(ctx); err != nil {
		return Image{}, err
	}
	return c.next.RequestImage(ctx, prompt, ratio)
}

// -------- Retry --------

// Retry makes up to maxAttempts calls with exponential backoff from
// baseDelay. It stops on context cancellation and on *PermanentError.
func Retry(maxAttempts int, baseDelay time.Duration) Middleware {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	if baseDelay <= 0 {
		baseDelay = 500 * time.Millisecond
	}
	return func(next Capability) Capability {
		if maxAttempts == 1 {
			return next
		}
		return &retrying{next: next, max: maxAttempts, base: baseDelay}
	}
}

type retrying struct {
	next Capability
	max  int
	base time.Duration
}

func (r *retrying) Name() string { return r.next.Name() }
func (r *retrying) RequestImage(ctx context.Context, prompt string, ratio AspectRatio) (Image, error) {
	var err error
	for i := 0; i < r.max; i++ {
		if i > 0 {
			if werr := llm.Sleep(ctx, llm.Backoff(r.base, i-1)); werr != nil {
				return Image{}, werr
			}
		}
		var img Image
		if img, err = r.next.RequestImage(ctx, prompt, ratio); err == nil {
			return img, nil
		}
		var perm *PermanentError
		if errors.As(err, &perm) {
			return Image{}, err
		}
	}
	return Image{}, err
}

// -------- Cache --------

type cacheKey struct {
	prompt string
	ratio  AspectRatio
}

// Cached keeps the last size successful images keyed by prompt and ratio.
// size <= 0 disables caching.
func Cached(size int) Middleware {
	return func(next Capability) Capability {
		if size <= 0 {
			return next
		}
		c, err := lru.New[cacheKey, Image](size)
		if err != nil {
			return next
		}
		return &cached{next: next, lru: c}
	}
}

type cached struct {
	next Capability
	lru  *lru.Cache[cacheKey, Image]
}

func (c *cached) Name() string { return c.next.Name() }
func (c *cached) RequestImage(ctx context.Context, prompt string, ratio AspectRatio) (Image, error) {
	key := cacheKey{prompt: prompt, ratio: ratio}
	if img, ok := c.lru.Get(key); ok {
		return img, nil
	}
	img, err := c.next.RequestImage(ctx, prompt, ratio)
	if err != nil {
		return Image{}, err
	}
	c.lru.Add(key, img)
	return img, nil
}

// -------- Logging --------

// WithLogging logs each request and its outcome. nil uses slog.Default().
func WithLogging(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next Capability) Capability {
		return &logging{next: next, log: logger}
	}
}

type logging struct {
	next Capability
	log  *slog.Logger
}

func (l *logging) Name() string { return l.next.Name() }
func (l *logging) RequestImage(ctx context.Context, prompt string, ratio AspectRatio) (Image, error) {
	start := time.Now()
	l.log.DebugContext(ctx, "image request", "backend", l.next.Name(), "ratio", ratio, "prompt_bytes", len(prompt))
	img, err := l.next.RequestImage(ctx, prompt, ratio)
	if err != nil {
		l.log.WarnContext(ctx, "image error", "backend", l.next.Name(), "elapsed", time.Since(start), "error", err)
		return img, err
	}
	l.log.DebugContext(ctx, "image response", "backend", l.next.Name(), "elapsed", time.Since(start), "bytes", len(img.Bytes))
	return img, nil
}
