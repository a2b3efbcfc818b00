package llm

import (
	"context"
	"sync"
	"time"
)

// Limiter paces calls to a rate-limited backend.
type Limiter interface {
	Acquire(ctx context.Context) error
}

// bucket is a token bucket refilled from the clock on each Acquire, so it
// owns no goroutine. A nil *bucket never blocks.
type bucket struct {
	mu       sync.Mutex
	interval time.Duration
	burst    float64
	tokens   float64
	last     time.Time
}

func newBucket(rps float64, burst int) *bucket {
	if rps <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	interval := time.Duration(float64(time.Second) / rps)
	if interval <= 0 {
		interval = time.Nanosecond
	}
	return &bucket{interval: interval, burst: float64(burst), tokens: float64(burst), last: time.Now()}
}

// reserve takes a token, possibly on credit, and reports how long the caller
// has to wait before using it.
func (b *bucket) reserve(now time.Time) time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tokens += float64(now.Sub(b.last)) / float64(b.interval)
	if b.tokens > b.burst {
		b.tokens = b.burst
	}
	b.last = now
	b.tokens--
	if b.tokens >= 0 {
		return 0
	}
	return time.Duration(-b.tokens * float64(b.interval))
}

func (b *bucket) refund() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.tokens++; b.tokens > b.burst {
		b.tokens = b.burst
	}
}

func (b *bucket) Acquire(ctx context.Context) error {
	if b == nil {
		return nil
	}
	wait := b.reserve(time.Now())
	if wait <= 0 {
		return nil
	}
	t := time.NewTimer(wait)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		b.refund()
		return ctx.Err()
	}
}

// NewLimiter returns a limiter allowing rps calls per second with the given
// burst, or nil (unlimited) when rps <= 0.
func NewLimiter(rps float64, burst int) Limiter {
	if b := newBucket(rps, burst); b != nil {
		return b
	}
	return nil
}
