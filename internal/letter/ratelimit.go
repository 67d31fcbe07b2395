package letter

import (
	"context"
	"math"
	"sync"
	"time"
)

// TokenBucket bounds external generation calls. It holds a fixed number of
// tokens and mints one new token per refill interval, up to capacity. A nil
// bucket never limits.
type TokenBucket struct {
	mu       sync.Mutex
	capacity float64
	tokens   float64
	interval time.Duration
	last     time.Time
	now      func() time.Time
}

// NewTokenBucket returns a full bucket of the given capacity that refills
// one token per interval. Non-positive arguments produce a nil bucket.
func NewTokenBucket(capacity int, refillInterval time.Duration) *TokenBucket {
	if capacity <= 0 || refillInterval <= 0 {
		return nil
	}

	return &TokenBucket{
		capacity: float64(capacity),
		tokens:   float64(capacity),
		interval: refillInterval,
		last:     time.Now(),
		now:      time.Now,
	}
}

// TryTake consumes a token without blocking and reports whether one was
// available.
func (b *TokenBucket) TryTake() bool {
	if b == nil {
		return true
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.refillLocked()
	if b.tokens >= 1.0 {
		b.tokens--
		return true
	}

	return false
}

// Take blocks until a token is available or the context is done. It wakes
// only when the next token is due, never busy-spins.
func (b *TokenBucket) Take(ctx context.Context) error {
	if b == nil {
		return nil
	}

	for {
		b.mu.Lock()
		b.refillLocked()
		if b.tokens >= 1.0 {
			b.tokens--
			b.mu.Unlock()
			return nil
		}
		wait := b.nextTokenLocked()
		b.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

func (b *TokenBucket) refillLocked() {
	now := b.now()
	elapsed := now.Sub(b.last)
	if elapsed <= 0 {
		return
	}

	minted := float64(elapsed) / float64(b.interval)
	b.tokens = math.Min(b.capacity, b.tokens+minted)
	b.last = now
}

// nextTokenLocked reports how long until a full token is minted.
func (b *TokenBucket) nextTokenLocked() time.Duration {
	missing := 1.0 - b.tokens
	if missing <= 0 {
		return 0
	}
	return time.Duration(missing * float64(b.interval))
}
