// Package ratelimit provides per-key token bucket rate limiting for the
// content-generation collaborator. Keys are agent IDs.
package ratelimit

import (
	"fmt"
	"sync"
	"time"
)

// Limiter implements a per-key token bucket rate limiter.
// Each key gets its own bucket with the configured rate and burst.
// It is safe for concurrent use.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	rate    float64          // tokens per second
	burst   int              // max burst size (also initial token count)
	nowFunc func() time.Time // injectable clock for testing
}

type bucket struct {
	tokens    float64
	lastCheck time.Time
}

// NewLimiter creates a rate limiter with the given rate (tokens/sec) and
// burst size. The burst size also serves as the initial number of tokens
// available.
func NewLimiter(rate float64, burst int) *Limiter {
	return &Limiter{
		buckets: make(map[string]*bucket),
		rate:    rate,
		burst:   burst,
		nowFunc: time.Now,
	}
}

// NewFromQuota creates a limiter allowing perWindow requests per window,
// with the full quota available as initial burst. A non-positive quota or
// window yields a limiter that rejects nothing beyond a single-token
// bucket per second.
func NewFromQuota(perWindow int, window time.Duration) *Limiter {
	if perWindow <= 0 || window <= 0 {
		return NewLimiter(1.0, 1)
	}
	return NewLimiter(float64(perWindow)/window.Seconds(), perWindow)
}

// Allow checks if a request for the given key should be allowed.
// Returns true if allowed, false if rate limited.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.nowFunc()

	b, ok := l.buckets[key]
	if !ok {
		// First request for this key: start with full burst
		b = &bucket{
			tokens:    float64(l.burst),
			lastCheck: now,
		}
		l.buckets[key] = b
	}

	// Refill tokens based on elapsed time
	elapsed := now.Sub(b.lastCheck).Seconds()
	if elapsed > 0 {
		b.tokens += l.rate * elapsed
		if b.tokens > float64(l.burst) {
			b.tokens = float64(l.burst)
		}
		b.lastCheck = now
	}

	if b.tokens < 1.0 {
		return false
	}

	b.tokens--
	return true
}

// Check checks the rate limit for a key. Returns nil if allowed, or an
// error naming the key if rate limited. A nil limiter allows everything.
func (l *Limiter) Check(key string) error {
	if l == nil {
		return nil
	}
	if !l.Allow(key) {
		return fmt.Errorf("rate limit exceeded for %s", key)
	}
	return nil
}
