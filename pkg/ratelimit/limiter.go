// Package ratelimit implements the token bucket that guards the brokerage
// connection. A single Limiter instance is shared by every bot and every
// HTTP proxy call.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter is a lazily refilled token bucket. Tokens are replenished on each
// acquisition attempt from elapsed wall-clock time; there is no background
// ticker.
type Limiter struct {
	mu         sync.Mutex
	tokens     float64
	lastRefill time.Time
	rate       float64 // tokens per second
	capacity   float64
}

// NewLimiter creates a full bucket with the given refill rate (tokens per
// second) and capacity.
func NewLimiter(rate, capacity float64) *Limiter {
	return &Limiter{
		tokens:     capacity,
		lastRefill: time.Now(),
		rate:       rate,
		capacity:   capacity,
	}
}

// Acquire blocks the caller until a token is available, then consumes one.
// The lock is not held while waiting, so other goroutines keep making
// progress. Wake order across waiters is scheduler dependent.
func (l *Limiter) Acquire(ctx context.Context) error {
	l.mu.Lock()
	l.refill()

	if l.tokens >= 1 {
		l.tokens--
		l.mu.Unlock()
		return nil
	}

	wait := time.Duration((1 - l.tokens) / l.rate * float64(time.Second))
	l.mu.Unlock()

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
	}

	// The wait bought exactly one token's worth of refill; treat the
	// bucket as exhausted rather than re-entering the wait path.
	l.mu.Lock()
	l.refill()
	l.tokens = 0
	l.mu.Unlock()
	return nil
}

// refill must be called with the lock held.
func (l *Limiter) refill() {
	now := time.Now()
	elapsed := now.Sub(l.lastRefill).Seconds()
	l.tokens += elapsed * l.rate
	if l.tokens > l.capacity {
		l.tokens = l.capacity
	}
	l.lastRefill = now
}

// Tokens reports the current token count after a refill. Intended for
// status endpoints and tests.
func (l *Limiter) Tokens() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.refill()
	return l.tokens
}

// Rate returns the configured refill rate in tokens per second.
func (l *Limiter) Rate() float64 {
	return l.rate
}

// Capacity returns the bucket capacity.
func (l *Limiter) Capacity() float64 {
	return l.capacity
}
