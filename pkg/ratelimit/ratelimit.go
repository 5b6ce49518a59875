// Package ratelimit implements the client-side request throttle for the
// broker API: a fixed number of requests per second per environment.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter gates outgoing requests.
type Limiter interface {
	// Wait blocks until a slot is free or ctx is done.
	Wait(ctx context.Context) error
	// Allow reports whether a slot is free right now, consuming it if so.
	Allow() bool
}

// TokenBucket refills a fixed number of tokens per interval.
type TokenBucket struct {
	capacity   int
	tokens     int
	refillRate int // tokens per window
	window     time.Duration
	lastRefill time.Time
	mu         sync.Mutex
}

// NewTokenBucket starts full with capacity tokens, refilling refillRate
// tokens per window.
func NewTokenBucket(capacity, refillRate int, window time.Duration) *TokenBucket {
	return &TokenBucket{
		capacity:   capacity,
		tokens:     capacity,
		refillRate: refillRate,
		window:     window,
		lastRefill: time.Now(),
	}
}

// PerSecond returns a bucket allowing n requests per second, the shape of the
// broker's published limits (20/s real, 2/s paper trading).
func PerSecond(n int) *TokenBucket {
	return NewTokenBucket(n, n, time.Second)
}

func (tb *TokenBucket) refill() {
	now := time.Now()
	elapsed := now.Sub(tb.lastRefill)
	if elapsed <= 0 {
		return
	}
	refilled := int(float64(tb.refillRate) * (float64(elapsed) / float64(tb.window)))
	if refilled > 0 {
		tb.tokens = min(tb.capacity, tb.tokens+refilled)
		tb.lastRefill = now
	}
}

func (tb *TokenBucket) Allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	tb.refill()
	if tb.tokens > 0 {
		tb.tokens--
		return true
	}
	return false
}

func (tb *TokenBucket) Wait(ctx context.Context) error {
	for {
		if tb.Allow() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(tb.window / time.Duration(max(tb.refillRate, 1))):
		}
	}
}
