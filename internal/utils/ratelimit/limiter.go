// Package ratelimit provides token bucket rate limiting for protecting
// API endpoints, with per-client buckets managed by a Store.
package ratelimit

import (
	"sync"
	"time"
)

// Limiter is a token bucket for a single client identity. Tokens refill
// at a fixed rate and each request consumes one.
type Limiter struct {
	tokens     float64
	lastRefill time.Time
	lastAccess time.Time
	rate       float64
	capacity   float64
	mu         sync.Mutex
}

// Rate configures a bucket: the steady refill rate and the burst size.
type Rate struct {
	RequestsPerSecond float64
	Burst             int
}

// NewLimiter creates a limiter that starts full.
func NewLimiter(rate float64, burst int) *Limiter {
	now := time.Now()
	return &Limiter{
		tokens:     float64(burst),
		lastRefill: now,
		lastAccess: now,
		rate:       rate,
		capacity:   float64(burst),
	}
}

// Allow reports whether a request may proceed, consuming a token when
// it does.
func (l *Limiter) Allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(l.lastRefill).Seconds()
	l.lastRefill = now
	l.lastAccess = now

	l.tokens += elapsed * l.rate
	if l.tokens > l.capacity {
		l.tokens = l.capacity
	}

	if l.tokens < 1 {
		return false
	}

	l.tokens--
	return true
}

// Reset refills the bucket to capacity.
func (l *Limiter) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.tokens = l.capacity
	l.lastRefill = time.Now()
}

// idleSince reports how long ago the limiter was last used.
func (l *Limiter) idleSince(now time.Time) time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()
	return now.Sub(l.lastAccess)
}
