package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLimiter_AllowWithinBurst(t *testing.T) {
	limiter := NewLimiter(1, 3)

	for i := 0; i < 3; i++ {
		assert.True(t, limiter.Allow(), "request %d should fit within the burst", i+1)
	}
	assert.False(t, limiter.Allow(), "the bucket should be empty after the burst")
}

func TestLimiter_Refills(t *testing.T) {
	limiter := NewLimiter(100, 1)

	assert.True(t, limiter.Allow())
	assert.False(t, limiter.Allow())

	time.Sleep(20 * time.Millisecond)
	assert.True(t, limiter.Allow(), "tokens should refill over time")
}

func TestLimiter_CapsAtCapacity(t *testing.T) {
	limiter := NewLimiter(1000, 2)

	time.Sleep(20 * time.Millisecond)

	assert.True(t, limiter.Allow())
	assert.True(t, limiter.Allow())
	assert.False(t, limiter.Allow(), "the bucket must not exceed its capacity")
}

func TestLimiter_Reset(t *testing.T) {
	limiter := NewLimiter(0.001, 1)

	assert.True(t, limiter.Allow())
	assert.False(t, limiter.Allow())

	limiter.Reset()
	assert.True(t, limiter.Allow())
}
