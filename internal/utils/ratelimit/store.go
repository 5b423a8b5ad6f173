package ratelimit

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Store manages limiters for many clients, keyed by client identity and
// endpoint category so that auth endpoints can carry tighter limits than
// the general API.
type Store struct {
	limiters map[string]*Limiter
	rates    map[string]Rate
	mu       sync.RWMutex

	cleanupInterval time.Duration
	maxIdle         time.Duration
}

// NewStore creates a store with the given default rate. A background
// routine evicts limiters idle longer than maxIdle.
func NewStore(defaultRate Rate, cleanupInterval, maxIdle time.Duration) *Store {
	store := &Store{
		limiters:        make(map[string]*Limiter),
		rates:           map[string]Rate{"default": defaultRate},
		cleanupInterval: cleanupInterval,
		maxIdle:         maxIdle,
	}

	go store.cleanupRoutine()

	return store
}

// SetRate registers a rate limit for a category.
func (s *Store) SetRate(category string, rate Rate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rates[category] = rate
}

// Allow reports whether the client may make a request in the given
// category, creating a bucket on first contact.
func (s *Store) Allow(clientID, category string) bool {
	return s.getLimiter(clientID, category).Allow()
}

func (s *Store) getLimiter(clientID, category string) *Limiter {
	key := category + ":" + clientID

	s.mu.RLock()
	limiter, exists := s.limiters[key]
	s.mu.RUnlock()
	if exists {
		return limiter
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Another goroutine may have created it in the window
	if limiter, exists = s.limiters[key]; exists {
		return limiter
	}

	rate, ok := s.rates[category]
	if !ok {
		rate = s.rates["default"]
	}

	limiter = NewLimiter(rate.RequestsPerSecond, rate.Burst)
	s.limiters[key] = limiter
	return limiter
}

func (s *Store) cleanupRoutine() {
	ticker := time.NewTicker(s.cleanupInterval)
	defer ticker.Stop()

	for range ticker.C {
		s.cleanup(time.Now())
	}
}

// cleanup evicts limiters that have sat idle past maxIdle so one-time
// clients do not accumulate forever.
func (s *Store) cleanup(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for key, limiter := range s.limiters {
		if limiter.idleSince(now) > s.maxIdle {
			delete(s.limiters, key)
			evicted++
		}
	}

	if evicted > 0 {
		log.Debug().Int("evicted", evicted).Int("remaining", len(s.limiters)).
			Msg("Rate limiter store cleaned up")
	}
}

// Size returns the number of tracked limiters.
func (s *Store) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.limiters)
}
