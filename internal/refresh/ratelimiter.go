package refresh

import (
	"sync"
	"time"
)

// DefaultMinInterval applies to sports without their own limit
const DefaultMinInterval = time.Hour

// DefaultSportIntervals are the minimum gaps between refreshes, keyed by provider sport key
func DefaultSportIntervals() map[string]time.Duration {
	return map[string]time.Duration{
		"basketball_nba":         30 * time.Minute,
		"americanfootball_nfl":   time.Hour,
		"baseball_mlb":           30 * time.Minute,
		"mma_mixed_martial_arts": 2 * time.Hour,
		"icehockey_nhl":          30 * time.Minute,
	}
}

// RateLimiter tracks when each sport was last refreshed and whether it is due again
type RateLimiter struct {
	mu        sync.Mutex
	intervals map[string]time.Duration
	fallback  time.Duration
	last      map[string]time.Time
	now       func() time.Time
}

// NewRateLimiter creates a limiter. A nil intervals map uses DefaultSportIntervals
// and a non-positive fallback uses DefaultMinInterval.
func NewRateLimiter(intervals map[string]time.Duration, fallback time.Duration) *RateLimiter {
	if intervals == nil {
		intervals = DefaultSportIntervals()
	}
	if fallback <= 0 {
		fallback = DefaultMinInterval
	}
	copied := make(map[string]time.Duration, len(intervals))
	for k, v := range intervals {
		copied[k] = v
	}
	return &RateLimiter{
		intervals: copied,
		fallback:  fallback,
		last:      make(map[string]time.Time),
		now:       time.Now,
	}
}

// MinInterval returns the minimum refresh gap for a sport
func (r *RateLimiter) MinInterval(sportKey string) time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.minInterval(sportKey)
}

func (r *RateLimiter) minInterval(sportKey string) time.Duration {
	if d, ok := r.intervals[sportKey]; ok && d > 0 {
		return d
	}
	return r.fallback
}

// Due reports whether a sport may be refreshed now. A sport never refreshed is always due.
func (r *RateLimiter) Due(sportKey string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	last, ok := r.last[sportKey]
	if !ok {
		return true
	}
	return r.now().Sub(last) >= r.minInterval(sportKey)
}

// Mark records a refresh of the sport at the current time
func (r *RateLimiter) Mark(sportKey string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.last[sportKey] = r.now()
}

// MarkAt records a refresh of the sport at t
func (r *RateLimiter) MarkAt(sportKey string, t time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.last[sportKey] = t
}

// Snapshot returns a copy of the last refresh times
func (r *RateLimiter) Snapshot() map[string]time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[string]time.Time, len(r.last))
	for k, v := range r.last {
		out[k] = v
	}
	return out
}

// Reset forgets every refresh time
func (r *RateLimiter) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.last = make(map[string]time.Time)
}

func (r *RateLimiter) setClock(now func() time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.now = now
}
