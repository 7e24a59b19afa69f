package refresh

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// TickEvent summarizes one completed refresh tick
type TickEvent struct {
	ID              string    `json:"tick_id"`
	StartedAt       time.Time `json:"started_at"`
	FinishedAt      time.Time `json:"at"`
	ActiveBets      int       `json:"active_bets"`
	SportsRefreshed []string  `json:"sports_refreshed"`
	SportsSkipped   []string  `json:"sports_skipped"`
	BetsUpdated     int       `json:"bets_updated"`
	ParlaysUpdated  int       `json:"parlays_updated"`
}

// Observer is notified after every refresh tick has been fully applied.
// Observers may be called concurrently and must not block for long.
type Observer func(ctx context.Context, event TickEvent) error

// ObserverError reports one failed observer
type ObserverError struct {
	Key string
	Err error
}

func (e ObserverError) Error() string {
	return fmt.Sprintf("observer %s: %v", e.Key, e.Err)
}

func (e ObserverError) Unwrap() error {
	return e.Err
}

// Registry holds observers keyed by name
type Registry struct {
	mu        sync.RWMutex
	observers map[string]Observer
	seq       map[string]int
	next      int
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		observers: make(map[string]Observer),
		seq:       make(map[string]int),
	}
}

// Register adds or replaces the observer under key
func (r *Registry) Register(key string, observer Observer) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.observers[key]; !exists {
		r.seq[key] = r.next
		r.next++
	}
	r.observers[key] = observer
}

// Unregister removes the observer under key. It is safe to call from inside an observer.
func (r *Registry) Unregister(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.observers[key]; !exists {
		return false
	}
	delete(r.observers, key)
	delete(r.seq, key)
	return true
}

// Keys returns the registered keys in registration order
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.orderedKeys()
}

func (r *Registry) orderedKeys() []string {
	keys := make([]string, 0, len(r.observers))
	for k := range r.observers {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return r.seq[keys[i]] < r.seq[keys[j]] })
	return keys
}

// Notify calls every observer registered when Notify began, in registration order.
// A failing or panicking observer does not prevent the rest from running.
func (r *Registry) Notify(ctx context.Context, event TickEvent) []ObserverError {
	r.mu.RLock()
	keys := r.orderedKeys()
	snapshot := make([]Observer, len(keys))
	for i, k := range keys {
		snapshot[i] = r.observers[k]
	}
	r.mu.RUnlock()

	var failures []ObserverError
	for i, observer := range snapshot {
		if err := invoke(ctx, observer, event); err != nil {
			failures = append(failures, ObserverError{Key: keys[i], Err: err})
		}
	}
	return failures
}

func invoke(ctx context.Context, observer Observer, event TickEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return observer(ctx, event)
}
