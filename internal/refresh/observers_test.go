package refresh

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryNotifiesInRegistrationOrder(t *testing.T) {
	registry := NewRegistry()
	var calls []string
	for _, key := range []string{"websocket", "redis", "metrics"} {
		key := key
		registry.Register(key, func(context.Context, TickEvent) error {
			calls = append(calls, key)
			return nil
		})
	}

	failures := registry.Notify(context.Background(), TickEvent{ID: "t1"})
	assert.Empty(t, failures)
	assert.Equal(t, []string{"websocket", "redis", "metrics"}, calls)
	assert.Equal(t, []string{"websocket", "redis", "metrics"}, registry.Keys())
}

func TestRegistryIsolatesFailures(t *testing.T) {
	registry := NewRegistry()
	reached := false

	registry.Register("erroring", func(context.Context, TickEvent) error {
		return errors.New("redis unavailable")
	})
	registry.Register("panicking", func(context.Context, TickEvent) error {
		panic("nil map")
	})
	registry.Register("healthy", func(context.Context, TickEvent) error {
		reached = true
		return nil
	})

	failures := registry.Notify(context.Background(), TickEvent{})
	require.Len(t, failures, 2)
	assert.Equal(t, "erroring", failures[0].Key)
	assert.Equal(t, "panicking", failures[1].Key)
	assert.Contains(t, failures[1].Error(), "nil map")
	assert.True(t, reached)
}

func TestObserverMayUnregisterItself(t *testing.T) {
	registry := NewRegistry()
	calls := 0
	registry.Register("once", func(context.Context, TickEvent) error {
		calls++
		registry.Unregister("once")
		return nil
	})

	registry.Notify(context.Background(), TickEvent{})
	registry.Notify(context.Background(), TickEvent{})

	assert.Equal(t, 1, calls)
	assert.False(t, registry.Unregister("once"))
}

func TestRegisterReplacesKeepingPosition(t *testing.T) {
	registry := NewRegistry()
	var calls []string
	registry.Register("a", func(context.Context, TickEvent) error { calls = append(calls, "a1"); return nil })
	registry.Register("b", func(context.Context, TickEvent) error { calls = append(calls, "b"); return nil })
	registry.Register("a", func(context.Context, TickEvent) error { calls = append(calls, "a2"); return nil })

	registry.Notify(context.Background(), TickEvent{})
	assert.Equal(t, []string{"a2", "b"}, calls)
}
