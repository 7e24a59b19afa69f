package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GianisonBoekhoudt/bettingbuddy/internal/logger"
)

func TestScheduleRejectsBadSpec(t *testing.T) {
	s := NewScheduler(logger.NewNopLogger())
	err := s.Schedule("sync", "not a spec", time.Second, func(context.Context) error { return nil })
	assert.Error(t, err)
}

func TestStartRequiresJobs(t *testing.T) {
	s := NewScheduler(logger.NewNopLogger())
	assert.ErrorIs(t, s.Start(), ErrNoJobs)
}

func TestScheduledJobRuns(t *testing.T) {
	s := NewScheduler(logger.NewNopLogger())
	ran := make(chan struct{}, 1)

	require.NoError(t, s.Schedule("sync", "@every 1s", time.Second, func(ctx context.Context) error {
		_, hasDeadline := ctx.Deadline()
		assert.True(t, hasDeadline)
		select {
		case ran <- struct{}{}:
		default:
		}
		return errors.New("logged, not fatal")
	}))
	assert.ErrorContains(t, s.Schedule("sync", "@every 1s", time.Second, nil), "already scheduled")

	require.NoError(t, s.Start())
	defer s.Stop()
	assert.ErrorIs(t, s.Start(), ErrAlreadyRunning)
	assert.ErrorIs(t, s.Remove("sync"), ErrRunning)
	assert.False(t, s.NextRun("sync").IsZero())

	select {
	case <-ran:
	case <-time.After(3 * time.Second):
		t.Fatal("job did not run")
	}
}

func TestStopIsIdempotent(t *testing.T) {
	s := NewScheduler(logger.NewNopLogger())
	require.NoError(t, s.Schedule("sync", "@every 1h", time.Second, func(context.Context) error { return nil }))
	require.NoError(t, s.Start())

	s.Stop()
	s.Stop()
	assert.False(t, s.IsRunning())
	assert.True(t, s.NextRun("sync").IsZero())
	assert.NoError(t, s.Remove("sync"))
}
