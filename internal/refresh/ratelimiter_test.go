package refresh

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiterIntervals(t *testing.T) {
	limiter := NewRateLimiter(nil, 0)

	assert.Equal(t, 30*time.Minute, limiter.MinInterval("basketball_nba"))
	assert.Equal(t, 2*time.Hour, limiter.MinInterval("mma_mixed_martial_arts"))
	assert.Equal(t, DefaultMinInterval, limiter.MinInterval("soccer_epl"))
}

func TestRateLimiterDue(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(map[string]time.Duration{"basketball_nba": 30 * time.Minute}, time.Hour)
	limiter.setClock(func() time.Time { return now })

	assert.True(t, limiter.Due("basketball_nba"), "never refreshed sports are due")

	limiter.Mark("basketball_nba")
	assert.False(t, limiter.Due("basketball_nba"))

	now = now.Add(30 * time.Minute)
	assert.True(t, limiter.Due("basketball_nba"), "exactly one interval later is due")

	limiter.MarkAt("soccer_epl", now.Add(-59*time.Minute))
	assert.False(t, limiter.Due("soccer_epl"))
	now = now.Add(time.Minute)
	assert.True(t, limiter.Due("soccer_epl"))
}

func TestRateLimiterSnapshotIsCopy(t *testing.T) {
	limiter := NewRateLimiter(nil, 0)
	limiter.Mark("icehockey_nhl")

	snap := limiter.Snapshot()
	delete(snap, "icehockey_nhl")

	assert.Len(t, limiter.Snapshot(), 1)

	limiter.Reset()
	assert.Empty(t, limiter.Snapshot())
	assert.True(t, limiter.Due("icehockey_nhl"))
}
