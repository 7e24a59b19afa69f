// Package notify fans completed refresh ticks out to websocket clients,
// a redis stream and the metrics registry.
package notify

import (
	"context"
	"time"

	"github.com/GianisonBoekhoudt/bettingbuddy/internal/metrics"
	"github.com/GianisonBoekhoudt/bettingbuddy/internal/refresh"
)

// MessageOddsRefreshed is the message type pushed after each refresh tick
const MessageOddsRefreshed = "odds_refreshed"

// Message is the payload delivered to clients and the stream
type Message struct {
	Type            string    `json:"type"`
	TickID          string    `json:"tick_id"`
	At              time.Time `json:"at"`
	SportsRefreshed []string  `json:"sports_refreshed,omitempty"`
	BetsUpdated     int       `json:"bets_updated"`
	ParlaysUpdated  int       `json:"parlays_updated"`
}

// NewTickMessage builds the odds_refreshed message for a tick
func NewTickMessage(event refresh.TickEvent) Message {
	return Message{
		Type:            MessageOddsRefreshed,
		TickID:          event.ID,
		At:              event.FinishedAt.UTC(),
		SportsRefreshed: event.SportsRefreshed,
		BetsUpdated:     event.BetsUpdated,
		ParlaysUpdated:  event.ParlaysUpdated,
	}
}

// MetricsObserver records the size of each tick in the metrics registry
func MetricsObserver() refresh.Observer {
	return func(_ context.Context, event refresh.TickEvent) error {
		metrics.UpdateLastTick(len(event.SportsRefreshed), event.BetsUpdated)
		return nil
	}
}
