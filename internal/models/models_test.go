package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBetMatchesTeam(t *testing.T) {
	bet := &BetRecord{TeamName: "Lakers"}

	assert.True(t, bet.MatchesTeam("Los Angeles Lakers"))
	assert.True(t, bet.MatchesTeam("LOS ANGELES LAKERS"))
	assert.False(t, bet.MatchesTeam("Boston Celtics"))
	assert.False(t, (&BetRecord{}).MatchesTeam("Boston Celtics"))
}

func TestBetIsOpen(t *testing.T) {
	tests := []struct {
		name string
		bet  BetRecord
		want bool
	}{
		{"pending active", BetRecord{Active: true, Status: BetStatusPending}, true},
		{"blank status", BetRecord{Active: true}, true},
		{"settled", BetRecord{Active: true, Status: BetStatusWon}, false},
		{"inactive", BetRecord{Status: BetStatusPending}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.bet.IsOpen())
		})
	}
}

func TestEventHeadToHead(t *testing.T) {
	event := Event{
		HomeTeam: "Miami Heat",
		AwayTeam: "Orlando Magic",
		Bookmakers: []Bookmaker{
			{Key: "fanduel", Markets: []Market{{Key: "spreads"}, {Key: MarketHeadToHead, Outcomes: []Outcome{{Name: "Miami Heat", Price: 1.8}}}}},
			{Key: "draftkings", Markets: []Market{{Key: MarketHeadToHead}}},
		},
	}

	market, ok := event.HeadToHead()
	assert.True(t, ok)
	assert.Len(t, market.Outcomes, 1)

	assert.True(t, event.Involves(&BetRecord{TeamName: "Magic"}))
	assert.False(t, event.Involves(&BetRecord{TeamName: "Knicks"}))

	_, ok = (&Event{}).HeadToHead()
	assert.False(t, ok)
}

func TestLegCandidate(t *testing.T) {
	leg := LegCandidate{Sport: "NBA", DecimalOdds: 1.9, Probability: 0.52}
	assert.Equal(t, "NBA", leg.Group())
	assert.True(t, leg.Valid())

	leg.CorrelationGroup = "nba-east"
	assert.Equal(t, "nba-east", leg.Group())

	assert.False(t, LegCandidate{DecimalOdds: 1.0, Probability: 0.5}.Valid())
	assert.False(t, LegCandidate{DecimalOdds: 2.0, Probability: 1}.Valid())
}

func TestParlayIsActive(t *testing.T) {
	assert.True(t, (&ParlayRecord{}).IsActive())
	assert.False(t, (&ParlayRecord{Status: BetStatusLost}).IsActive())
}
