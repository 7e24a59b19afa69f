package models

import "time"

// MarketHeadToHead is the provider key for moneyline markets
const MarketHeadToHead = "h2h"

// ProviderSport is a sport listed by the odds provider
type ProviderSport struct {
	Key          string `json:"key"`
	Group        string `json:"group"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Active       bool   `json:"active"`
	HasOutrights bool   `json:"has_outrights"`
}

// Event is one fixture with bookmaker prices
type Event struct {
	ID           string      `json:"id"`
	SportKey     string      `json:"sport_key"`
	SportTitle   string      `json:"sport_title"`
	CommenceTime time.Time   `json:"commence_time"`
	HomeTeam     string      `json:"home_team"`
	AwayTeam     string      `json:"away_team"`
	Bookmakers   []Bookmaker `json:"bookmakers"`
}

// Bookmaker holds one bookmaker's markets for an event
type Bookmaker struct {
	Key        string    `json:"key"`
	Title      string    `json:"title"`
	LastUpdate time.Time `json:"last_update"`
	Markets    []Market  `json:"markets"`
}

// Market is a set of outcomes priced together
type Market struct {
	Key      string    `json:"key"`
	Outcomes []Outcome `json:"outcomes"`
}

// Outcome is a single priced result; Price is decimal odds
type Outcome struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// HeadToHead returns the first bookmaker's h2h market, if any
func (e *Event) HeadToHead() (*Market, bool) {
	if len(e.Bookmakers) == 0 {
		return nil, false
	}
	for i := range e.Bookmakers[0].Markets {
		if e.Bookmakers[0].Markets[i].Key == MarketHeadToHead {
			return &e.Bookmakers[0].Markets[i], true
		}
	}
	return nil, false
}

// Involves reports whether a bet's team plays in this event
func (e *Event) Involves(bet *BetRecord) bool {
	return bet.MatchesTeam(e.HomeTeam) || bet.MatchesTeam(e.AwayTeam)
}
