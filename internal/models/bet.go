package models

import (
	"strings"
	"time"
)

// BetStatus represents the status of a bet
type BetStatus string

const (
	BetStatusPending   BetStatus = "pending"
	BetStatusWon       BetStatus = "won"
	BetStatusLost      BetStatus = "lost"
	BetStatusCancelled BetStatus = "cancelled"
)

// BetRecord is a stored moneyline bet on one team
type BetRecord struct {
	ID           int64      `db:"id" json:"id"`
	TeamID       int64      `db:"team_id" json:"team_id" validate:"required,gt=0"`
	TeamName     string     `db:"team_name" json:"team_name"`
	SportID      int64      `db:"sport_id" json:"sport_id"`
	SportName    string     `db:"sport_name" json:"sport_name"`
	Odds         string     `db:"odds" json:"odds" validate:"required"` // American format, e.g. "+150"
	Description  string     `db:"description" json:"description,omitempty"`
	EventDate    *time.Time `db:"event_date" json:"event_date,omitempty"`
	CommenceTime *time.Time `db:"commence_time" json:"commence_time,omitempty"`
	Status       BetStatus  `db:"status" json:"status"`
	Result       string     `db:"result" json:"result,omitempty"`
	Active       bool       `db:"active" json:"active"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
}

// IsOpen reports whether the bet is still awaiting a result
func (b *BetRecord) IsOpen() bool {
	return b.Active && (b.Status == "" || b.Status == BetStatusPending)
}

// MatchesTeam reports whether this bet's team name appears in name,
// ignoring case.
func (b *BetRecord) MatchesTeam(name string) bool {
	if b.TeamName == "" {
		return false
	}
	return strings.Contains(strings.ToLower(name), strings.ToLower(b.TeamName))
}
