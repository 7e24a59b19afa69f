package models

import "time"

// ParlayRecord is a stored multi-leg bet
type ParlayRecord struct {
	ID              int64     `db:"id" json:"id"`
	LegBetIDs       []int64   `json:"leg_bet_ids" validate:"required,min=2"`
	Stake           float64   `db:"stake" json:"stake" validate:"gte=0"`
	TotalOdds       string    `db:"total_odds" json:"total_odds"` // American format
	PotentialPayout float64   `db:"potential_payout" json:"potential_payout"`
	Status          BetStatus `db:"status" json:"status"`
	Notes           string    `db:"notes" json:"notes,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// IsActive reports whether the parlay still depends on live odds
func (p *ParlayRecord) IsActive() bool {
	return p.Status == "" || p.Status == BetStatusPending
}
