package models

// LegCandidate is one bettable outcome considered for a recommendation
type LegCandidate struct {
	ID               int64   `json:"id"`
	Name             string  `json:"name"`
	Sport            string  `json:"sport"`
	SportID          int64   `json:"sport_id,omitempty"`
	AmericanOdds     string  `json:"american_odds,omitempty"`
	DecimalOdds      float64 `json:"decimal_odds"`
	Probability      float64 `json:"probability"`
	CorrelationGroup string  `json:"correlation_group,omitempty"`
}

// Group returns the correlation group, falling back to the sport tag
func (l LegCandidate) Group() string {
	if l.CorrelationGroup != "" {
		return l.CorrelationGroup
	}
	return l.Sport
}

// Valid reports whether the leg carries usable odds and probability
func (l LegCandidate) Valid() bool {
	return l.DecimalOdds > 1.0 && l.Probability > 0 && l.Probability < 1
}
