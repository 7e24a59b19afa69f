package models

// Recommendation is a scored single bet or parlay for one threshold profile.
// WinProbability is expressed as a percentage (0-100).
type Recommendation struct {
	ProfileName          string         `json:"recommendation_type"`
	Legs                 []LegCandidate `json:"bets"`
	LegCount             int            `json:"leg_count"`
	CombinedDecimalOdds  float64        `json:"decimal_odds"`
	CombinedAmericanOdds string         `json:"american_odds"`
	WinProbability       float64        `json:"win_probability"`
	ExpectedValue        float64        `json:"expected_value"`
}
