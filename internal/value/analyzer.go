// Package value finds bets whose estimated true probability beats the
// bookmaker's price and sizes stakes for them.
package value

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/GianisonBoekhoudt/bettingbuddy/internal/odds"
)

const (
	DefaultMinEdge             = 0.05
	DefaultConfidenceThreshold = 0.6
	DefaultMaxValueBets        = 5
	DefaultParlayLegs          = 3
	// MaxKellyFraction caps any Kelly stake at 20% of bankroll
	MaxKellyFraction = 0.2
)

// ErrInvalidProbability is returned for a true probability outside [0, 1)
var ErrInvalidProbability = errors.New("true probability must be in [0, 1)")

// Analysis describes how one price compares to an estimated true probability.
// ExpectedValuePct and EdgePct are percentages.
type Analysis struct {
	IsValueBet       bool    `json:"is_value_bet"`
	ExpectedValuePct float64 `json:"ev"`
	EdgePct          float64 `json:"edge"`
	FairAmericanOdds string  `json:"fair_odds"`
	Confidence       float64 `json:"confidence"`
}

// Candidate is a bet offered for value analysis
type Candidate struct {
	TeamName         string     `json:"team_name"`
	Sport            string     `json:"sport"`
	Odds             string     `json:"odds"`
	TrueProbability  float64    `json:"true_probability"`
	EventDate        *time.Time `json:"event_date,omitempty"`
	CorrelationGroup string     `json:"correlation_group,omitempty"`
}

// Group returns the correlation group used when building parlays
func (c Candidate) Group() string {
	if c.CorrelationGroup != "" {
		return c.CorrelationGroup
	}
	return c.Sport
}

// ValueBet is an analyzed candidate, optionally with a stake attached
type ValueBet struct {
	Candidate
	Analysis
	DecimalOdds          float64 `json:"decimal_odds"`
	RecommendedStake     float64 `json:"recommended_stake,omitempty"`
	PercentageOfBankroll float64 `json:"percentage_of_bankroll,omitempty"`
}

// ParlaySuggestion is a low-correlation parlay assembled from value bets
type ParlaySuggestion struct {
	Bets                []ValueBet `json:"bets"`
	CombinedProbability float64    `json:"combined_probability"`
	FairOdds            string     `json:"fair_odds"`
	BookmakerOdds       string     `json:"bookmaker_odds"`
	DecimalOdds         float64    `json:"decimal_odds"`
	ExpectedValuePct    float64    `json:"ev"`
	IsValueParlay       bool       `json:"is_value_parlay"`
	RecommendedStake    float64    `json:"recommended_stake,omitempty"`
}

// Analyzer scores prices against true probabilities
type Analyzer struct {
	minEdge             float64
	confidenceThreshold float64
}

// NewAnalyzer creates an analyzer with a 5% minimum edge and 60% confidence threshold
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		minEdge:             DefaultMinEdge,
		confidenceThreshold: DefaultConfidenceThreshold,
	}
}

// SetParams updates the thresholds, clamping both to [0, 1]
func (a *Analyzer) SetParams(confidenceThreshold, minEdge float64) {
	a.confidenceThreshold = odds.Clamp(confidenceThreshold)
	a.minEdge = odds.Clamp(minEdge)
}

// MinEdge returns the minimum edge a value bet needs
func (a *Analyzer) MinEdge() float64 { return a.minEdge }

// ConfidenceThreshold returns the minimum true probability a value bet needs
func (a *Analyzer) ConfidenceThreshold() float64 { return a.confidenceThreshold }

// Analyze compares an American price to a true probability
func (a *Analyzer) Analyze(bookmakerOdds string, trueProbability float64) (Analysis, error) {
	if math.IsNaN(trueProbability) || trueProbability < 0 || trueProbability >= 1 {
		return Analysis{}, fmt.Errorf("%w: got %v", ErrInvalidProbability, trueProbability)
	}

	decimal, err := odds.ToDecimal(bookmakerOdds)
	if err != nil {
		return Analysis{}, err
	}

	fair, err := odds.FairAmerican(trueProbability)
	if err != nil {
		return Analysis{}, err
	}

	edge := trueProbability - odds.ImpliedProbability(decimal)
	ev := odds.ExpectedValue(decimal, trueProbability)

	return Analysis{
		IsValueBet:       edge >= a.minEdge && trueProbability >= a.confidenceThreshold,
		ExpectedValuePct: ev * 100,
		EdgePct:          edge * 100,
		FairAmericanOdds: fair,
		Confidence:       trueProbability * (1 + edge),
	}, nil
}

// FindBestValueBets analyzes candidates, orders them by confidence and
// returns at most maxBets value bets. Candidates without odds are skipped.
func (a *Analyzer) FindBestValueBets(candidates []Candidate, maxBets int) ([]ValueBet, error) {
	if maxBets <= 0 {
		maxBets = DefaultMaxValueBets
	}

	analyzed := make([]ValueBet, 0, len(candidates))
	for _, c := range candidates {
		if c.Odds == "" {
			continue
		}
		analysis, err := a.Analyze(c.Odds, c.TrueProbability)
		if err != nil {
			return nil, fmt.Errorf("failed to analyze %q: %w", c.TeamName, err)
		}
		decimal, _ := odds.ToDecimal(c.Odds)
		analyzed = append(analyzed, ValueBet{Candidate: c, Analysis: analysis, DecimalOdds: decimal})
	}

	sort.SliceStable(analyzed, func(i, j int) bool {
		return analyzed[i].Confidence > analyzed[j].Confidence
	})

	valueBets := make([]ValueBet, 0, maxBets)
	for _, vb := range analyzed {
		if !vb.IsValueBet {
			continue
		}
		valueBets = append(valueBets, vb)
		if len(valueBets) == maxBets {
			break
		}
	}
	return valueBets, nil
}

// KellyFraction returns the Kelly stake as a fraction of bankroll, scaled by
// multiplier and capped at MaxKellyFraction. A negative edge gives a negative fraction.
func (a *Analyzer) KellyFraction(decimalOdds, trueProbability, multiplier float64) float64 {
	b := decimalOdds - 1
	if b <= 0 {
		return 0
	}
	q := 1 - trueProbability
	kelly := (b*trueProbability - q) / b * multiplier
	return math.Min(kelly, MaxKellyFraction)
}

// TrueProbability blends a model probability with historical results
func (a *Analyzer) TrueProbability(history []bool, modelProbability float64) float64 {
	return odds.BlendWithHistory(modelProbability, history)
}

// SuggestParlay greedily builds a parlay from the highest-EV value bets,
// admitting at most one leg per correlation group. It returns nil when fewer
// than two legs qualify.
func (a *Analyzer) SuggestParlay(valueBets []ValueBet, maxLegs int) (*ParlaySuggestion, error) {
	if len(valueBets) < 2 {
		return nil, nil
	}
	if maxLegs <= 0 {
		maxLegs = DefaultParlayLegs
	}

	sorted := make([]ValueBet, len(valueBets))
	copy(sorted, valueBets)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ExpectedValuePct > sorted[j].ExpectedValuePct
	})

	legs := []ValueBet{sorted[0]}
	groups := map[string]bool{sorted[0].Group(): true}
	for _, vb := range sorted[1:] {
		if len(legs) >= maxLegs {
			break
		}
		if groups[vb.Group()] {
			continue
		}
		legs = append(legs, vb)
		groups[vb.Group()] = true
	}
	if len(legs) < 2 {
		return nil, nil
	}

	combinedProb := 1.0
	combinedOdds := 1.0
	for _, leg := range legs {
		combinedProb *= leg.TrueProbability
		combinedOdds *= leg.DecimalOdds
	}

	fair, err := odds.FairAmerican(combinedProb)
	if err != nil {
		return nil, err
	}
	bookmaker, err := odds.ToAmerican(combinedOdds)
	if err != nil {
		return nil, err
	}
	ev := odds.ExpectedValue(combinedOdds, combinedProb)

	return &ParlaySuggestion{
		Bets:                legs,
		CombinedProbability: combinedProb,
		FairOdds:            fair,
		BookmakerOdds:       bookmaker,
		DecimalOdds:         combinedOdds,
		ExpectedValuePct:    ev * 100,
		IsValueParlay:       ev > 0,
	}, nil
}
