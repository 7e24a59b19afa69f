package value

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/GianisonBoekhoudt/bettingbuddy/internal/odds"
)

// BankrollStrategy selects how stakes are sized
type BankrollStrategy string

const (
	StrategyKelly      BankrollStrategy = "kelly"
	StrategyFlat       BankrollStrategy = "flat"
	StrategyPercentage BankrollStrategy = "percentage"
)

const (
	DefaultStakePercentage = 0.02
	DefaultKellyFraction   = 0.5
	// ParlayStakePercentage is the bankroll share staked on a value parlay
	ParlayStakePercentage = 0.01
	// MaxPercentageStake caps edge-adjusted percentage stakes
	MaxPercentageStake = 0.1
)

// ErrInvalidBankroll is returned when a plan is requested for a non-positive bankroll
var ErrInvalidBankroll = errors.New("bankroll must be positive")

// Plan is a set of staked value bets plus an optional parlay
type Plan struct {
	ValueBets                []ValueBet        `json:"value_bets"`
	ParlaySuggestion         *ParlaySuggestion `json:"parlay_suggestion"`
	TotalRecommendedExposure float64           `json:"total_recommended_exposure"`
	Bankroll                 float64           `json:"bankroll"`
}

// Strategy turns value analysis into stakes
type Strategy struct {
	analyzer        *Analyzer
	bankroll        BankrollStrategy
	stakePercentage float64
	kellyFraction   float64
	maxValueBets    int
	parlayLegs      int
}

// NewStrategy creates a half-Kelly strategy. A nil analyzer gets the defaults.
func NewStrategy(analyzer *Analyzer) *Strategy {
	if analyzer == nil {
		analyzer = NewAnalyzer()
	}
	return &Strategy{
		analyzer:        analyzer,
		bankroll:        StrategyKelly,
		stakePercentage: DefaultStakePercentage,
		kellyFraction:   DefaultKellyFraction,
		maxValueBets:    DefaultMaxValueBets,
		parlayLegs:      DefaultParlayLegs,
	}
}

// Analyzer returns the analyzer backing this strategy
func (s *Strategy) Analyzer() *Analyzer { return s.analyzer }

// SetBankrollStrategy picks the sizing method. The stake percentage is clamped
// to [0.01, 0.1] and the Kelly fraction to [0.1, 1.0].
func (s *Strategy) SetBankrollStrategy(strategy BankrollStrategy, stakePercentage, kellyFraction float64) {
	s.bankroll = strategy
	s.stakePercentage = math.Max(0.01, math.Min(0.1, stakePercentage))
	s.kellyFraction = math.Max(0.1, math.Min(1.0, kellyFraction))
}

// SetParlayLegs sets the maximum legs of the suggested parlay
func (s *Strategy) SetParlayLegs(n int) {
	if n >= 2 {
		s.parlayLegs = n
	}
}

// BetSize returns the unrounded stake for one bet
func (s *Strategy) BetSize(bankroll float64, american string, trueProbability float64) (float64, error) {
	switch s.bankroll {
	case StrategyKelly:
		d, err := odds.ToDecimal(american)
		if err != nil {
			return 0, err
		}
		return bankroll * math.Max(0, s.analyzer.KellyFraction(d, trueProbability, s.kellyFraction)), nil

	case StrategyPercentage:
		analysis, err := s.analyzer.Analyze(american, trueProbability)
		if err != nil {
			return 0, err
		}
		adjusted := s.stakePercentage * (1 + analysis.EdgePct/100)
		return bankroll * math.Min(adjusted, MaxPercentageStake), nil
	}

	return bankroll * s.stakePercentage, nil
}

// GenerateBettingPlan selects value bets, stakes each one and suggests a parlay.
// Parlay stakes are not counted in the total exposure.
func (s *Strategy) GenerateBettingPlan(bankroll float64, candidates []Candidate) (*Plan, error) {
	if bankroll <= 0 || math.IsNaN(bankroll) || math.IsInf(bankroll, 0) {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidBankroll, bankroll)
	}

	valueBets, err := s.analyzer.FindBestValueBets(candidates, s.maxValueBets)
	if err != nil {
		return nil, err
	}

	exposure := decimal.Zero
	for i := range valueBets {
		size, err := s.BetSize(bankroll, valueBets[i].Odds, valueBets[i].TrueProbability)
		if err != nil {
			return nil, fmt.Errorf("failed to size stake for %q: %w", valueBets[i].TeamName, err)
		}
		stake := decimal.NewFromFloat(size).Round(2)
		valueBets[i].RecommendedStake = stake.InexactFloat64()
		valueBets[i].PercentageOfBankroll = size / bankroll * 100
		exposure = exposure.Add(stake)
	}

	parlay, err := s.analyzer.SuggestParlay(valueBets, s.parlayLegs)
	if err != nil {
		return nil, fmt.Errorf("failed to suggest parlay: %w", err)
	}
	if parlay != nil && parlay.IsValueParlay {
		parlay.RecommendedStake = decimal.NewFromFloat(bankroll * ParlayStakePercentage).Round(2).InexactFloat64()
	}

	return &Plan{
		ValueBets:                valueBets,
		ParlaySuggestion:         parlay,
		TotalRecommendedExposure: exposure.InexactFloat64(),
		Bankroll:                 bankroll,
	}, nil
}
