package odds

import (
	"math"

	"github.com/GianisonBoekhoudt/bettingbuddy/internal/models"
)

const (
	// HistorySamplesForFullWeight is the sample count at which history would reach full weight
	HistorySamplesForFullWeight = 20.0
	// MaxHistoryWeight caps how much historical results can move a model probability
	MaxHistoryWeight = 0.7
)

// Estimate returns the implied win probability (0.0-1.0) for an American odds string.
func Estimate(american string) (float64, error) {
	decimal, err := ToDecimal(american)
	if err != nil {
		return 0, err
	}
	return ImpliedProbability(decimal), nil
}

// EstimatePercent is Estimate expressed on the 0-100 scale used by recommendations.
func EstimatePercent(american string) (float64, error) {
	p, err := Estimate(american)
	if err != nil {
		return 0, err
	}
	return p * 100, nil
}

// BlendWithHistory mixes a model probability with an observed win rate.
// The historical weight grows with sample size up to MaxHistoryWeight.
func BlendWithHistory(modelProb float64, history []bool) float64 {
	if len(history) == 0 {
		return modelProb
	}

	wins := 0
	for _, won := range history {
		if won {
			wins++
		}
	}
	winRate := float64(wins) / float64(len(history))
	weight := math.Min(float64(len(history))/HistorySamplesForFullWeight, MaxHistoryWeight)

	return Clamp(weight*winRate + (1-weight)*modelProb)
}

// CombinedProbability returns the product of leg probabilities.
// Legs are treated as independent events.
func CombinedProbability(legs []models.LegCandidate) float64 {
	if len(legs) == 0 {
		return 0
	}
	p := 1.0
	for _, leg := range legs {
		p *= leg.Probability
	}
	return p
}

// CombinedOdds returns the product of leg decimal odds.
func CombinedOdds(legs []models.LegCandidate) float64 {
	if len(legs) == 0 {
		return 0
	}
	d := 1.0
	for _, leg := range legs {
		d *= leg.DecimalOdds
	}
	return d
}

// Clamp bounds a probability to [0, 1].
func Clamp(p float64) float64 {
	return math.Max(0, math.Min(1, p))
}
