// Package odds converts between American and decimal odds and derives
// probabilities and expected value from them.
package odds

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrInvalidOddsFormat is returned when an American odds string cannot be parsed
	ErrInvalidOddsFormat = errors.New("invalid american odds format")
	// ErrInvalidOddsValue is returned when a decimal odds value is outside (1, +Inf)
	ErrInvalidOddsValue = errors.New("invalid decimal odds value")
)

// EvenMoney is the decimal price at which American odds switch sign.
const EvenMoney = 2.0

// ToDecimal converts an American odds string such as "+150" or "-200" to decimal odds.
func ToDecimal(american string) (float64, error) {
	s := strings.TrimSpace(american)
	if s == "" {
		return 0, fmt.Errorf("%w: empty string", ErrInvalidOddsFormat)
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidOddsFormat, american)
	}
	value := float64(n)
	if value == 0 {
		return 0, fmt.Errorf("%w: %q has zero magnitude", ErrInvalidOddsFormat, american)
	}

	if value > 0 {
		return value/100 + 1, nil
	}
	return 100/math.Abs(value) + 1, nil
}

// ToAmerican converts decimal odds to an American odds string.
// Prices at or above even money are positive.
func ToAmerican(decimal float64) (string, error) {
	if math.IsNaN(decimal) || math.IsInf(decimal, 0) || decimal <= 1.0 {
		return "", fmt.Errorf("%w: %v", ErrInvalidOddsValue, decimal)
	}

	if decimal >= EvenMoney {
		return fmt.Sprintf("+%d", int64(math.Round((decimal-1)*100))), nil
	}
	return fmt.Sprintf("-%d", int64(math.Round(100/(decimal-1)))), nil
}

// ImpliedProbability returns the bookmaker's break-even probability for decimal odds.
func ImpliedProbability(decimal float64) float64 {
	if decimal <= 0 {
		return 0
	}
	return 1 / decimal
}

// ExpectedValue returns probability × decimal odds − 1 for a unit stake.
func ExpectedValue(decimal, probability float64) float64 {
	return probability*decimal - 1
}

// FairAmerican returns the American odds that exactly price the given probability.
// A non-positive probability is priced at decimal 100.
func FairAmerican(probability float64) (string, error) {
	fair := 100.0
	if probability > 0 {
		fair = 1 / probability
	}
	return ToAmerican(fair)
}
