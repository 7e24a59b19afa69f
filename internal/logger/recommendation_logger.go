// Package logger provides recommendation logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// RecommendationLogger logs recommendation and value analysis requests.
type RecommendationLogger struct {
	*logrus.Entry
}

// NewRecommendationLogger creates a new recommendation logger.
func NewRecommendationLogger(baseLogger *logrus.Logger) *RecommendationLogger {
	return &RecommendationLogger{
		Entry: baseLogger.WithField("component", "recommendation"),
	}
}

// LogRecommendationsServed logs how many results each profile produced.
func (rl *RecommendationLogger) LogRecommendationsServed(legs int, counts map[string]int, durationMs float64) {
	fields := logrus.Fields{
		"legs":        legs,
		"duration_ms": durationMs,
	}
	for profile, n := range counts {
		fields[profile] = n
	}
	rl.WithFields(fields).Info("Recommendations served")
}

// LogBettingPlan logs a generated betting plan.
func (rl *RecommendationLogger) LogBettingPlan(bankroll float64, candidates, valueBets int, exposure float64, hasParlay bool) {
	rl.WithFields(logrus.Fields{
		"bankroll":   bankroll,
		"candidates": candidates,
		"value_bets": valueBets,
		"exposure":   exposure,
		"has_parlay": hasParlay,
	}).Info("Betting plan generated")
}
