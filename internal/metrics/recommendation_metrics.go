// Package metrics defines recommendation-specific metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Recommendation counter vectors
var (
	RecommendationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "recommendations_total",
		Help:      "Total number of recommendations returned by profile",
	}, []string{"profile"})

	CombinationsEvaluatedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "combinations_evaluated_total",
		Help:      "Total number of leg sets scored by profile",
	}, []string{"profile"})

	ValueBetsFoundTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "value_bets_found_total",
		Help:      "Total number of value bets included in betting plans",
	})
)

// Recommendation histogram vectors
var (
	RecommendationDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "recommendation_duration_seconds",
		Help:      "Time taken to build recommendations",
		Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	}, []string{"operation"})
)

// RecordProfileEvaluation records the leg sets considered and recommendations returned for a profile.
func RecordProfileEvaluation(profile string, evaluated, accepted int) {
	CombinationsEvaluatedTotal.WithLabelValues(profile).Add(float64(evaluated))
	RecommendationsTotal.WithLabelValues(profile).Add(float64(accepted))
}

// RecordValueBets records value bets found for a plan.
func RecordValueBets(count int) {
	ValueBetsFoundTotal.Add(float64(count))
}

// RecordRecommendationDuration records how long an operation took.
func RecordRecommendationDuration(operation string, durationSeconds float64) {
	RecommendationDuration.WithLabelValues(operation).Observe(durationSeconds)
}
