// Package metrics provides the centralized Prometheus metrics registry for BettingBuddy.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "bettingbuddy"

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	RefreshTicksTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "refresh_ticks_total",
		Help:      "Total number of odds refresh ticks by outcome",
	}, []string{"outcome"})
	SportRefreshesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sport_refreshes_total",
		Help:      "Per-sport refresh attempts by result",
	}, []string{"sport", "result"})
	BetOddsUpdatesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bet_odds_updates_total",
		Help:      "Total number of bets repriced by the refresh loop",
	})
	ParlayUpdatesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "parlay_updates_total",
		Help:      "Total number of parlays whose totals were recomputed and saved",
	})
	ObserverFailuresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "observer_failures_total",
		Help:      "Total number of refresh observer failures",
	}, []string{"observer"})
)

// Gauge metrics
var (
	SchedulerRunning = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "refresh_scheduler_running",
		Help:      "1 while the odds refresh loop is running",
	})
	ActiveBets = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_bets",
		Help:      "Active bets seen by the last refresh tick",
	})
	LastRefreshTimestamp = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "last_refresh_timestamp_seconds",
		Help:      "Unix time of the last completed refresh tick",
	})
)

// Histogram metrics
var (
	RefreshTickDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "refresh_tick_duration_seconds",
		Help:      "Duration of a full odds refresh tick",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		// Register refresh metrics
		registry.MustRegister(RefreshTicksTotal)
		registry.MustRegister(SportRefreshesTotal)
		registry.MustRegister(BetOddsUpdatesTotal)
		registry.MustRegister(ParlayUpdatesTotal)
		registry.MustRegister(ObserverFailuresTotal)
		registry.MustRegister(SchedulerRunning)
		registry.MustRegister(ActiveBets)
		registry.MustRegister(LastRefreshTimestamp)
		registry.MustRegister(RefreshTickDuration)

		// Register recommendation metrics
		registry.MustRegister(RecommendationsTotal)
		registry.MustRegister(CombinationsEvaluatedTotal)
		registry.MustRegister(ValueBetsFoundTotal)
		registry.MustRegister(RecommendationDuration)

		// Register provider metrics
		registry.MustRegister(ProviderRequestsTotal)
		registry.MustRegister(ProviderRequestDuration)
		registry.MustRegister(ProviderCacheTotal)
		registry.MustRegister(ProviderCircuitOpen)

		// Register notification metrics
		registry.MustRegister(NotificationsTotal)
		registry.MustRegister(WebsocketClients)
		registry.MustRegister(LastTickBetsUpdated)
		registry.MustRegister(LastTickSportsRefreshed)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordRefreshTick records a completed or failed refresh tick.
func RecordRefreshTick(outcome string, durationSeconds float64) {
	RefreshTicksTotal.WithLabelValues(outcome).Inc()
	RefreshTickDuration.Observe(durationSeconds)
}

// RecordSportRefresh records a per-sport refresh result (refreshed, skipped, failed).
func RecordSportRefresh(sport, result string) {
	SportRefreshesTotal.WithLabelValues(sport, result).Inc()
}

// RecordBetOddsUpdate records a repriced bet.
func RecordBetOddsUpdate() {
	BetOddsUpdatesTotal.Inc()
}

// RecordParlayUpdate records a parlay whose totals changed.
func RecordParlayUpdate() {
	ParlayUpdatesTotal.Inc()
}

// RecordObserverFailure records an observer error or panic.
func RecordObserverFailure(observer string) {
	ObserverFailuresTotal.WithLabelValues(observer).Inc()
}

// UpdateSchedulerRunning sets the running gauge.
func UpdateSchedulerRunning(running bool) {
	if running {
		SchedulerRunning.Set(1)
		return
	}
	SchedulerRunning.Set(0)
}

// UpdateActiveBets sets the active bet gauge.
func UpdateActiveBets(count int) {
	ActiveBets.Set(float64(count))
}

// UpdateLastRefresh sets the last refresh timestamp gauge.
func UpdateLastRefresh(unixSeconds float64) {
	LastRefreshTimestamp.Set(unixSeconds)
}
