// Package metrics defines odds provider metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Provider metrics
var (
	ProviderRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "provider_requests_total",
		Help:      "Odds provider requests by endpoint and status",
	}, []string{"endpoint", "status"})

	ProviderRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "provider_request_duration_seconds",
		Help:      "Odds provider request latency",
		Buckets:   prometheus.DefBuckets,
	}, []string{"endpoint"})

	ProviderCacheTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "provider_cache_total",
		Help:      "Odds provider cache lookups by result",
	}, []string{"result"})

	ProviderCircuitOpen = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "provider_circuit_open",
		Help:      "1 while the odds provider circuit breaker is open",
	})
)

// RecordProviderRequest records a provider call.
func RecordProviderRequest(endpoint, status string, durationSeconds float64) {
	ProviderRequestsTotal.WithLabelValues(endpoint, status).Inc()
	ProviderRequestDuration.WithLabelValues(endpoint).Observe(durationSeconds)
}

// RecordProviderCache records a cache hit or miss.
func RecordProviderCache(hit bool) {
	if hit {
		ProviderCacheTotal.WithLabelValues("hit").Inc()
		return
	}
	ProviderCacheTotal.WithLabelValues("miss").Inc()
}

// UpdateProviderCircuit sets the circuit breaker gauge.
func UpdateProviderCircuit(open bool) {
	if open {
		ProviderCircuitOpen.Set(1)
		return
	}
	ProviderCircuitOpen.Set(0)
}
