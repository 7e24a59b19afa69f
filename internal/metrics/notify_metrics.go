package metrics

import "github.com/prometheus/client_golang/prometheus"

// Notification metrics
var (
	NotificationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_total",
		Help:      "Refresh notifications delivered by channel and result",
	}, []string{"channel", "result"})

	WebsocketClients = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "websocket_clients",
		Help:      "Connected websocket clients",
	})

	LastTickBetsUpdated = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "last_tick_bets_updated",
		Help:      "Bets repriced by the most recent refresh tick",
	})

	LastTickSportsRefreshed = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "last_tick_sports_refreshed",
		Help:      "Sports fetched by the most recent refresh tick",
	})
)

// RecordNotification counts one delivery attempt on a channel
func RecordNotification(channel string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	NotificationsTotal.WithLabelValues(channel, result).Inc()
}

// UpdateWebsocketClients sets the connected client count
func UpdateWebsocketClients(n int) {
	WebsocketClients.Set(float64(n))
}

// UpdateLastTick records the size of the most recent tick
func UpdateLastTick(sportsRefreshed, betsUpdated int) {
	LastTickSportsRefreshed.Set(float64(sportsRefreshed))
	LastTickBetsUpdated.Set(float64(betsUpdated))
}
