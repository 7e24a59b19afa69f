// Package logger provides odds refresh logging.
package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// RefreshLogger provides dedicated logging for the odds refresh loop.
type RefreshLogger struct {
	*logrus.Entry
}

// NewRefreshLogger creates a new refresh logger.
func NewRefreshLogger(baseLogger *logrus.Logger) *RefreshLogger {
	return &RefreshLogger{
		Entry: baseLogger.WithField("component", "refresh"),
	}
}

// LogSchedulerStarted logs the start of the background loop.
func (rl *RefreshLogger) LogSchedulerStarted(interval time.Duration) {
	rl.WithFields(logrus.Fields{
		"interval_seconds": interval.Seconds(),
		"event_type":       "start",
	}).Info("Odds refresh scheduler started")
}

// LogSchedulerStopped logs the end of the background loop.
func (rl *RefreshLogger) LogSchedulerStopped(graceful bool) {
	entry := rl.WithFields(logrus.Fields{
		"event_type": "stop",
		"graceful":   graceful,
	})
	if graceful {
		entry.Info("Odds refresh scheduler stopped")
		return
	}
	entry.Warn("Odds refresh scheduler did not stop within timeout")
}

// LogTickStarted logs the beginning of a refresh tick.
func (rl *RefreshLogger) LogTickStarted(tickID string, activeBets, sports int) {
	rl.WithFields(logrus.Fields{
		"tick_id":     tickID,
		"active_bets": activeBets,
		"sports":      sports,
	}).Debug("Refresh tick started")
}

// LogSportSkipped logs a sport left untouched this tick.
func (rl *RefreshLogger) LogSportSkipped(tickID, sport, reason string) {
	rl.WithFields(logrus.Fields{
		"tick_id": tickID,
		"sport":   sport,
		"reason":  reason,
	}).Debug("Sport skipped")
}

// LogSportFailed logs a sport whose odds could not be refreshed.
func (rl *RefreshLogger) LogSportFailed(tickID, sport string, err error) {
	rl.WithFields(logrus.Fields{
		"tick_id": tickID,
		"sport":   sport,
	}).WithError(err).Warn("Sport refresh failed")
}

// LogSportRefreshed logs a completed sport refresh.
func (rl *RefreshLogger) LogSportRefreshed(tickID, sport string, events, betsUpdated int) {
	rl.WithFields(logrus.Fields{
		"tick_id":      tickID,
		"sport":        sport,
		"events":       events,
		"bets_updated": betsUpdated,
	}).Info("Sport odds refreshed")
}

// LogTickCompleted logs the summary of a refresh tick.
func (rl *RefreshLogger) LogTickCompleted(tickID string, duration time.Duration, sportsRefreshed, betsUpdated, parlaysUpdated int) {
	rl.WithFields(logrus.Fields{
		"tick_id":          tickID,
		"duration_ms":      duration.Milliseconds(),
		"sports_refreshed": sportsRefreshed,
		"bets_updated":     betsUpdated,
		"parlays_updated":  parlaysUpdated,
	}).Info("Refresh tick completed")
}

// LogStoreFailure logs a store read that ended the tick early.
func (rl *RefreshLogger) LogStoreFailure(tickID, operation string, err error) {
	rl.WithFields(logrus.Fields{
		"tick_id":   tickID,
		"operation": operation,
	}).WithError(err).Error("Refresh store read failed")
}

// LogTickFailed logs an aborted tick and the backoff before the next attempt.
func (rl *RefreshLogger) LogTickFailed(err error, backoff time.Duration) {
	rl.WithFields(logrus.Fields{
		"backoff_seconds": backoff.Seconds(),
	}).WithError(err).Error("Refresh tick failed")
}

// LogObserverFailure logs an observer that returned an error or panicked.
func (rl *RefreshLogger) LogObserverFailure(tickID, observerKey string, err error) {
	rl.WithFields(logrus.Fields{
		"tick_id":  tickID,
		"observer": observerKey,
	}).WithError(err).Error("Refresh observer failed")
}
