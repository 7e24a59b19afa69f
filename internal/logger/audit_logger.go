// Package logger provides audit logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// AuditLogger provides dedicated audit trail logging for record changes.
type AuditLogger struct {
	*logrus.Entry
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(baseLogger *logrus.Logger) *AuditLogger {
	return &AuditLogger{
		Entry: baseLogger.WithField("component", "audit"),
	}
}

// LogBetOddsChange logs a bet repriced from the provider.
func (al *AuditLogger) LogBetOddsChange(betID int64, team, oldOdds, newOdds string) {
	al.WithFields(logrus.Fields{
		"bet_id":   betID,
		"team":     team,
		"old_odds": oldOdds,
		"new_odds": newOdds,
	}).Info("Bet odds updated")
}

// LogParlayTotalsChange logs a parlay whose totals were recomputed.
func (al *AuditLogger) LogParlayTotalsChange(parlayID int64, oldOdds, newOdds string, oldPayout, newPayout float64) {
	al.WithFields(logrus.Fields{
		"parlay_id":  parlayID,
		"old_odds":   oldOdds,
		"new_odds":   newOdds,
		"old_payout": oldPayout,
		"new_payout": newPayout,
	}).Info("Parlay totals updated")
}

// LogCatalogImport logs records created by a catalog sync.
func (al *AuditLogger) LogCatalogImport(sport string, teamsCreated, betsCreated int) {
	al.WithFields(logrus.Fields{
		"sport":         sport,
		"teams_created": teamsCreated,
		"bets_created":  betsCreated,
	}).Info("Catalog imported")
}
