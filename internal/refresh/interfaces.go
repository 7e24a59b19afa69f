// Package refresh keeps bet and parlay odds current by polling the odds
// provider on a background loop and notifying observers after each pass.
package refresh

import (
	"context"

	"github.com/GianisonBoekhoudt/bettingbuddy/internal/models"
)

// Store is the part of the record store the refresh loop reads and writes
type Store interface {
	GetActiveBets(ctx context.Context) ([]models.BetRecord, error)
	GetBet(ctx context.Context, id int64) (*models.BetRecord, error)
	UpdateBetOdds(ctx context.Context, id int64, odds string) error
	GetActiveParlays(ctx context.Context) ([]models.ParlayRecord, error)
	UpdateParlayTotals(ctx context.Context, id int64, totalOdds string, payout float64) error
	GetSportsByName(ctx context.Context) (map[string]models.Sport, error)
}

// OddsProvider fetches current events and prices for one sport
type OddsProvider interface {
	FetchOdds(ctx context.Context, sportKey string) ([]models.Event, error)
}
