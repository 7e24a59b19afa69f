package repository

import (
	"context"

	"github.com/GianisonBoekhoudt/bettingbuddy/internal/models"
)

// BetRepository defines operations on single bets
type BetRepository interface {
	GetActiveBets(ctx context.Context) ([]models.BetRecord, error)
	GetBet(ctx context.Context, id int64) (*models.BetRecord, error)
	GetActiveBetByTeam(ctx context.Context, teamID int64) (*models.BetRecord, error)
	CreateBet(ctx context.Context, bet *models.BetRecord) error
	UpdateBetOdds(ctx context.Context, id int64, odds string) error
	UpdateBetStatus(ctx context.Context, id int64, status models.BetStatus, result string) error
}

// ParlayRepository defines operations on parlays and their legs
type ParlayRepository interface {
	GetActiveParlays(ctx context.Context) ([]models.ParlayRecord, error)
	CreateParlay(ctx context.Context, parlay *models.ParlayRecord) error
	UpdateParlayTotals(ctx context.Context, id int64, totalOdds string, payout float64) error
}

// CatalogRepository defines operations on sports and teams
type CatalogRepository interface {
	ListSports(ctx context.Context, activeOnly bool) ([]models.Sport, error)
	GetSportsByName(ctx context.Context) (map[string]models.Sport, error)
	UpsertSport(ctx context.Context, sport *models.Sport) error
	UpsertTeam(ctx context.Context, team *models.Team) (bool, error)
}

// Store is the record store used by the scheduler, catalog sync and API
type Store interface {
	BetRepository
	ParlayRepository
	CatalogRepository
	Ping(ctx context.Context) error
	Close() error
}
