package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/GianisonBoekhoudt/bettingbuddy/internal/database"
	"github.com/GianisonBoekhoudt/bettingbuddy/internal/models"
)

// PostgresStore implements Store for PostgreSQL
type PostgresStore struct {
	db *database.DB
}

// NewPostgresStore creates a store on an open connection pool
func NewPostgresStore(db *database.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Ping verifies database connectivity
func (p *PostgresStore) Ping(ctx context.Context) error {
	return p.db.Ping(ctx)
}

// Close closes the connection pool
func (p *PostgresStore) Close() error {
	p.db.Close()
	return nil
}

// GetActiveBets returns every active bet with its team and sport names
func (p *PostgresStore) GetActiveBets(ctx context.Context) ([]models.BetRecord, error) {
	rows, err := p.db.GetPool().Query(ctx, rebind(queryActiveBets))
	if err != nil {
		return nil, fmt.Errorf("failed to query active bets: %w", err)
	}
	defer rows.Close()

	bets := []models.BetRecord{}
	for rows.Next() {
		bet, err := scanBet(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bet: %w", err)
		}
		bets = append(bets, bet)
	}
	return bets, rows.Err()
}

// GetBet retrieves a bet by ID
func (p *PostgresStore) GetBet(ctx context.Context, id int64) (*models.BetRecord, error) {
	bet, err := scanBet(p.db.GetPool().QueryRow(ctx, rebind(queryBetByID), id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bet: %w", err)
	}
	return &bet, nil
}

// GetActiveBetByTeam returns the oldest active bet on a team
func (p *PostgresStore) GetActiveBetByTeam(ctx context.Context, teamID int64) (*models.BetRecord, error) {
	bet, err := scanBet(p.db.GetPool().QueryRow(ctx, rebind(queryActiveBetByTeam), teamID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bet by team: %w", err)
	}
	return &bet, nil
}

// CreateBet inserts a bet and sets its ID and creation time
func (p *PostgresStore) CreateBet(ctx context.Context, bet *models.BetRecord) error {
	if err := validateNewBet(bet); err != nil {
		return err
	}

	err := p.db.GetPool().QueryRow(ctx, rebind(insertBet),
		bet.TeamID, bet.Odds, nullString(bet.Description), nullTime(bet.EventDate), betStatus(bet.Status),
		nullString(bet.Result), bet.Active, nullTime(bet.CommenceTime), nullString(bet.SportName), bet.CreatedAt,
	).Scan(&bet.ID)
	if err != nil {
		return wrapPgError("failed to create bet", err)
	}
	return nil
}

// UpdateBetOdds stores a new American price for a bet
func (p *PostgresStore) UpdateBetOdds(ctx context.Context, id int64, odds string) error {
	tag, err := p.db.GetPool().Exec(ctx, rebind(updateBetOdds), odds, id)
	if err != nil {
		return fmt.Errorf("failed to update bet odds: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// UpdateBetStatus settles or cancels a bet; only pending bets stay active
func (p *PostgresStore) UpdateBetStatus(ctx context.Context, id int64, status models.BetStatus, result string) error {
	tag, err := p.db.GetPool().Exec(ctx, rebind(updateBetStatus), betStatus(status), nullString(result), status == models.BetStatusPending, id)
	if err != nil {
		return fmt.Errorf("failed to update bet status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// GetActiveParlays returns pending parlays with their leg bet IDs
func (p *PostgresStore) GetActiveParlays(ctx context.Context) ([]models.ParlayRecord, error) {
	rows, err := p.db.GetPool().Query(ctx, rebind(queryActiveParlays))
	if err != nil {
		return nil, fmt.Errorf("failed to query active parlays: %w", err)
	}
	defer rows.Close()

	var joined []parlayRow
	for rows.Next() {
		r, err := scanParlayRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan parlay: %w", err)
		}
		joined = append(joined, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return foldParlays(joined), nil
}

// CreateParlay inserts a parlay and its legs in one transaction
func (p *PostgresStore) CreateParlay(ctx context.Context, parlay *models.ParlayRecord) error {
	if err := validateNewParlay(parlay); err != nil {
		return err
	}

	return p.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, rebind(insertParlay),
			parlay.Stake, parlay.TotalOdds, parlay.PotentialPayout, betStatus(parlay.Status), nullString(parlay.Notes), parlay.CreatedAt,
		).Scan(&parlay.ID)
		if err != nil {
			return fmt.Errorf("failed to create parlay: %w", err)
		}

		batch := &pgx.Batch{}
		for _, betID := range parlay.LegBetIDs {
			batch.Queue(rebind(insertParlayLeg), parlay.ID, betID)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return wrapPgError("failed to add parlay legs", err)
		}
		return nil
	})
}

// UpdateParlayTotals stores recomputed combined odds and payout
func (p *PostgresStore) UpdateParlayTotals(ctx context.Context, id int64, totalOdds string, payout float64) error {
	tag, err := p.db.GetPool().Exec(ctx, rebind(updateParlayTotals), totalOdds, payout, id)
	if err != nil {
		return fmt.Errorf("failed to update parlay totals: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// ListSports returns sports, optionally only active ones
func (p *PostgresStore) ListSports(ctx context.Context, activeOnly bool) ([]models.Sport, error) {
	query := queryAllSports
	if activeOnly {
		query = queryActiveSports
	}

	rows, err := p.db.GetPool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query sports: %w", err)
	}
	defer rows.Close()

	sports := []models.Sport{}
	for rows.Next() {
		sport, err := scanSport(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sport: %w", err)
		}
		sports = append(sports, sport)
	}
	return sports, rows.Err()
}

// GetSportsByName maps sport names to sports
func (p *PostgresStore) GetSportsByName(ctx context.Context) (map[string]models.Sport, error) {
	sports, err := p.ListSports(ctx, false)
	if err != nil {
		return nil, err
	}
	return sportsByName(sports), nil
}

// UpsertSport inserts or updates a sport keyed by its provider key and sets its ID
func (p *PostgresStore) UpsertSport(ctx context.Context, sport *models.Sport) error {
	if sport.APIKey == "" {
		return fmt.Errorf("sport %q has no provider key: %w", sport.Name, models.ErrInvalidID)
	}
	err := p.db.GetPool().QueryRow(ctx, rebind(upsertSport),
		sport.Name, sport.APIKey, sport.Active, nullString(sport.IconPath),
	).Scan(&sport.ID)
	if err != nil {
		return fmt.Errorf("failed to upsert sport: %w", err)
	}
	return nil
}

// UpsertTeam finds a team by name and sport or creates it, reporting whether it was created
func (p *PostgresStore) UpsertTeam(ctx context.Context, team *models.Team) (bool, error) {
	err := p.db.GetPool().QueryRow(ctx, rebind(queryTeamID), team.Name, team.SportID).Scan(&team.ID)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return false, fmt.Errorf("failed to look up team: %w", err)
	}

	err = p.db.GetPool().QueryRow(ctx, rebind(insertTeam),
		team.Name, team.SportID, nullString(team.APIID), nullString(team.LogoPath),
	).Scan(&team.ID)
	if err != nil {
		return false, wrapPgError("failed to create team", err)
	}
	return true, nil
}

// wrapPgError maps constraint violations onto model sentinels
func wrapPgError(msg string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return fmt.Errorf("%s: %w", msg, models.ErrDuplicateKey)
		case "23503":
			return fmt.Errorf("%s: %w", msg, models.ErrInvalidID)
		}
	}
	return fmt.Errorf("%s: %w", msg, err)
}
