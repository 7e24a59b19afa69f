package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/GianisonBoekhoudt/bettingbuddy/internal/models"
)

// SQLiteStore implements Store on an embedded SQLite database
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore wraps a database opened with database.OpenSQLite
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Ping verifies database connectivity
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// GetActiveBets returns every active bet with its team and sport names
func (s *SQLiteStore) GetActiveBets(ctx context.Context) ([]models.BetRecord, error) {
	rows, err := s.db.QueryContext(ctx, queryActiveBets)
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
func (s *SQLiteStore) GetBet(ctx context.Context, id int64) (*models.BetRecord, error) {
	bet, err := scanBet(s.db.QueryRowContext(ctx, queryBetByID, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bet: %w", err)
	}
	return &bet, nil
}

// GetActiveBetByTeam returns the oldest active bet on a team
func (s *SQLiteStore) GetActiveBetByTeam(ctx context.Context, teamID int64) (*models.BetRecord, error) {
	bet, err := scanBet(s.db.QueryRowContext(ctx, queryActiveBetByTeam, teamID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bet by team: %w", err)
	}
	return &bet, nil
}

// CreateBet inserts a bet and sets its ID and creation time
func (s *SQLiteStore) CreateBet(ctx context.Context, bet *models.BetRecord) error {
	if err := validateNewBet(bet); err != nil {
		return err
	}

	err := s.db.QueryRowContext(ctx, insertBet,
		bet.TeamID, bet.Odds, nullString(bet.Description), nullTime(bet.EventDate), betStatus(bet.Status),
		nullString(bet.Result), bet.Active, nullTime(bet.CommenceTime), nullString(bet.SportName), bet.CreatedAt,
	).Scan(&bet.ID)
	if err != nil {
		return fmt.Errorf("failed to create bet: %w", err)
	}
	return nil
}

// UpdateBetOdds stores a new American price for a bet
func (s *SQLiteStore) UpdateBetOdds(ctx context.Context, id int64, odds string) error {
	result, err := s.db.ExecContext(ctx, updateBetOdds, odds, id)
	if err != nil {
		return fmt.Errorf("failed to update bet odds: %w", err)
	}
	return requireAffected(result)
}

// UpdateBetStatus settles or cancels a bet; only pending bets stay active
func (s *SQLiteStore) UpdateBetStatus(ctx context.Context, id int64, status models.BetStatus, resultText string) error {
	result, err := s.db.ExecContext(ctx, updateBetStatus, betStatus(status), nullString(resultText), status == models.BetStatusPending, id)
	if err != nil {
		return fmt.Errorf("failed to update bet status: %w", err)
	}
	return requireAffected(result)
}

// GetActiveParlays returns pending parlays with their leg bet IDs
func (s *SQLiteStore) GetActiveParlays(ctx context.Context) ([]models.ParlayRecord, error) {
	rows, err := s.db.QueryContext(ctx, queryActiveParlays)
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
func (s *SQLiteStore) CreateParlay(ctx context.Context, parlay *models.ParlayRecord) error {
	if err := validateNewParlay(parlay); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	err = tx.QueryRowContext(ctx, insertParlay,
		parlay.Stake, parlay.TotalOdds, parlay.PotentialPayout, betStatus(parlay.Status), nullString(parlay.Notes), parlay.CreatedAt,
	).Scan(&parlay.ID)
	if err != nil {
		return fmt.Errorf("failed to create parlay: %w", err)
	}

	for _, betID := range parlay.LegBetIDs {
		if _, err := tx.ExecContext(ctx, insertParlayLeg, parlay.ID, betID); err != nil {
			return fmt.Errorf("failed to add parlay leg %d: %w", betID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// UpdateParlayTotals stores recomputed combined odds and payout
func (s *SQLiteStore) UpdateParlayTotals(ctx context.Context, id int64, totalOdds string, payout float64) error {
	result, err := s.db.ExecContext(ctx, updateParlayTotals, totalOdds, payout, id)
	if err != nil {
		return fmt.Errorf("failed to update parlay totals: %w", err)
	}
	return requireAffected(result)
}

// ListSports returns sports, optionally only active ones
func (s *SQLiteStore) ListSports(ctx context.Context, activeOnly bool) ([]models.Sport, error) {
	query := queryAllSports
	if activeOnly {
		query = queryActiveSports
	}

	rows, err := s.db.QueryContext(ctx, query)
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
func (s *SQLiteStore) GetSportsByName(ctx context.Context) (map[string]models.Sport, error) {
	sports, err := s.ListSports(ctx, false)
	if err != nil {
		return nil, err
	}
	return sportsByName(sports), nil
}

// UpsertSport inserts or updates a sport keyed by its provider key and sets its ID
func (s *SQLiteStore) UpsertSport(ctx context.Context, sport *models.Sport) error {
	if sport.APIKey == "" {
		return fmt.Errorf("sport %q has no provider key: %w", sport.Name, models.ErrInvalidID)
	}
	err := s.db.QueryRowContext(ctx, upsertSport,
		sport.Name, sport.APIKey, sport.Active, nullString(sport.IconPath),
	).Scan(&sport.ID)
	if err != nil {
		return fmt.Errorf("failed to upsert sport: %w", err)
	}
	return nil
}

// UpsertTeam finds a team by name and sport or creates it, reporting whether it was created
func (s *SQLiteStore) UpsertTeam(ctx context.Context, team *models.Team) (bool, error) {
	err := s.db.QueryRowContext(ctx, queryTeamID, team.Name, team.SportID).Scan(&team.ID)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("failed to look up team: %w", err)
	}

	err = s.db.QueryRowContext(ctx, insertTeam,
		team.Name, team.SportID, nullString(team.APIID), nullString(team.LogoPath),
	).Scan(&team.ID)
	if err != nil {
		return false, fmt.Errorf("failed to create team: %w", err)
	}
	return true, nil
}

func requireAffected(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}

func validateNewBet(bet *models.BetRecord) error {
	if bet.TeamID <= 0 {
		return models.ErrInvalidID
	}
	if bet.Odds == "" {
		return models.ErrMissingOdds
	}
	if bet.CreatedAt.IsZero() {
		bet.CreatedAt = time.Now().UTC()
	}
	if bet.Status == "" {
		bet.Status = models.BetStatusPending
	}
	return nil
}

func validateNewParlay(parlay *models.ParlayRecord) error {
	if len(parlay.LegBetIDs) < 2 {
		return models.ErrMissingLegs
	}
	if parlay.CreatedAt.IsZero() {
		parlay.CreatedAt = time.Now().UTC()
	}
	if parlay.Status == "" {
		parlay.Status = models.BetStatusPending
	}
	return nil
}
