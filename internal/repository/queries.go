package repository

import (
	"database/sql"
	"strconv"
	"strings"
	"time"

	"github.com/GianisonBoekhoudt/bettingbuddy/internal/models"
)

// Queries use '?' placeholders; PostgresStore rebinds them to $n.
const (
	betSelect = `
		SELECT b.id, b.team_id, t.name, t.sport_id, COALESCE(NULLIF(b.sport_name, ''), s.name),
		       b.odds, COALESCE(b.description, ''), b.event_date, b.commence_time,
		       b.status, COALESCE(b.result, ''), b.active, b.created_at
		FROM bets b
		JOIN teams t ON t.id = b.team_id
		JOIN sports s ON s.id = t.sport_id`

	queryActiveBets = betSelect + `
		WHERE b.active = TRUE
		ORDER BY b.event_date, b.id`

	queryBetByID = betSelect + `
		WHERE b.id = ?`

	queryActiveBetByTeam = betSelect + `
		WHERE b.team_id = ? AND b.active = TRUE
		ORDER BY b.id
		LIMIT 1`

	insertBet = `
		INSERT INTO bets (team_id, odds, description, event_date, status, result, active, commence_time, sport_name, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`

	updateBetOdds = `UPDATE bets SET odds = ? WHERE id = ?`

	updateBetStatus = `UPDATE bets SET status = ?, result = ?, active = ? WHERE id = ?`

	queryActiveParlays = `
		SELECT p.id, p.stake, p.total_odds, p.potential_payout, p.status,
		       COALESCE(p.notes, ''), p.created_at, pb.bet_id
		FROM parlays p
		LEFT JOIN parlay_bets pb ON pb.parlay_id = p.id
		WHERE p.status = 'pending'
		ORDER BY p.id, pb.bet_id`

	insertParlay = `
		INSERT INTO parlays (stake, total_odds, potential_payout, status, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id`

	insertParlayLeg = `INSERT INTO parlay_bets (parlay_id, bet_id) VALUES (?, ?)`

	updateParlayTotals = `UPDATE parlays SET total_odds = ?, potential_payout = ? WHERE id = ?`

	sportSelect = `SELECT id, name, COALESCE(api_id, ''), active, COALESCE(icon_path, '') FROM sports`

	queryAllSports    = sportSelect + ` ORDER BY id`
	queryActiveSports = sportSelect + ` WHERE active = TRUE ORDER BY name`

	upsertSport = `
		INSERT INTO sports (name, api_id, active, icon_path)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (api_id) DO UPDATE SET name = excluded.name, active = excluded.active
		RETURNING id`

	queryTeamID = `SELECT id FROM teams WHERE name = ? AND sport_id = ?`

	insertTeam = `
		INSERT INTO teams (name, sport_id, api_id, logo_path)
		VALUES (?, ?, ?, ?)
		RETURNING id`
)

// rebind converts '?' placeholders to PostgreSQL's $1, $2, ...
func rebind(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// rowScanner is satisfied by pgx.Row, pgx.Rows, *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func scanBet(row rowScanner) (models.BetRecord, error) {
	var (
		bet                     models.BetRecord
		eventDate, commenceTime sql.NullTime
	)
	err := row.Scan(
		&bet.ID, &bet.TeamID, &bet.TeamName, &bet.SportID, &bet.SportName,
		&bet.Odds, &bet.Description, &eventDate, &commenceTime,
		&bet.Status, &bet.Result, &bet.Active, &bet.CreatedAt,
	)
	if err != nil {
		return bet, err
	}
	bet.EventDate = timePtr(eventDate)
	bet.CommenceTime = timePtr(commenceTime)
	return bet, nil
}

func scanSport(row rowScanner) (models.Sport, error) {
	var sport models.Sport
	err := row.Scan(&sport.ID, &sport.Name, &sport.APIKey, &sport.Active, &sport.IconPath)
	return sport, err
}

// parlayRow is one parlay joined with at most one leg
type parlayRow struct {
	parlay models.ParlayRecord
	legID  sql.NullInt64
}

func scanParlayRow(row rowScanner) (parlayRow, error) {
	var r parlayRow
	err := row.Scan(
		&r.parlay.ID, &r.parlay.Stake, &r.parlay.TotalOdds, &r.parlay.PotentialPayout,
		&r.parlay.Status, &r.parlay.Notes, &r.parlay.CreatedAt, &r.legID,
	)
	return r, err
}

// foldParlays merges joined rows ordered by parlay id into records with leg ids
func foldParlays(rows []parlayRow) []models.ParlayRecord {
	parlays := make([]models.ParlayRecord, 0, len(rows))
	for _, r := range rows {
		if n := len(parlays); n == 0 || parlays[n-1].ID != r.parlay.ID {
			r.parlay.LegBetIDs = []int64{}
			parlays = append(parlays, r.parlay)
		}
		if r.legID.Valid {
			last := &parlays[len(parlays)-1]
			last.LegBetIDs = append(last.LegBetIDs, r.legID.Int64)
		}
	}
	return parlays
}

func sportsByName(sports []models.Sport) map[string]models.Sport {
	byName := make(map[string]models.Sport, len(sports))
	for _, sport := range sports {
		if _, exists := byName[sport.Name]; !exists {
			byName[sport.Name] = sport
		}
	}
	return byName
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func betStatus(status models.BetStatus) string {
	if status == "" {
		return string(models.BetStatusPending)
	}
	return string(status)
}
