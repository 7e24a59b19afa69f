package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GianisonBoekhoudt/bettingbuddy/internal/database"
	"github.com/GianisonBoekhoudt/bettingbuddy/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	return NewSQLiteStore(database.SetupTestSQLite(t))
}

// seed creates NBA and NHL with one team each and returns the team IDs
func seed(t *testing.T, store *SQLiteStore) (lakers, bruins int64) {
	t.Helper()
	ctx := context.Background()

	nba := &models.Sport{Name: "NBA", APIKey: "basketball_nba", Active: true}
	nhl := &models.Sport{Name: "NHL", APIKey: "icehockey_nhl", Active: true}
	require.NoError(t, store.UpsertSport(ctx, nba))
	require.NoError(t, store.UpsertSport(ctx, nhl))

	l := &models.Team{Name: "Los Angeles Lakers", SportID: nba.ID}
	b := &models.Team{Name: "Boston Bruins", SportID: nhl.ID}
	_, err := store.UpsertTeam(ctx, l)
	require.NoError(t, err)
	_, err = store.UpsertTeam(ctx, b)
	require.NoError(t, err)
	return l.ID, b.ID
}

func TestSQLiteStoreBetLifecycle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	lakers, bruins := seed(t, store)

	commence := time.Date(2024, 3, 2, 0, 10, 0, 0, time.UTC)
	first := &models.BetRecord{TeamID: lakers, Odds: "+150", Active: true, CommenceTime: &commence, EventDate: &commence}
	second := &models.BetRecord{TeamID: bruins, Odds: "-120", Active: true, Description: "Bruins ML"}
	require.NoError(t, store.CreateBet(ctx, first))
	require.NoError(t, store.CreateBet(ctx, second))
	assert.NotZero(t, first.ID)
	assert.Equal(t, models.BetStatusPending, first.Status)

	bets, err := store.GetActiveBets(ctx)
	require.NoError(t, err)
	require.Len(t, bets, 2)

	byID := map[int64]models.BetRecord{}
	for _, bet := range bets {
		byID[bet.ID] = bet
	}
	lakersBet := byID[first.ID]
	assert.Equal(t, "Los Angeles Lakers", lakersBet.TeamName)
	assert.Equal(t, "NBA", lakersBet.SportName, "sport name falls back to the team's sport")
	require.NotNil(t, lakersBet.CommenceTime)
	assert.True(t, commence.Equal(*lakersBet.CommenceTime))
	assert.Equal(t, "Bruins ML", byID[second.ID].Description)
	assert.Nil(t, byID[second.ID].EventDate)

	require.NoError(t, store.UpdateBetOdds(ctx, first.ID, "+135"))
	got, err := store.GetBet(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "+135", got.Odds)

	require.NoError(t, store.UpdateBetStatus(ctx, second.ID, models.BetStatusWon, "2-1"))
	bets, err = store.GetActiveBets(ctx)
	require.NoError(t, err)
	require.Len(t, bets, 1)
	assert.Equal(t, first.ID, bets[0].ID)
}

func TestSQLiteStoreMissingRows(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.GetBet(ctx, 42)
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = store.GetActiveBetByTeam(ctx, 42)
	assert.ErrorIs(t, err, models.ErrNotFound)

	assert.ErrorIs(t, store.UpdateBetOdds(ctx, 42, "+100"), models.ErrNotFound)
	assert.ErrorIs(t, store.UpdateParlayTotals(ctx, 42, "+100", 10), models.ErrNotFound)
}

func TestSQLiteStoreRejectsIncompleteRecords(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	assert.ErrorIs(t, store.CreateBet(ctx, &models.BetRecord{Odds: "+100"}), models.ErrInvalidID)
	assert.ErrorIs(t, store.CreateBet(ctx, &models.BetRecord{TeamID: 1}), models.ErrMissingOdds)
	assert.ErrorIs(t, store.CreateParlay(ctx, &models.ParlayRecord{LegBetIDs: []int64{1}}), models.ErrMissingLegs)
	assert.ErrorIs(t, store.UpsertSport(ctx, &models.Sport{Name: "NBA"}), models.ErrInvalidID)
}

func TestSQLiteStoreParlays(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	lakers, bruins := seed(t, store)

	a := &models.BetRecord{TeamID: lakers, Odds: "+100", Active: true}
	b := &models.BetRecord{TeamID: bruins, Odds: "+100", Active: true}
	require.NoError(t, store.CreateBet(ctx, a))
	require.NoError(t, store.CreateBet(ctx, b))

	parlay := &models.ParlayRecord{LegBetIDs: []int64{b.ID, a.ID}, Stake: 25, TotalOdds: "+300", PotentialPayout: 100}
	require.NoError(t, store.CreateParlay(ctx, parlay))
	assert.NotZero(t, parlay.ID)

	parlays, err := store.GetActiveParlays(ctx)
	require.NoError(t, err)
	require.Len(t, parlays, 1)
	assert.Equal(t, []int64{a.ID, b.ID}, parlays[0].LegBetIDs)
	assert.Equal(t, 25.0, parlays[0].Stake)

	require.NoError(t, store.UpdateParlayTotals(ctx, parlay.ID, "+320", 105))
	parlays, err = store.GetActiveParlays(ctx)
	require.NoError(t, err)
	assert.Equal(t, "+320", parlays[0].TotalOdds)
	assert.Equal(t, 105.0, parlays[0].PotentialPayout)
}

func TestSQLiteStoreCreateParlayRollsBack(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	err := store.CreateParlay(ctx, &models.ParlayRecord{LegBetIDs: []int64{1, 2}, Stake: 10, TotalOdds: "+300"})
	require.Error(t, err, "legs reference missing bets")

	parlays, err := store.GetActiveParlays(ctx)
	require.NoError(t, err)
	assert.Empty(t, parlays)
}

func TestSQLiteStoreCatalogUpserts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	sport := &models.Sport{Name: "NBA", APIKey: "basketball_nba", Active: true}
	require.NoError(t, store.UpsertSport(ctx, sport))
	firstID := sport.ID

	renamed := &models.Sport{Name: "Basketball", APIKey: "basketball_nba", Active: false}
	require.NoError(t, store.UpsertSport(ctx, renamed))
	assert.Equal(t, firstID, renamed.ID)

	all, err := store.ListSports(ctx, false)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Basketball", all[0].Name)

	active, err := store.ListSports(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, active)

	byName, err := store.GetSportsByName(ctx)
	require.NoError(t, err)
	assert.Equal(t, "basketball_nba", byName["Basketball"].APIKey)

	team := &models.Team{Name: "Lakers", SportID: firstID}
	created, err := store.UpsertTeam(ctx, team)
	require.NoError(t, err)
	assert.True(t, created)

	again := &models.Team{Name: "Lakers", SportID: firstID}
	created, err = store.UpsertTeam(ctx, again)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, team.ID, again.ID)
}

func TestGetActiveBetByTeam(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	lakers, _ := seed(t, store)

	bet := &models.BetRecord{TeamID: lakers, Odds: "+150", Active: true}
	require.NoError(t, store.CreateBet(ctx, bet))

	got, err := store.GetActiveBetByTeam(ctx, lakers)
	require.NoError(t, err)
	assert.Equal(t, bet.ID, got.ID)
}

func TestRebind(t *testing.T) {
	assert.Equal(t, "UPDATE bets SET odds = $1 WHERE id = $2", rebind(updateBetOdds))
	assert.Equal(t, "SELECT 1", rebind("SELECT 1"))
}

func TestFoldParlays(t *testing.T) {
	rows := []parlayRow{
		{parlay: models.ParlayRecord{ID: 1}, legID: sql.NullInt64{Int64: 10, Valid: true}},
		{parlay: models.ParlayRecord{ID: 1}, legID: sql.NullInt64{Int64: 11, Valid: true}},
		{parlay: models.ParlayRecord{ID: 2}},
	}

	parlays := foldParlays(rows)
	require.Len(t, parlays, 2)
	assert.Equal(t, []int64{10, 11}, parlays[0].LegBetIDs)
	assert.Empty(t, parlays[1].LegBetIDs)
}
