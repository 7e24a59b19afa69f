package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSQLiteCreatesSchema(t *testing.T) {
	db := SetupTestSQLite(t)

	var tables []string
	rows, err := db.Query(`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`)
	require.NoError(t, err)
	defer rows.Close()
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		tables = append(tables, name)
	}
	require.NoError(t, rows.Err())

	assert.Equal(t, []string{"bets", "parlay_bets", "parlays", "sports", "teams"}, tables)
}

func TestOpenSQLiteIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bettingbuddy.db")

	db, err := OpenSQLite(context.Background(), path)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO sports (name, api_id) VALUES ('NBA', 'basketball_nba')`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = OpenSQLite(context.Background(), path)
	require.NoError(t, err)
	defer db.Close()

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM sports`).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestOpenSQLiteEnforcesForeignKeys(t *testing.T) {
	db := SetupTestSQLite(t)

	_, err := db.Exec(`INSERT INTO teams (name, sport_id) VALUES ('Lakers', 999)`)
	assert.Error(t, err)
}
