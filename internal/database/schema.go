package database

// postgresSchema mirrors the SQLite layout with native types
var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS sports (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		api_id TEXT UNIQUE,
		active BOOLEAN NOT NULL DEFAULT TRUE,
		icon_path TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS teams (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		sport_id BIGINT NOT NULL REFERENCES sports(id),
		api_id TEXT,
		logo_path TEXT,
		UNIQUE (name, sport_id)
	)`,
	`CREATE TABLE IF NOT EXISTS bets (
		id BIGSERIAL PRIMARY KEY,
		team_id BIGINT NOT NULL REFERENCES teams(id),
		odds TEXT NOT NULL,
		description TEXT,
		event_date TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		status TEXT NOT NULL DEFAULT 'pending',
		result TEXT,
		active BOOLEAN NOT NULL DEFAULT TRUE,
		commence_time TIMESTAMPTZ,
		sport_name TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_bets_active ON bets(active, team_id)`,
	`CREATE TABLE IF NOT EXISTS parlays (
		id BIGSERIAL PRIMARY KEY,
		stake DOUBLE PRECISION NOT NULL,
		total_odds TEXT NOT NULL,
		potential_payout DOUBLE PRECISION NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		status TEXT NOT NULL DEFAULT 'pending',
		notes TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS parlay_bets (
		parlay_id BIGINT NOT NULL REFERENCES parlays(id) ON DELETE CASCADE,
		bet_id BIGINT NOT NULL REFERENCES bets(id),
		PRIMARY KEY (parlay_id, bet_id)
	)`,
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS sports (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	api_id TEXT UNIQUE,
	active BOOLEAN NOT NULL DEFAULT 1,
	icon_path TEXT
);

CREATE TABLE IF NOT EXISTS teams (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	sport_id INTEGER NOT NULL,
	api_id TEXT,
	logo_path TEXT,
	UNIQUE (name, sport_id),
	FOREIGN KEY (sport_id) REFERENCES sports(id)
);

CREATE TABLE IF NOT EXISTS bets (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	team_id INTEGER NOT NULL,
	odds TEXT NOT NULL,
	description TEXT,
	event_date DATETIME,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	status TEXT NOT NULL DEFAULT 'pending',
	result TEXT,
	active BOOLEAN NOT NULL DEFAULT 1,
	commence_time DATETIME,
	sport_name TEXT,
	FOREIGN KEY (team_id) REFERENCES teams(id)
);

CREATE INDEX IF NOT EXISTS idx_bets_active ON bets(active, team_id);

CREATE TABLE IF NOT EXISTS parlays (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	stake REAL NOT NULL,
	total_odds TEXT NOT NULL,
	potential_payout REAL NOT NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	status TEXT NOT NULL DEFAULT 'pending',
	notes TEXT
);

CREATE TABLE IF NOT EXISTS parlay_bets (
	parlay_id INTEGER NOT NULL,
	bet_id INTEGER NOT NULL,
	PRIMARY KEY (parlay_id, bet_id),
	FOREIGN KEY (parlay_id) REFERENCES parlays(id) ON DELETE CASCADE,
	FOREIGN KEY (bet_id) REFERENCES bets(id)
);
`
