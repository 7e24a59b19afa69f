package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/GianisonBoekhoudt/bettingbuddy/internal/config"
)

// Initialize creates a connection pool and applies the schema when auto_migrate is set
func Initialize(ctx context.Context, cfg *config.DatabaseConfig) (*DB, error) {
	db, err := NewDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if cfg.AutoMigrate {
		if err := db.ApplySchema(ctx); err != nil {
			db.Close()
			return nil, err
		}
	}

	return db, nil
}

// ApplySchema creates missing tables and indexes
func (db *DB) ApplySchema(ctx context.Context) error {
	return db.WithTransaction(ctx, func(tx pgx.Tx) error {
		for _, stmt := range postgresSchema {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("failed to apply schema: %w", err)
			}
		}
		return nil
	})
}
