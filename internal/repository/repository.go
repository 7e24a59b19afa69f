package repository

import (
	"context"
	"fmt"

	"github.com/GianisonBoekhoudt/bettingbuddy/internal/config"
	"github.com/GianisonBoekhoudt/bettingbuddy/internal/database"
)

// Open connects the store selected by cfg.Driver
func Open(ctx context.Context, cfg *config.DatabaseConfig) (Store, error) {
	switch cfg.Driver {
	case "postgres":
		db, err := database.Initialize(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return NewPostgresStore(db), nil
	case "sqlite", "":
		db, err := database.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return NewSQLiteStore(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}
