// Package orm is the GORM-backed CustomerRepository. It targets the same
// customer table as the pgx backend.
package orm

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Config captures the settings for opening a GORM session.
type Config struct {
	DSN         string
	MaxConns    int
	AutoMigrate bool
}

// Open connects through the postgres dialector, pings and optionally
// migrates the customer table.
func Open(ctx context.Context, cfg Config, log zerolog.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{
		Logger:         NewLogger(log, 200*time.Millisecond),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("gorm open: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("gorm sql db: %w", err)
	}
	if cfg.MaxConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxConns)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("gorm ping: %w", err)
	}

	if cfg.AutoMigrate {
		if err := db.WithContext(ctx).AutoMigrate(&customerModel{}); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("gorm migrate: %w", err)
		}
	}
	return db, nil
}
