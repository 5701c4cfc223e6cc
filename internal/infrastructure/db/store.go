// Package db opens the customer store selected by configuration.
package db

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/customer-directory/customer-api/internal/core/ports"
	"github.com/customer-directory/customer-api/internal/infrastructure/config"
	"github.com/customer-directory/customer-api/internal/infrastructure/db/memory"
	"github.com/customer-directory/customer-api/internal/infrastructure/db/mongo"
	"github.com/customer-directory/customer-api/internal/infrastructure/db/orm"
	"github.com/customer-directory/customer-api/internal/infrastructure/db/postgres"
)

// Repository is a customer store that can report its own health.
type Repository interface {
	ports.CustomerRepository
	Ping(ctx context.Context) error
}

// Store bundles the open repository with its shutdown hook.
type Store struct {
	Backend   string
	Customers Repository
	close     func(context.Context) error
}

// Close releases the backend's connections.
func (s *Store) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}

// Open connects to the configured backend and prepares its schema.
func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Store, error) {
	log = log.With().Str("component", "store").Str("backend", cfg.Storage.Backend).Logger()

	switch cfg.Storage.Backend {
	case config.BackendMemory:
		return &Store{Backend: cfg.Storage.Backend, Customers: memory.NewCustomerRepository()}, nil

	case config.BackendPostgres:
		pool, err := postgres.Connect(ctx, postgres.Config{DSN: cfg.Postgres.DSN, MaxConns: cfg.Postgres.MaxConns})
		if err != nil {
			return nil, err
		}
		if cfg.Storage.AutoMigrate {
			if err := postgres.EnsureSchema(ctx, pool); err != nil {
				pool.Close()
				return nil, err
			}
		}
		return &Store{
			Backend:   cfg.Storage.Backend,
			Customers: postgres.NewCustomerRepository(pool, log),
			close: func(context.Context) error {
				pool.Close()
				return nil
			},
		}, nil

	case config.BackendORM:
		gdb, err := orm.Open(ctx, orm.Config{
			DSN:         cfg.Postgres.DSN,
			MaxConns:    int(cfg.Postgres.MaxConns),
			AutoMigrate: cfg.Storage.AutoMigrate,
		}, log)
		if err != nil {
			return nil, err
		}
		sqlDB, err := gdb.DB()
		if err != nil {
			return nil, fmt.Errorf("gorm sql db: %w", err)
		}
		return &Store{
			Backend:   cfg.Storage.Backend,
			Customers: orm.NewCustomerRepository(gdb, log),
			close:     func(context.Context) error { return sqlDB.Close() },
		}, nil

	case config.BackendMongo:
		client, mdb, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		if cfg.Storage.AutoMigrate {
			if err := mongo.EnsureIndexes(ctx, mdb); err != nil {
				_ = client.Disconnect(ctx)
				return nil, err
			}
		}
		return &Store{
			Backend:   cfg.Storage.Backend,
			Customers: mongo.NewCustomerRepository(mdb, log),
			close:     client.Disconnect,
		}, nil
	}

	return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
}
