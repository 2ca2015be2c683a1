package main

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/samber/oops"

	"github.com/99minutos/auth-service/internal/api/handler"
	"github.com/99minutos/auth-service/internal/core/ports"
	"github.com/99minutos/auth-service/internal/infrastructure/config"
	"github.com/99minutos/auth-service/internal/infrastructure/db/memory"
	mongodb "github.com/99minutos/auth-service/internal/infrastructure/db/mongo"
	"github.com/99minutos/auth-service/internal/infrastructure/db/postgres"
	redisdb "github.com/99minutos/auth-service/internal/infrastructure/db/redis"
)

// backend is the storage selected by STORE_DRIVER.
type backend struct {
	store  ports.AccountStore
	audit  ports.AuditRepository
	checks map[string]handler.Checker
	// migrate prepares indexes or schema; nil when the driver needs none.
	migrate func(ctx context.Context) error
	close   func(ctx context.Context)
}

func openBackend(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*backend, error) {
	switch cfg.StoreDriver {
	case config.DriverMemory:
		store := memory.NewAccountStore()
		return &backend{
			store:  store,
			audit:  memory.NewAuditLog(log),
			checks: map[string]handler.Checker{"memory": store.Ping},
			close:  func(context.Context) {},
		}, nil

	case config.DriverMongo:
		client, db, err := mongodb.Connect(ctx, mongodb.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
			AppName:  "authd",
		})
		if err != nil {
			return nil, oops.Code("DB_CONNECT_FAILED").With("driver", cfg.StoreDriver).Wrap(err)
		}
		repo := mongodb.NewAccountRepository(db)
		return &backend{
			store: repo,
			audit: mongodb.NewAuditRepository(db),
			checks: map[string]handler.Checker{
				"mongodb": func(ctx context.Context) error { return mongodb.Ping(ctx, db) },
			},
			migrate: repo.EnsureIndexes,
			close:   func(ctx context.Context) { _ = client.Disconnect(ctx) },
		}, nil

	case config.DriverPostgres:
		pool, err := postgres.Connect(ctx, cfg.Postgres.DSN)
		if err != nil {
			return nil, oops.Code("DB_CONNECT_FAILED").With("driver", cfg.StoreDriver).Wrap(err)
		}
		repo := postgres.NewAccountRepository(pool)
		return &backend{
			store:   repo,
			audit:   postgres.NewAuditRepository(pool),
			checks:  map[string]handler.Checker{"postgres": repo.Ping},
			migrate: func(ctx context.Context) error { return postgres.Migrate(ctx, pool) },
			close:   func(context.Context) { pool.Close() },
		}, nil

	case config.DriverRedis:
		client, err := redisdb.Connect(ctx, redisdb.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, oops.Code("DB_CONNECT_FAILED").With("driver", cfg.StoreDriver).Wrap(err)
		}
		store := redisdb.NewAccountStore(client)
		return &backend{
			store:  store,
			audit:  memory.NewAuditLog(log),
			checks: map[string]handler.Checker{"redis": store.Ping},
			close:  func(context.Context) { _ = client.Close() },
		}, nil
	}

	return nil, oops.Code("CONFIG_INVALID").Errorf("unknown store driver %q", cfg.StoreDriver)
}
