package db

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"math-solver/internal/config"
	"math-solver/internal/repository"
)

// Store agrupa el repositorio de usuarios con su ciclo de vida.
type Store struct {
	Users repository.UserRepository
	Ping  func() error
	Close func()
}

// OpenStore abre el almacenamiento indicado por STORE_DRIVER.
func OpenStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Store, error) {
	switch cfg.StoreDriver {
	case "mongo", "":
		client, database, err := NewMongo(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("mongo connect: %w", err)
		}
		repo := repository.NewMongoUserRepository(database)
		if err := repo.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, fmt.Errorf("mongo indexes: %w", err)
		}
		return &Store{
			Users: repo,
			Ping: func() error {
				pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer cancel()
				return client.Ping(pingCtx, nil)
			},
			Close: func() { _ = client.Disconnect(context.Background()) },
		}, nil
	case "postgres":
		pool, err := NewPool(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("postgres connect: %w", err)
		}
		if err := Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("postgres migrate: %w", err)
		}
		return &Store{
			Users: repository.NewPgUserRepository(pool),
			Ping: func() error {
				pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer cancel()
				return Ping(pingCtx, pool)
			},
			Close: pool.Close,
		}, nil
	case "memory":
		logger.Warn("using in-memory store, data is lost on restart")
		return &Store{
			Users: repository.NewMemoryUserRepository(),
			Ping:  func() error { return nil },
			Close: func() {},
		}, nil
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
}
