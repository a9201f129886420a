package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"math-solver/internal/config"
)

// Limites del pool para el store de documentos: lecturas y upserts de una sola fila.
const (
	pgMaxConns        = 20
	pgMinConns        = 2
	pgMaxConnLifetime = time.Hour
	pgMaxConnIdleTime = 10 * time.Minute
	pgHealthCheck     = time.Minute
	pgConnectTimeout  = 5 * time.Second
)

// NewPool abre el pool de postgres y verifica la conexion antes de devolverlo.
func NewPool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required for the postgres store")
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse DATABASE_URL: %w", err)
	}
	applyPoolLimits(poolCfg)

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, err
	}
	pingCtx, cancel := context.WithTimeout(ctx, pgConnectTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

func applyPoolLimits(poolCfg *pgxpool.Config) {
	poolCfg.MaxConns = pgMaxConns
	poolCfg.MinConns = pgMinConns
	poolCfg.MaxConnLifetime = pgMaxConnLifetime
	poolCfg.MaxConnIdleTime = pgMaxConnIdleTime
	poolCfg.HealthCheckPeriod = pgHealthCheck
	poolCfg.ConnConfig.ConnectTimeout = pgConnectTimeout
}

// Ping verifica conectividad con la base de datos.
func Ping(ctx context.Context, pool *pgxpool.Pool) error {
	return pool.Ping(ctx)
}
