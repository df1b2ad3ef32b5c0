// Package database owns the Postgres connection pool, the subscriber
// persistence gateway and schema migrations.
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mailcrate/mailcrate/internal/config"
)

const (
	defaultMaxConns = 25
	defaultMinConns = 2
)

// NewConnectionPool opens a pgx pool against the configured database and
// verifies connectivity with a ping.
func NewConnectionPool(ctx context.Context, settings config.DatabaseSettings) (*pgxpool.Pool, error) {
	return newPool(ctx, settings, settings.ConnectionString())
}

// NewMaintenancePool opens a pool against the server-level "postgres"
// database. Used when provisioning ephemeral databases.
func NewMaintenancePool(ctx context.Context, settings config.DatabaseSettings) (*pgxpool.Pool, error) {
	return newPool(ctx, settings, settings.MaintenanceConnectionString())
}

func newPool(ctx context.Context, settings config.DatabaseSettings, dsn config.Secret) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn.ExposeSecret())
	if err != nil {
		return nil, fmt.Errorf("parse database config: %w", err)
	}

	maxConns := settings.MaxConns
	if maxConns <= 0 {
		maxConns = defaultMaxConns
	}
	minConns := settings.MinConns
	if minConns <= 0 {
		minConns = defaultMinConns
	}
	poolConfig.MaxConns = int32(maxConns)
	poolConfig.MinConns = int32(minConns)
	poolConfig.HealthCheckPeriod = time.Minute
	poolConfig.MaxConnLifetime = 30 * time.Minute
	poolConfig.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connect to database %q at %s:%d: %w",
			settings.Name, settings.Host, settings.Port, err)
	}
	return pool, nil
}
