// Package database persists parse runs and per-file outcomes in
// PostgreSQL.
package database

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	poolMu sync.RWMutex
	pool   *pgxpool.Pool
)

// Connect opens the shared connection pool. Calling it while a pool is
// already open is an error; Close first to reconnect.
func Connect(ctx context.Context, connString string, maxConns, minConns int, maxLifetime, maxIdleTime time.Duration) error {
	poolMu.Lock()
	defer poolMu.Unlock()

	if pool != nil {
		return fmt.Errorf("database already connected")
	}

	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return fmt.Errorf("invalid database config: %w", err)
	}
	cfg.MaxConns = int32(maxConns)
	cfg.MinConns = int32(minConns)
	cfg.MaxConnLifetime = maxLifetime
	cfg.MaxConnIdleTime = maxIdleTime
	cfg.HealthCheckPeriod = time.Minute

	p, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := p.Ping(ctx); err != nil {
		p.Close()
		return fmt.Errorf("database unreachable: %w", err)
	}

	pool = p
	return nil
}

// Close releases the shared pool. Safe to call when not connected.
func Close() {
	poolMu.Lock()
	defer poolMu.Unlock()
	if pool != nil {
		pool.Close()
		pool = nil
	}
}

// Pool returns the shared pool, or nil when persistence is not
// configured.
func Pool() *pgxpool.Pool {
	poolMu.RLock()
	defer poolMu.RUnlock()
	return pool
}

// Status pings the database.
func Status(ctx context.Context) error {
	p := Pool()
	if p == nil {
		return fmt.Errorf("database not initialized")
	}
	return p.Ping(ctx)
}
