package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Connection-count fallbacks when the config leaves the limits unset. Each
// binary opens two pools (doctor and patient database), so the per-pool
// ceiling is deliberately modest.
const (
	defaultMaxConns int32 = 20
	defaultMinConns int32 = 5
)

// pingTimeout bounds the startup reachability check so a wrong URL fails
// fast instead of hanging the serve command.
const pingTimeout = 5 * time.Second

// NewPool opens a pgx pool on the given portal database and verifies it is
// reachable before returning.
func NewPool(ctx context.Context, databaseURL string, maxConns, minConns int32) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	cfg.MaxConns, cfg.MinConns = clampConns(maxConns, minConns)

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// clampConns applies the fallbacks and keeps min at or below max.
func clampConns(maxConns, minConns int32) (int32, int32) {
	if maxConns <= 0 {
		maxConns = defaultMaxConns
	}
	if minConns <= 0 {
		minConns = defaultMinConns
	}
	if minConns > maxConns {
		minConns = maxConns
	}
	return maxConns, minConns
}
