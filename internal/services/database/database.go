// Package database reads applicant records from PostgreSQL for batch
// assessment runs. The engine never writes to the database.
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"loan-affordability-engine/internal/config"
)

// Pool defaults suit a Lambda container, which serves one request at a time.
const (
	defaultMaxConns       = 4
	defaultConnectTimeout = 5 * time.Second
	idleConnTimeout       = 5 * time.Minute
)

// DB is a read-only handle on the applicant database.
type DB struct {
	pool *pgxpool.Pool
}

// Option tunes the connection pool.
type Option func(*poolSettings)

type poolSettings struct {
	maxConns       int32
	connectTimeout time.Duration
}

// WithMaxConns caps the pool size. Non-positive values keep the default.
func WithMaxConns(n int) Option {
	return func(s *poolSettings) {
		if n > 0 {
			s.maxConns = int32(n)
		}
	}
}

// WithConnectTimeout bounds the initial connect and ping.
func WithConnectTimeout(d time.Duration) Option {
	return func(s *poolSettings) {
		if d > 0 {
			s.connectTimeout = d
		}
	}
}

// Open connects using the database settings in cfg.
func Open(ctx context.Context, cfg *config.Config) (*DB, error) {
	return Connect(ctx, cfg.DatabaseURL(), WithMaxConns(cfg.DBMaxConns))
}

// Connect opens a pool on databaseURL and verifies it with a ping.
func Connect(ctx context.Context, databaseURL string, opts ...Option) (*DB, error) {
	poolCfg, settings, err := buildPoolConfig(databaseURL, opts...)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, settings.connectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open applicant database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("applicant database unreachable: %w", err)
	}

	return &DB{pool: pool}, nil
}

func buildPoolConfig(databaseURL string, opts ...Option) (*pgxpool.Config, poolSettings, error) {
	settings := poolSettings{maxConns: defaultMaxConns, connectTimeout: defaultConnectTimeout}
	for _, opt := range opts {
		opt(&settings)
	}

	poolCfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, settings, fmt.Errorf("invalid database URL: %w", err)
	}

	poolCfg.MaxConns = settings.maxConns
	poolCfg.MinConns = 0
	poolCfg.MaxConnIdleTime = idleConnTimeout
	poolCfg.ConnConfig.ConnectTimeout = settings.connectTimeout
	// Reads only; refuse accidental writes at the session level.
	poolCfg.ConnConfig.RuntimeParams["default_transaction_read_only"] = "on"

	return poolCfg, settings, nil
}

// Ping reports whether the database answers. It backs the health check.
func (db *DB) Ping(ctx context.Context) error {
	return db.pool.Ping(ctx)
}

// Close releases every pooled connection.
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

func (db *DB) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return db.pool.QueryRow(ctx, sql, args...)
}

func (db *DB) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return db.pool.Query(ctx, sql, args...)
}
