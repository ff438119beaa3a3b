// Package postgres implements the result cache on PostgreSQL, for deployments
// where cached comparisons are shared and queried centrally.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ragscope/ragscope/cache"
)

// DBPool is the subset of pgxpool.Pool the store needs. Tests substitute a
// pgxmock pool.
type DBPool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// Store implements cache.Store using PostgreSQL.
type Store struct {
	pool      DBPool
	tableName string
}

var _ cache.Store = (*Store)(nil)

// Options configuration for the Postgres connection.
type Options struct {
	ConnString string
	TableName  string // Default "results"
}

// New creates a Postgres-backed result cache and ensures the schema exists.
func New(ctx context.Context, opts Options) (*Store, error) {
	pool, err := pgxpool.New(ctx, opts.ConnString)
	if err != nil {
		return nil, fmt.Errorf("cache: create connection pool: %w", err)
	}

	s := NewWithPool(pool, opts.TableName)
	if err := s.InitSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// NewWithPool wraps an existing pool. Useful for testing with mocks; callers
// are responsible for running InitSchema.
func NewWithPool(pool DBPool, tableName string) *Store {
	if tableName == "" {
		tableName = "results"
	}
	return &Store{pool: pool, tableName: tableName}
}

// InitSchema creates the results table if it doesn't exist.
func (s *Store) InitSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			key TEXT PRIMARY KEY,
			strategy TEXT NOT NULL,
			payload BYTEA NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_%s_strategy ON %s (strategy);
	`, s.tableName, s.tableName, s.tableName)

	if _, err := s.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("cache: create schema: %w", err)
	}
	return nil
}

// Get returns the cached payload, if any.
func (s *Store) Get(ctx context.Context, strategy, question string) ([]byte, bool, error) {
	query := fmt.Sprintf("SELECT payload FROM %s WHERE key = $1", s.tableName)

	var payload []byte
	err := s.pool.QueryRow(ctx, query, cache.Key(strategy, question)).Scan(&payload)
	if err == pgx.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache: postgres select: %w", err)
	}
	return payload, true, nil
}

// Put stores the payload, replacing any previous entry.
func (s *Store) Put(ctx context.Context, strategy, question string, payload []byte) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (key, strategy, payload, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (key) DO UPDATE SET payload = excluded.payload, created_at = excluded.created_at
	`, s.tableName)

	if _, err := s.pool.Exec(ctx, query, cache.Key(strategy, question), strategy, payload, time.Now().UTC()); err != nil {
		return fmt.Errorf("cache: postgres upsert: %w", err)
	}
	return nil
}

// Close closes the connection pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}
