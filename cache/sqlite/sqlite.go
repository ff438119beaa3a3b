// Package sqlite implements the result cache on a local SQLite database, so
// cached comparisons survive restarts without an external service.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/ragscope/ragscope/cache"
)

// Store implements cache.Store using SQLite.
type Store struct {
	db        *sql.DB
	tableName string
}

var _ cache.Store = (*Store)(nil)

// Options configuration for the SQLite database.
type Options struct {
	Path      string
	TableName string // Default "results"
}

// New opens (or creates) the database and ensures the schema exists.
func New(opts Options) (*Store, error) {
	db, err := sql.Open("sqlite3", opts.Path)
	if err != nil {
		return nil, fmt.Errorf("cache: open sqlite database: %w", err)
	}

	tableName := opts.TableName
	if tableName == "" {
		tableName = "results"
	}

	s := &Store{db: db, tableName: tableName}
	if err := s.initSchema(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) initSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			key TEXT PRIMARY KEY,
			strategy TEXT NOT NULL,
			payload BLOB NOT NULL,
			created_at DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_%s_strategy ON %s (strategy);
	`, s.tableName, s.tableName, s.tableName)

	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("cache: create schema: %w", err)
	}
	return nil
}

// Get returns the cached payload, if any.
func (s *Store) Get(ctx context.Context, strategy, question string) ([]byte, bool, error) {
	query := fmt.Sprintf("SELECT payload FROM %s WHERE key = ?", s.tableName)

	var payload []byte
	err := s.db.QueryRowContext(ctx, query, cache.Key(strategy, question)).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache: sqlite select: %w", err)
	}
	return payload, true, nil
}

// Put stores the payload, replacing any previous entry.
func (s *Store) Put(ctx context.Context, strategy, question string, payload []byte) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (key, strategy, payload, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET payload = excluded.payload, created_at = excluded.created_at
	`, s.tableName)

	if _, err := s.db.ExecContext(ctx, query, cache.Key(strategy, question), strategy, payload, time.Now().UTC()); err != nil {
		return fmt.Errorf("cache: sqlite upsert: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
