// Package redis implements the result cache on Redis, for sharing cached
// comparisons across RAGScope instances.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ragscope/ragscope/cache"
)

// Store implements cache.Store using Redis.
type Store struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

var _ cache.Store = (*Store)(nil)

// Options configuration for the Redis connection.
type Options struct {
	Addr     string
	Password string
	DB       int
	Prefix   string        // Key prefix, default "ragscope:result:"
	TTL      time.Duration // Entry expiration, default 0 (no expiration)
}

// New creates a Redis-backed result cache.
func New(opts Options) *Store {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	prefix := opts.Prefix
	if prefix == "" {
		prefix = "ragscope:result:"
	}

	return &Store{client: client, prefix: prefix, ttl: opts.TTL}
}

// NewWithClient wraps an existing Redis client. Useful for tests.
func NewWithClient(client *redis.Client, prefix string, ttl time.Duration) *Store {
	if prefix == "" {
		prefix = "ragscope:result:"
	}
	return &Store{client: client, prefix: prefix, ttl: ttl}
}

func (s *Store) key(strategy, question string) string {
	return s.prefix + cache.Key(strategy, question)
}

// Get returns the cached payload, if any.
func (s *Store) Get(ctx context.Context, strategy, question string) ([]byte, bool, error) {
	payload, err := s.client.Get(ctx, s.key(strategy, question)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache: redis get: %w", err)
	}
	return payload, true, nil
}

// Put stores the payload.
func (s *Store) Put(ctx context.Context, strategy, question string, payload []byte) error {
	if err := s.client.Set(ctx, s.key(strategy, question), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("cache: redis set: %w", err)
	}
	return nil
}

// Close closes the Redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
