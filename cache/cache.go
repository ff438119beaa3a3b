// Package cache stores finished comparison results keyed by the pair of
// strategy name and question text, so repeating a question returns the cached
// result without re-running the workflow. Backends live in subpackages;
// payloads are opaque bytes (the runner stores JSON-encoded results).
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
)

// Store is the result cache contract.
type Store interface {
	// Get returns the payload cached for (strategy, question). The boolean
	// reports whether an entry was found.
	Get(ctx context.Context, strategy, question string) ([]byte, bool, error)

	// Put stores the payload for (strategy, question), replacing any
	// previous entry.
	Put(ctx context.Context, strategy, question string, payload []byte) error

	// Close releases backend resources.
	Close() error
}

// Key derives a stable cache key from a strategy name and question. Questions
// are hashed so arbitrary text never leaks into backend key syntax.
func Key(strategy, question string) string {
	sum := sha256.Sum256([]byte(question))
	return strategy + ":" + hex.EncodeToString(sum[:])
}

// MemoryStore is an in-process Store. Safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string][]byte)}
}

// Get returns the cached payload, if any.
func (m *MemoryStore) Get(ctx context.Context, strategy, question string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	payload, ok := m.entries[Key(strategy, question)]
	return payload, ok, nil
}

// Put stores the payload.
func (m *MemoryStore) Put(ctx context.Context, strategy, question string, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[Key(strategy, question)] = payload
	return nil
}

// Close is a no-op for the in-memory store.
func (m *MemoryStore) Close() error {
	return nil
}
