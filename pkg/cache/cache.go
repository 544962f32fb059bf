// Package cache provides a small key-value cache used to memoize
// roadmap generation results.
package cache

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrMiss indicates the key is not present in the cache.
var ErrMiss = errors.New("cache miss")

// Cache stores opaque byte payloads under string keys with a TTL.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Close() error
}

// IsMiss checks if an error indicates a cache miss.
func IsMiss(err error) bool {
	return errors.Is(err, ErrMiss)
}

// Memory is an in-process Cache for tests and single-node development.
type Memory struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// NewMemory creates an empty in-memory cache.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]memoryEntry)}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[key]
	if !ok {
		return nil, ErrMiss
	}

	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		delete(m.entries, key)

		return nil, ErrMiss
	}

	return entry.value, nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry := memoryEntry{value: value}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}

	m.entries[key] = entry

	return nil
}

func (m *Memory) Close() error {
	return nil
}
