// Package cache stores marshaled document snapshots keyed by BSON key so
// documents can be repopulated cheaply. The memcached backend shares
// snapshots across processes.
package cache

import (
	"context"
	"sync"
	"time"
)

// Cache is the snapshot cache interface. Get returns the snapshot if
// present and not expired; Set stores a snapshot with a TTL.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, snapshot []byte, ttl time.Duration) error
}

type entry struct {
	snapshot  []byte
	expiresAt time.Time
}

// InMemoryCache implements Cache with a TTL map. Expired entries are
// dropped on access. Safe for concurrent use.
type InMemoryCache struct {
	mu   sync.Mutex
	data map[string]entry
}

// NewInMemoryCache creates an empty in-memory snapshot cache.
func NewInMemoryCache() *InMemoryCache {
	return &InMemoryCache{data: make(map[string]entry)}
}

// Get returns the snapshot for the key if present and not expired.
func (c *InMemoryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if ctx.Err() != nil {
		return nil, false, ctx.Err()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.data[key]
	if !ok {
		return nil, false, nil
	}
	if time.Now().After(e.expiresAt) {
		delete(c.data, key)
		return nil, false, nil
	}
	return e.snapshot, true, nil
}

// Set stores the snapshot under the key for the TTL duration.
func (c *InMemoryCache) Set(ctx context.Context, key string, snapshot []byte, ttl time.Duration) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.data[key] = entry{
		snapshot:  snapshot,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}
