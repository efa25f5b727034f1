// Package cache provides the process-wide TTL caches used for salary insights
// and job-board results. Entries expire lazily on read and are swept
// periodically; an optional second tier (Redis) survives restarts.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Store is a byte-oriented second tier behind the in-memory map.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

type TTL[V any] struct {
	mu      sync.RWMutex
	entries map[string]entry[V]
	ttl     time.Duration
	now     func() time.Time
	l2      Store
	prefix  string
	log     *zap.Logger
}

type Option[V any] func(*TTL[V])

// WithClock injects the time source used for expiry.
func WithClock[V any](now func() time.Time) Option[V] {
	return func(c *TTL[V]) {
		if now != nil {
			c.now = now
		}
	}
}

// WithStore adds a second tier. Values are stored there as JSON under
// prefix-qualified keys.
func WithStore[V any](store Store, prefix string) Option[V] {
	return func(c *TTL[V]) {
		c.l2 = store
		c.prefix = prefix
	}
}

func WithLogger[V any](log *zap.Logger) Option[V] {
	return func(c *TTL[V]) {
		if log != nil {
			c.log = log
		}
	}
}

// New creates a cache whose entries live for ttl. A zero or negative ttl makes
// every entry expire immediately.
func New[V any](ttl time.Duration, opts ...Option[V]) *TTL[V] {
	c := &TTL[V]{
		entries: make(map[string]entry[V]),
		ttl:     ttl,
		now:     time.Now,
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Key builds a deterministic key from parts, ignoring case and surrounding space.
func Key(parts ...string) string {
	normalized := make([]string, len(parts))
	for i, p := range parts {
		normalized[i] = strings.ToLower(strings.TrimSpace(p))
	}
	return strings.Join(normalized, "|")
}

func (c *TTL[V]) TTL() time.Duration {
	return c.ttl
}

// Get returns a live entry. Expired entries are removed on read. On a first
// tier miss the second tier is consulted and a hit is copied back.
func (c *TTL[V]) Get(ctx context.Context, key string) (V, bool) {
	now := c.now()

	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if ok {
		if now.Before(e.expiresAt) {
			return e.value, true
		}
		c.mu.Lock()
		if cur, still := c.entries[key]; still && !now.Before(cur.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
	}

	var zero V
	if c.l2 == nil || c.ttl <= 0 {
		return zero, false
	}

	raw, found, err := c.l2.Get(ctx, c.storeKey(key))
	if err != nil {
		c.log.Debug("cache second tier get failed", zap.String("key", key), zap.Error(err))
		return zero, false
	}
	if !found {
		return zero, false
	}

	var v V
	if err := json.Unmarshal(raw, &v); err != nil {
		c.log.Debug("cache second tier value is corrupt", zap.String("key", key), zap.Error(err))
		return zero, false
	}

	c.mu.Lock()
	c.entries[key] = entry[V]{value: v, expiresAt: now.Add(c.ttl)}
	c.mu.Unlock()

	return v, true
}

func (c *TTL[V]) Set(ctx context.Context, key string, value V) {
	c.mu.Lock()
	c.entries[key] = entry[V]{value: value, expiresAt: c.now().Add(c.ttl)}
	c.mu.Unlock()

	if c.l2 == nil || c.ttl <= 0 {
		return
	}

	raw, err := json.Marshal(value)
	if err != nil {
		c.log.Debug("cache value is not serializable", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.l2.Set(ctx, c.storeKey(key), raw, c.ttl); err != nil {
		c.log.Debug("cache second tier set failed", zap.String("key", key), zap.Error(err))
	}
}

// GetOrLoad returns the cached value or calls load and caches its result. Load
// errors are returned and not cached.
func (c *TTL[V]) GetOrLoad(ctx context.Context, key string, load func(context.Context) (V, error)) (V, error) {
	if v, ok := c.Get(ctx, key); ok {
		return v, nil
	}
	v, err := load(ctx)
	if err != nil {
		var zero V
		return zero, err
	}
	c.Set(ctx, key, v)
	return v, nil
}

// Len reports the number of first tier entries, expired ones included.
func (c *TTL[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Sweep drops expired first tier entries and returns how many were removed.
func (c *TTL[V]) Sweep() int {
	now := c.now()
	removed := 0

	c.mu.Lock()
	for k, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, k)
			removed++
		}
	}
	c.mu.Unlock()

	return removed
}

// StartSweeper runs Sweep every interval until ctx is done.
func (c *TTL[V]) StartSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := c.Sweep(); n > 0 {
					c.log.Debug("cache sweep", zap.Int("removed", n), zap.Int("remaining", c.Len()))
				}
			}
		}
	}()
}

func (c *TTL[V]) storeKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return fmt.Sprintf("%s:%x", c.prefix, sum[:12])
}
