package caching

import (
	"sync"
	"time"

	"github.com/dtnitsch/changelog-mcp/models"
)

const (
	DefaultTTL           = time.Hour
	DefaultSweepInterval = 10 * time.Minute
)

type entry struct {
	value     []models.Entry
	expiresAt time.Time
}

// Cache is an in-memory store of extracted entries keyed by period, with a
// per-item TTL. Expiry is checked on every read; a background sweep only
// reclaims memory.
type Cache struct {
	mu    sync.Mutex
	items map[string]entry
	now   func() time.Time

	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		if now != nil {
			c.now = now
		}
	}
}

// NewCache creates a Cache and starts its sweeper, which runs every
// sweepInterval until Close. A non-positive interval disables sweeping.
func NewCache(sweepInterval time.Duration, opts ...Option) *Cache {
	c := &Cache{
		items: make(map[string]entry),
		now:   time.Now,
		stop:  make(chan struct{}),
		done:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}

	if sweepInterval > 0 {
		go c.sweepLoop(sweepInterval)
	} else {
		close(c.done)
	}
	return c
}

// Get retrieves an item from the cache.
// It returns the entries and true if the item is found and not expired.
// Otherwise, it returns nil and false.
func (c *Cache) Get(key string) ([]models.Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, ok := c.items[key]
	if !ok {
		return nil, false // Cache miss
	}
	if !c.now().Before(item.expiresAt) {
		delete(c.items, key)
		return nil, false // Cache miss (expired)
	}
	return item.value, true
}

// Set stores value under key for ttl, replacing any previous value.
// A non-positive ttl falls back to DefaultTTL.
func (c *Cache) Set(key string, value []models.Entry, ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = entry{value: value, expiresAt: c.now().Add(ttl)}
}

// Clear removes every item regardless of TTL.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]entry)
}

// Len returns the number of stored items, expired or not.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Sweep drops every expired item and reports how many were removed.
func (c *Cache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for key, item := range c.items {
		if !now.Before(item.expiresAt) {
			delete(c.items, key)
			removed++
		}
	}
	return removed
}

// Close stops the sweeper and waits for it to exit. It is safe to call more
// than once.
func (c *Cache) Close() {
	c.stopOnce.Do(func() { close(c.stop) })
	<-c.done
}

func (c *Cache) sweepLoop(interval time.Duration) {
	defer close(c.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.Sweep()
		case <-c.stop:
			return
		}
	}
}
