// Package cache holds the shared in-memory market data store. One
// background writer replaces entries per refresh cycle; any number of
// readers get immediate, non-blocking access to the best-known values.
package cache

import (
	"sync"
	"time"

	"PriceSentinel/internal/model"
)

// Status describes the freshness of a returned entry.
type Status int

const (
	// Fresh means the entry was refreshed within the stale threshold.
	Fresh Status = iota
	// Stale means the entry is older than the stale threshold. Consumers
	// decide how to treat stale data; the cache never blocks on freshness.
	Stale
)

// Cache is the process-wide market data store. Construct one per process
// (or per test) and inject it; there is no package-level instance.
type Cache struct {
	staleThreshold time.Duration
	now            func() time.Time

	mu      sync.RWMutex
	entries map[model.Instrument]model.CacheEntry
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// New creates an empty cache with the given staleness threshold.
func New(staleThreshold time.Duration, opts ...Option) *Cache {
	c := &Cache{
		staleThreshold: staleThreshold,
		now:            time.Now,
		entries:        make(map[model.Instrument]model.CacheEntry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// cloneEntry copies an entry including its bar slice, so callers can
// mutate what they get back without reaching into stored state.
func cloneEntry(e model.CacheEntry) model.CacheEntry {
	e.Series.Bars = append([]model.OHLCV(nil), e.Series.Bars...)
	return e
}

// Get returns the cached entry for an instrument. It never blocks on
// network I/O: a miss is reported via found=false, never as a zero-value
// entry. The entry is a deep copy; mutating it (bars included) does not
// affect the cache.
func (c *Cache) Get(inst model.Instrument) (entry model.CacheEntry, status Status, found bool) {
	c.mu.RLock()
	entry, found = c.entries[inst]
	c.mu.RUnlock()
	if !found {
		return model.CacheEntry{}, Stale, false
	}
	status = Fresh
	if c.now().Sub(entry.RefreshedAt) > c.staleThreshold {
		status = Stale
	}
	return cloneEntry(entry), status, true
}

// ReplaceAll merges a refresh cycle's results into the store. Entries
// present in the batch are fully replaced, series included; instruments
// absent from the batch (fetch failures) retain their prior entries.
// Readers observe the swap as all-or-nothing.
func (c *Cache) ReplaceAll(entries map[model.Instrument]model.CacheEntry) {
	if len(entries) == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	next := make(map[model.Instrument]model.CacheEntry, len(c.entries)+len(entries))
	for k, v := range c.entries {
		next[k] = v
	}
	for k, v := range entries {
		next[k] = v
	}
	c.entries = next
}

// Prune drops entries for instruments no longer tracked, bounding memory
// when portfolios shrink.
func (c *Cache) Prune(keep []model.Instrument) {
	keepSet := make(map[model.Instrument]struct{}, len(keep))
	for _, inst := range keep {
		keepSet[inst] = struct{}{}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	next := make(map[model.Instrument]model.CacheEntry, len(keepSet))
	for k, v := range c.entries {
		if _, ok := keepSet[k]; ok {
			next[k] = v
		}
	}
	c.entries = next
}

// Snapshot returns a consistent deep copy of all entries, for consumers
// that evaluate across instruments (alerting, reports).
func (c *Cache) Snapshot() map[model.Instrument]model.CacheEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snap := make(map[model.Instrument]model.CacheEntry, len(c.entries))
	for k, v := range c.entries {
		snap[k] = cloneEntry(v)
	}
	return snap
}

// Len returns the number of cached instruments.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
