package data

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"mana-backtest/internal/backtest"
)

const DefaultResultTTL = 1 * time.Hour

// CacheEntry is one stored simulation result.
type CacheEntry struct {
	Result    *backtest.Result
	ExpiresAt time.Time
}

// ResultCache keeps recent simulation results in memory so their full ledger
// can be fetched by id after the summary was returned.
type ResultCache struct {
	mu    sync.RWMutex
	store map[string]*CacheEntry
	ttl   time.Duration
	now   func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

// NewResultCache starts a cache with the given TTL (DefaultResultTTL when <= 0)
// and a background cleanup loop. Call Stop to end the loop.
func NewResultCache(ttl time.Duration) *ResultCache {
	if ttl <= 0 {
		ttl = DefaultResultTTL
	}
	c := &ResultCache{
		store: make(map[string]*CacheEntry),
		ttl:   ttl,
		now:   time.Now,
		stop:  make(chan struct{}),
	}
	interval := ttl / 2
	if interval > 5*time.Minute {
		interval = 5 * time.Minute
	}
	go c.cleanup(interval)
	return c
}

// Put stores a result under a fresh id and returns the id.
func (c *ResultCache) Put(res *backtest.Result) string {
	id := uuid.NewString()
	if c == nil {
		return id
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.store[id] = &CacheEntry{
		Result:    res,
		ExpiresAt: c.now().Add(c.ttl),
	}
	return id
}

// Get retrieves a cached result if available and not expired.
func (c *ResultCache) Get(id string) (*backtest.Result, bool) {
	if c == nil {
		return nil, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.store[id]
	if !exists || c.now().After(entry.ExpiresAt) {
		return nil, false
	}
	return entry.Result, true
}

func (c *ResultCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.store)
}

// Stop ends the cleanup loop and drops every entry.
func (c *ResultCache) Stop() {
	if c == nil {
		return
	}
	c.stopOnce.Do(func() { close(c.stop) })

	c.mu.Lock()
	defer c.mu.Unlock()
	c.store = make(map[string]*CacheEntry)
}

func (c *ResultCache) evictExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	for id, entry := range c.store {
		if now.After(entry.ExpiresAt) {
			delete(c.store, id)
		}
	}
}

// cleanup periodically removes expired entries.
func (c *ResultCache) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.evictExpired()
		}
	}
}
