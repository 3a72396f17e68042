package cache

import (
	"sync"
	"time"

	"github.com/restockd/restockd/internal/models"
)

// entry holds a cached check result with its creation timestamp.
type entry struct {
	result    *models.CheckResult
	createdAt time.Time
}

// ResultCache memoizes check results per URL for a short time window so
// bursts of checks against the same product do not trigger redundant
// fetches. It is safe for concurrent use.
type ResultCache struct {
	mu    sync.Mutex
	ttl   time.Duration
	store map[string]*entry
}

func New(ttl time.Duration) *ResultCache {
	return &ResultCache{
		ttl:   ttl,
		store: make(map[string]*entry),
	}
}

// Get returns the cached result for url if it is younger than the TTL.
// Expired entries are evicted on read.
func (c *ResultCache) Get(url string, now time.Time) (*models.CheckResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.store[url]
	if !ok {
		return nil, false
	}

	if now.Sub(e.createdAt) >= c.ttl {
		delete(c.store, url)
		return nil, false
	}

	return e.result, true
}

// Put stores a result for url stamped with now.
func (c *ResultCache) Put(url string, result *models.CheckResult, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.store[url] = &entry{result: result, createdAt: now}
}

func (c *ResultCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.store)
}
