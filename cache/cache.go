package cache

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/brmiles/awardscout/models"
)

// entry holds a cached record list with its fetch timestamp.
type entry struct {
	records   []models.FlightRecord
	fetchedAt time.Time
}

// Cache is an in-memory TTL cache for fetched record lists.
// It is safe for concurrent use.
//
// Only record lists are stored: banner messages and failed fetches are
// never cached, so a transient "no availability" page can't mask seats
// that open up minutes later.
//
// Maintenance is opportunistic rather than scheduled — expired entries are
// removed when a lookup touches them, and a Put that pushes the entry count
// past sweepThreshold triggers a full sweep. TTL already bounds staleness,
// so precise LRU bookkeeping would buy nothing here.
type Cache struct {
	mu             sync.Mutex
	store          map[string]*entry
	ttl            time.Duration
	sweepThreshold int
	now            func() time.Time
}

// New creates a Cache with the given TTL and sweep threshold.
func New(ttl time.Duration, sweepThreshold int) *Cache {
	return &Cache{
		store:          make(map[string]*entry),
		ttl:            ttl,
		sweepThreshold: sweepThreshold,
		now:            time.Now,
	}
}

// NewWithClock is New with an injected clock, for testing TTL behavior.
func NewWithClock(ttl time.Duration, sweepThreshold int, now func() time.Time) *Cache {
	c := New(ttl, sweepThreshold)
	c.now = now
	return c
}

// Key builds the canonical cache key for a query-based fetch. The date must
// already be in its canonical YYYY-MM-DD form — normalizing after key
// construction would split one logical query across two keys.
func Key(q models.FlightQuery) string {
	return strings.ToUpper(fmt.Sprintf("%s-%s-%s-%d",
		q.Origin, q.Destination, q.DepartureDate, q.WindowDays))
}

// Get returns the cached records for key, if present and younger than the
// TTL. An expired entry is removed on the spot and reported as absent.
func (c *Cache) Get(key string) ([]models.FlightRecord, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.store[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(e.fetchedAt) >= c.ttl {
		delete(c.store, key)
		return nil, false
	}
	return e.records, true
}

// Put stores records under key, overwriting any prior entry. When the
// entry count exceeds the sweep threshold, all expired entries are removed.
func (c *Cache) Put(key string, records []models.FlightRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.store[key] = &entry{records: records, fetchedAt: c.now()}

	if len(c.store) > c.sweepThreshold {
		c.sweep()
	}
}

// Len returns the current entry count, expired entries included.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.store)
}

// sweep removes every expired entry. Caller must hold mu.
func (c *Cache) sweep() {
	cutoff := c.now().Add(-c.ttl)
	for k, e := range c.store {
		if !e.fetchedAt.After(cutoff) {
			delete(c.store, k)
		}
	}
}
