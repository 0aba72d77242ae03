package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"math"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"sales-route-service/internal/domain"
)

// Observer receives cache events for observability. Implementations must be
// safe for concurrent use.
type Observer interface {
	CacheHit()
	CacheMiss()
	CacheEviction()
	CacheInvalidation(count int)
}

// NoopObserver discards all events. Used in tests.
type NoopObserver struct{}

func (NoopObserver) CacheHit()             {}
func (NoopObserver) CacheMiss()            {}
func (NoopObserver) CacheEviction()        {}
func (NoopObserver) CacheInvalidation(int) {}

type entry struct {
	route      *domain.Route
	createdAt  time.Time
	lastAccess time.Time
	sellerID   int64
	stopCount  int
}

// RouteCache memoizes fully computed routes keyed by (seller, exact set of
// shopkeeper ids), with TTL expiry and LRU eviction under a fixed entry cap.
//
// TTL defends against staleness the cache cannot otherwise detect (road
// conditions changing on the external API); LRU bounds memory; per-seller
// invalidation covers assignment edits, which the key alone cannot reflect.
// State is pure in-memory and never survives a process restart.
//
// Safe for concurrent use.
type RouteCache struct {
	ttl      time.Duration
	capacity int

	mu            sync.Mutex
	entries       *lru.Cache[string, *entry]
	hits          int64
	misses        int64
	invalidations int64
	obs           Observer
	now           func() time.Time
}

// Stats is a point-in-time snapshot of cache behavior.
type Stats struct {
	Size          int     `json:"size"`
	Capacity      int     `json:"max_size"`
	Hits          int64   `json:"hits"`
	Misses        int64   `json:"misses"`
	HitRate       float64 `json:"hit_rate"`
	Invalidations int64   `json:"invalidations"`
	TTLHours      float64 `json:"ttl_hours"`
}

// EntryInfo describes one cached entry without touching its recency.
type EntryInfo struct {
	Exists           bool `json:"exists"`
	AgeMinutes       int  `json:"age_minutes,omitempty"`
	StopCount        int  `json:"shopkeeper_count,omitempty"`
	ExpiresInMinutes int  `json:"expires_in_minutes,omitempty"`
}

func New(ttl time.Duration, capacity int, obs Observer) (*RouteCache, error) {
	if ttl <= 0 {
		return nil, errors.New("route cache: ttl must be positive")
	}
	if obs == nil {
		obs = NoopObserver{}
	}

	entries, err := lru.New[string, *entry](capacity)
	if err != nil {
		return nil, err
	}

	return &RouteCache{
		ttl:      ttl,
		capacity: capacity,
		entries:  entries,
		obs:      obs,
		now:      time.Now,
	}, nil
}

// Key derives the deterministic cache key for (seller, set of shopkeeper ids).
// IDs are deduplicated and sorted before hashing, so any permutation of the
// same set resolves to the same key and reordering the underlying assignment
// list never causes a spurious miss.
func Key(sellerID int64, stopIDs []int64) string {
	ids := make([]int64, 0, len(stopIDs))
	seen := make(map[int64]struct{}, len(stopIDs))
	for _, id := range stopIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var b strings.Builder
	b.WriteString("seller:")
	b.WriteString(strconv.FormatInt(sellerID, 10))
	b.WriteString(":shopkeepers:")
	for i, id := range ids {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatInt(id, 10))
	}

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])[:16]
}

// Get returns the cached route and its age, or ok=false on miss. An entry
// whose age has reached the TTL is purged immediately and reported as a miss.
// A hit refreshes the entry's recency and last-access timestamp.
func (c *RouteCache) Get(sellerID int64, stopIDs []int64) (*domain.Route, time.Duration, bool) {
	key := Key(sellerID, stopIDs)

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries.Get(key)
	if !ok {
		c.misses++
		c.obs.CacheMiss()
		return nil, 0, false
	}

	age := c.now().Sub(e.createdAt)
	if age >= c.ttl {
		c.entries.Remove(key)
		c.misses++
		c.obs.CacheMiss()
		return nil, 0, false
	}

	e.lastAccess = c.now()
	c.hits++
	c.obs.CacheHit()
	return e.route, age, true
}

// Put stores a computed route, overwriting any existing entry for the same
// key. At capacity the least-recently-accessed entry is evicted first.
func (c *RouteCache) Put(sellerID int64, stopIDs []int64, route *domain.Route) {
	key := Key(sellerID, stopIDs)
	ts := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	evicted := c.entries.Add(key, &entry{
		route:      route,
		createdAt:  ts,
		lastAccess: ts,
		sellerID:   sellerID,
		stopCount:  len(stopIDs),
	})
	if evicted {
		c.obs.CacheEviction()
	}
}

// InvalidateSeller removes every entry owned by the seller, regardless of key.
// Must be called whenever an assignment is created, reassigned or removed for
// that seller (on both sides of a reassignment). Returns the removal count;
// an empty cache is a no-op, not an error.
func (c *RouteCache) InvalidateSeller(sellerID int64) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for _, key := range c.entries.Keys() {
		if e, ok := c.entries.Peek(key); ok && e.sellerID == sellerID {
			c.entries.Remove(key)
			removed++
		}
	}

	if removed > 0 {
		c.invalidations += int64(removed)
		c.obs.CacheInvalidation(removed)
	}
	return removed
}

// InvalidateAll clears the entire cache. Administrative operation.
func (c *RouteCache) InvalidateAll() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := c.entries.Len()
	c.entries.Purge()

	if removed > 0 {
		c.invalidations += int64(removed)
		c.obs.CacheInvalidation(removed)
	}
	return removed
}

// Stats returns current counters. Hit rate is 0 before any request.
func (c *RouteCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := c.hits + c.misses
	rate := 0.0
	if total > 0 {
		rate = float64(c.hits) / float64(total)
	}

	return Stats{
		Size:          c.entries.Len(),
		Capacity:      c.capacity,
		Hits:          c.hits,
		Misses:        c.misses,
		HitRate:       math.Round(rate*1000) / 1000,
		Invalidations: c.invalidations,
		TTLHours:      c.ttl.Hours(),
	}
}

// EntryInfo inspects one entry without updating its last access.
func (c *RouteCache) EntryInfo(sellerID int64, stopIDs []int64) EntryInfo {
	key := Key(sellerID, stopIDs)

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries.Peek(key)
	if !ok {
		return EntryInfo{}
	}

	age := c.now().Sub(e.createdAt)
	return EntryInfo{
		Exists:           true,
		AgeMinutes:       int(age.Minutes()),
		StopCount:        e.stopCount,
		ExpiresInMinutes: int((c.ttl - age).Minutes()),
	}
}
