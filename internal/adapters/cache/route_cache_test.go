package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"sales-route-service/internal/domain"
)

func testRoute(sellerID int64) *domain.Route {
	return &domain.Route{
		SellerID:  sellerID,
		Algorithm: domain.AlgorithmNearestNeighbor,
	}
}

// fakeClock lets tests move time forward deterministically.
type fakeClock struct {
	t time.Time
}

func (f *fakeClock) Now() time.Time          { return f.t }
func (f *fakeClock) Advance(d time.Duration) { f.t = f.t.Add(d) }

func newTestCache(t *testing.T, ttl time.Duration, capacity int) (*RouteCache, *fakeClock) {
	t.Helper()

	c, err := New(ttl, capacity, nil)
	require.NoError(t, err)

	clk := &fakeClock{t: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)}
	c.now = clk.Now
	return c, clk
}

func TestKeyIsOrderIndependent(t *testing.T) {
	base := Key(7, []int64{1, 2, 3})

	require.Equal(t, base, Key(7, []int64{3, 1, 2}))
	require.Equal(t, base, Key(7, []int64{2, 3, 1}))
	// Duplicates collapse to the same set.
	require.Equal(t, base, Key(7, []int64{1, 1, 2, 3, 3}))

	require.NotEqual(t, base, Key(8, []int64{1, 2, 3}))
	require.NotEqual(t, base, Key(7, []int64{1, 2, 3, 4}))
}

func TestGetMissThenHit(t *testing.T) {
	c, _ := newTestCache(t, 24*time.Hour, 10)
	ids := []int64{1, 2}

	_, _, ok := c.Get(1, ids)
	require.False(t, ok)

	c.Put(1, ids, testRoute(1))

	got, age, ok := c.Get(1, []int64{2, 1}) // permuted ids hit the same key
	require.True(t, ok)
	require.Equal(t, int64(1), got.SellerID)
	require.Equal(t, time.Duration(0), age)

	st := c.Stats()
	require.Equal(t, int64(1), st.Hits)
	require.Equal(t, int64(1), st.Misses)
	require.InDelta(t, 0.5, st.HitRate, 0.0001)
}

func TestTTLExpiry(t *testing.T) {
	ttl := 24 * time.Hour
	c, clk := newTestCache(t, ttl, 10)
	ids := []int64{5}

	c.Put(9, ids, testRoute(9))

	clk.Advance(ttl - time.Second)
	_, age, ok := c.Get(9, ids)
	require.True(t, ok, "entry younger than TTL must hit")
	require.Equal(t, ttl-time.Second, age)

	clk.Advance(2 * time.Second)
	_, _, ok = c.Get(9, ids)
	require.False(t, ok, "entry older than TTL must miss")

	// Expiry detection purges the entry immediately.
	require.Equal(t, 0, c.Stats().Size)
	require.False(t, c.EntryInfo(9, ids).Exists)
}

func TestLRUEvictionRemovesLeastRecentlyAccessed(t *testing.T) {
	c, clk := newTestCache(t, 24*time.Hour, 2)

	c.Put(1, []int64{1}, testRoute(1))
	clk.Advance(time.Minute)
	c.Put(2, []int64{2}, testRoute(2))
	clk.Advance(time.Minute)

	// Touch seller 1 so seller 2 becomes the least recently accessed,
	// even though its entry was created later.
	_, _, ok := c.Get(1, []int64{1})
	require.True(t, ok)

	c.Put(3, []int64{3}, testRoute(3))

	require.True(t, c.EntryInfo(1, []int64{1}).Exists)
	require.False(t, c.EntryInfo(2, []int64{2}).Exists, "LRU entry must be evicted")
	require.True(t, c.EntryInfo(3, []int64{3}).Exists)
	require.Equal(t, 2, c.Stats().Size)
}

func TestPutOverwritesSameKey(t *testing.T) {
	c, _ := newTestCache(t, 24*time.Hour, 2)

	first := testRoute(4)
	second := testRoute(4)
	second.Algorithm = domain.AlgorithmOpenRouteAPI

	c.Put(4, []int64{1, 2}, first)
	c.Put(4, []int64{2, 1}, second)

	require.Equal(t, 1, c.Stats().Size)
	got, _, ok := c.Get(4, []int64{1, 2})
	require.True(t, ok)
	require.Equal(t, domain.AlgorithmOpenRouteAPI, got.Algorithm)
}

func TestInvalidateSellerScope(t *testing.T) {
	c, _ := newTestCache(t, 24*time.Hour, 10)

	c.Put(1, []int64{1, 2}, testRoute(1))
	c.Put(1, []int64{1, 2, 3}, testRoute(1))
	c.Put(2, []int64{4}, testRoute(2))

	removed := c.InvalidateSeller(1)
	require.Equal(t, 2, removed)

	require.False(t, c.EntryInfo(1, []int64{1, 2}).Exists)
	require.False(t, c.EntryInfo(1, []int64{1, 2, 3}).Exists)
	require.True(t, c.EntryInfo(2, []int64{4}).Exists, "other sellers must be untouched")
	require.Equal(t, int64(2), c.Stats().Invalidations)

	// Invalidating a seller with no entries is a no-op.
	require.Equal(t, 0, c.InvalidateSeller(99))
}

func TestInvalidateAll(t *testing.T) {
	c, _ := newTestCache(t, 24*time.Hour, 10)

	c.Put(1, []int64{1}, testRoute(1))
	c.Put(2, []int64{2}, testRoute(2))

	require.Equal(t, 2, c.InvalidateAll())
	require.Equal(t, 0, c.Stats().Size)
	require.Equal(t, int64(2), c.Stats().Invalidations)

	require.Equal(t, 0, c.InvalidateAll(), "clearing an empty cache is a no-op")
}

func TestStatsBeforeAnyRequest(t *testing.T) {
	c, _ := newTestCache(t, 12*time.Hour, 10)

	st := c.Stats()
	require.Zero(t, st.Hits)
	require.Zero(t, st.Misses)
	require.Zero(t, st.HitRate)
	require.Equal(t, 10, st.Capacity)
	require.InDelta(t, 12.0, st.TTLHours, 0.0001)
}

func TestEntryInfoDoesNotRefreshRecency(t *testing.T) {
	c, clk := newTestCache(t, 24*time.Hour, 2)

	c.Put(1, []int64{1}, testRoute(1))
	clk.Advance(time.Minute)
	c.Put(2, []int64{2}, testRoute(2))

	// Peeking at seller 1 must not rescue it from eviction.
	require.True(t, c.EntryInfo(1, []int64{1}).Exists)

	c.Put(3, []int64{3}, testRoute(3))
	require.False(t, c.EntryInfo(1, []int64{1}).Exists)
	require.True(t, c.EntryInfo(2, []int64{2}).Exists)
}
