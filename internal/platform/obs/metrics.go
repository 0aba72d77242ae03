package obs

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated Prometheus registry for the service.
	Registry = prometheus.NewRegistry()

	// HTTPRequests counts requests by method, route pattern, and status.
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
		[]string{"method", "path", "status"},
	)
	// HTTPDuration records request durations in seconds.
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"method", "path", "status"},
	)

	CacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "route_cache_hits_total", Help: "Route cache hits."},
	)
	CacheMisses = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "route_cache_misses_total", Help: "Route cache misses."},
	)
	CacheEvictions = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "route_cache_evictions_total", Help: "Route cache LRU evictions."},
	)
	CacheInvalidations = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "route_cache_invalidations_total", Help: "Route cache entries removed by explicit invalidation."},
	)
)

var regOnce sync.Once

// RegisterDefault registers all collectors on the service registry.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(HTTPRequests)
		Registry.MustRegister(HTTPDuration)
		Registry.MustRegister(CacheHits)
		Registry.MustRegister(CacheMisses)
		Registry.MustRegister(CacheEvictions)
		Registry.MustRegister(CacheInvalidations)
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}

// PromCacheObserver forwards route cache events to Prometheus counters.
// Satisfies the cache package's Observer interface.
type PromCacheObserver struct{}

func (PromCacheObserver) CacheHit()      { CacheHits.Inc() }
func (PromCacheObserver) CacheMiss()     { CacheMisses.Inc() }
func (PromCacheObserver) CacheEviction() { CacheEvictions.Inc() }
func (PromCacheObserver) CacheInvalidation(count int) {
	CacheInvalidations.Add(float64(count))
}
