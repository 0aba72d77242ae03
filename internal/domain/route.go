package domain

// Algorithm tags reported on a computed route so callers can tell which
// measurement path produced it.
const (
	AlgorithmNearestNeighbor = "nearest_neighbor"
	AlgorithmOpenRouteAPI    = "openroute_api"
	// Reported when the external API failed and the planner transparently
	// redid the computation geodesically.
	AlgorithmNearestNeighborFallback = "nearest_neighbor_fallback"
)

// RouteLeg is one visited stop in a computed route.
//
// Order is 1-based, strictly increasing and contiguous. Distances are in
// kilometers, rounded to 2 decimals at each step; the cumulative distance is
// the running sum of rounded legs, so it is reproducible rather than subject
// to floating-point drift.
type RouteLeg struct {
	Stop                 Stop
	Order                int
	DistanceFromPrevKm   float64
	CumulativeDistanceKm float64
}

// RouteStatistics is a read-only aggregate over a completed route.
// Computed once per route build, never mutated afterwards.
type RouteStatistics struct {
	TotalStops               int
	TotalDistanceKm          float64
	EstimatedTravelTimeHours float64
	EstimatedVisitTimeHours  float64
	EstimatedTotalTimeHours  float64
	AvgDistanceBetweenKm     float64
}

// RoadEstimate is the road-network measurement returned by the external
// directions API. It is reported alongside the geodesic per-leg breakdown,
// never mixed into it, so each field family has a single measurement method.
type RoadEstimate struct {
	DistanceKm      float64
	DurationMinutes float64
	Geometry        string
}

// Route is one fully computed visiting order for a seller.
type Route struct {
	SellerID   int64
	SellerName string
	Legs       []RouteLeg
	Statistics RouteStatistics
	Algorithm  string

	// Set only when the external API contributed a road-network estimate.
	Road *RoadEstimate

	// Cache provenance, filled by the route service.
	FromCache       bool
	CacheAgeMinutes int
}
