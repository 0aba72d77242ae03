package ports

import (
	"context"
	"errors"

	"sales-route-service/internal/domain"
)

// ErrProviderUnavailable signals that the external road-network API failed
// for any reason (timeout, HTTP error, quota, malformed response, missing
// credential). Callers must treat it as a soft failure and fall back to
// geodesic computation; it is never surfaced to the HTTP caller as an error.
var ErrProviderUnavailable = errors.New("directions provider unavailable")

// RouteEstimate is a road-network evaluation of one ordered set of points.
type RouteEstimate struct {
	DistanceKm      float64
	DurationMinutes float64
	Geometry        string
}

// Contract for evaluating an ordered route against a road network.
type DirectionsProvider interface {
	// Directions evaluates the points in the given order. Failures are
	// reported as ErrProviderUnavailable (possibly wrapped).
	Directions(ctx context.Context, points []domain.Coordinates) (RouteEstimate, error)
}

// ProviderUsage is an observability snapshot of external API consumption.
// The remote quota is enforced remotely; these numbers only describe it.
type ProviderUsage struct {
	TotalRequests  int64  `json:"total_requests"`
	LastMinute     int64  `json:"last_minute_requests"`
	Today          int64  `json:"today_requests"`
	DailyLimit     int    `json:"daily_limit"`
	PerMinuteLimit int    `json:"minute_limit"`
	Service        string `json:"service"`
}

// Optional extension implemented by providers that count their calls.
type UsageReporter interface {
	Usage() ProviderUsage
}
