package distance

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"time"

	"go.uber.org/zap"

	"sales-route-service/internal/domain"
	"sales-route-service/internal/platform/obs"
	"sales-route-service/internal/ports"
)

// Free-tier OpenRouteService quota, enforced remotely. Kept here so usage
// reports can show consumption against the documented limits.
const (
	orsDailyLimit     = 2000
	orsPerMinuteLimit = 40
)

// ORSProvider implements DirectionsProvider against OpenRouteService.
//
// Every failure mode (missing credential, timeout, HTTP error, rate limit,
// malformed payload) surfaces as ports.ErrProviderUnavailable so callers
// degrade to geodesic routing instead of failing the request.
//
// Safe for concurrent use.
type ORSProvider struct {
	session *http.Client
	apiKey  string
	baseURL string
	profile string
	logger  *zap.Logger
	usage   usageCounter
}

type directionsRequest struct {
	Coordinates  [][]float64 `json:"coordinates"`
	Instructions bool        `json:"instructions"`
	Elevation    bool        `json:"elevation"`
	Geometry     bool        `json:"geometry"`
}

type directionsResponse struct {
	Routes []struct {
		Summary struct {
			Distance float64 `json:"distance"` // meters
			Duration float64 `json:"duration"` // seconds
		} `json:"summary"`
		Geometry string `json:"geometry"`
	} `json:"routes"`
}

func NewORSProvider(apiKey string, logger *zap.Logger) *ORSProvider {
	return &ORSProvider{
		session: &http.Client{Timeout: 30 * time.Second},
		apiKey:  apiKey,
		baseURL: "https://api.openrouteservice.org",
		profile: "driving-car",
		logger:  logger,
	}
}

// Directions evaluates the given points in order via /v2/directions.
// Points are serialized longitude-first, the inverse of the internal
// convention; this swap is the one boundary translation the provider owns.
func (o *ORSProvider) Directions(ctx context.Context, points []domain.Coordinates) (_ ports.RouteEstimate, err error) {
	defer obs.Time(o.logger, "ors.directions")(&err)

	if o.apiKey == "" {
		return ports.RouteEstimate{}, fmt.Errorf("%w: api key not configured", ports.ErrProviderUnavailable)
	}
	if len(points) < 2 {
		return ports.RouteEstimate{}, fmt.Errorf("%w: need at least 2 points, got %d", ports.ErrProviderUnavailable, len(points))
	}

	coords := make([][]float64, 0, len(points))
	for _, p := range points {
		coords = append(coords, p.CoordsToList())
	}

	payload, err := json.Marshal(directionsRequest{
		Coordinates: coords,
		Geometry:    true,
	})
	if err != nil {
		return ports.RouteEstimate{}, fmt.Errorf("%w: marshal directions request: %s", ports.ErrProviderUnavailable, err)
	}

	endpoint := fmt.Sprintf("%s/v2/directions/%s", o.baseURL, o.profile)
	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		return o.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	})
	if err != nil {
		return ports.RouteEstimate{}, fmt.Errorf("%w: %s", ports.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	var dr directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return ports.RouteEstimate{}, fmt.Errorf("%w: decode directions response: %s", ports.ErrProviderUnavailable, err)
	}
	if len(dr.Routes) == 0 {
		return ports.RouteEstimate{}, fmt.Errorf("%w: no routes in response", ports.ErrProviderUnavailable)
	}

	o.usage.inc(time.Now())

	summary := dr.Routes[0].Summary
	est := ports.RouteEstimate{
		DistanceKm:      math.Round(summary.Distance/1000*100) / 100,
		DurationMinutes: math.Round(summary.Duration/60*10) / 10,
		Geometry:        dr.Routes[0].Geometry,
	}

	o.logger.Debug("directions evaluated",
		zap.Int("points", len(points)),
		zap.Float64("distance_km", est.DistanceKm),
		zap.Float64("duration_min", est.DurationMinutes),
	)
	return est, nil
}

// Usage reports successful call counts against the documented quota.
func (o *ORSProvider) Usage() ports.ProviderUsage {
	total, today, lastMinute := o.usage.snapshot(time.Now())
	return ports.ProviderUsage{
		TotalRequests:  total,
		Today:          today,
		LastMinute:     lastMinute,
		DailyLimit:     orsDailyLimit,
		PerMinuteLimit: orsPerMinuteLimit,
		Service:        "OpenRouteService",
	}
}
