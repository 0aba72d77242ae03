package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"sales-route-service/internal/domain"
	"sales-route-service/internal/ports"
)

// Nominatim resolves free-form addresses against the OpenStreetMap Nominatim
// API. The service requires an identifying User-Agent and allows at most one
// request per second; the limiter serializes all callers on its own queue so
// the delay never spreads to unrelated HTTP client users.
type Nominatim struct {
	session   *http.Client
	baseURL   string
	userAgent string
	limiter   *rate.Limiter
	logger    *zap.Logger
}

type searchResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

func NewNominatim(baseURL, userAgent string, logger *zap.Logger) *Nominatim {
	if baseURL == "" {
		baseURL = "https://nominatim.openstreetmap.org"
	}
	return &Nominatim{
		session:   &http.Client{Timeout: 10 * time.Second},
		baseURL:   baseURL,
		userAgent: userAgent,
		limiter:   rate.NewLimiter(rate.Every(time.Second), 1),
		logger:    logger,
	}
}

// Geocode resolves an address to coordinates. Returns domain.ErrNotFound
// when the service has no match for the query.
func (n *Nominatim) Geocode(ctx context.Context, address string) (ports.GeocodeResult, error) {
	if address == "" {
		return ports.GeocodeResult{}, fmt.Errorf("geocode: empty address: %w", domain.ErrInvalidInput)
	}

	if err := n.limiter.Wait(ctx); err != nil {
		return ports.GeocodeResult{}, fmt.Errorf("geocode: wait for rate limit: %w", err)
	}

	q := url.Values{}
	q.Set("q", address)
	q.Set("format", "json")
	q.Set("limit", "1")
	q.Set("addressdetails", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.baseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return ports.GeocodeResult{}, fmt.Errorf("geocode: create request: %w", err)
	}
	req.Header.Set("User-Agent", n.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := n.session.Do(req)
	if err != nil {
		return ports.GeocodeResult{}, fmt.Errorf("geocode %q: %w", address, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ports.GeocodeResult{}, fmt.Errorf("geocode %q: unexpected status %d", address, resp.StatusCode)
	}

	var results []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return ports.GeocodeResult{}, fmt.Errorf("geocode %q: decode response: %w", address, err)
	}
	if len(results) == 0 {
		return ports.GeocodeResult{}, fmt.Errorf("geocode %q: no results: %w", address, domain.ErrNotFound)
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return ports.GeocodeResult{}, fmt.Errorf("geocode %q: parse latitude: %w", address, err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return ports.GeocodeResult{}, fmt.Errorf("geocode %q: parse longitude: %w", address, err)
	}

	n.logger.Debug("address geocoded",
		zap.String("address", address),
		zap.Float64("lat", lat),
		zap.Float64("lon", lon),
	)
	return ports.GeocodeResult{
		Location:    domain.Coordinates{Lat: lat, Lon: lon},
		DisplayName: results[0].DisplayName,
	}, nil
}
