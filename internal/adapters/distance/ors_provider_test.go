package distance

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"sales-route-service/internal/domain"
	"sales-route-service/internal/ports"
)

func testProvider(t *testing.T, handler http.Handler) *ORSProvider {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	p := NewORSProvider("test-key", zap.NewNop())
	p.baseURL = srv.URL
	return p
}

func testPoints() []domain.Coordinates {
	return []domain.Coordinates{
		{Lat: 4.6097, Lon: -74.0817},
		{Lat: 4.6533, Lon: -74.0602},
	}
}

func TestDirectionsSuccess(t *testing.T) {
	var gotAuth string
	var gotBody directionsRequest

	p := testProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v2/directions/driving-car", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		json.NewEncoder(w).Encode(map[string]any{
			"routes": []map[string]any{{
				"summary":  map[string]float64{"distance": 15347.0, "duration": 1712.0},
				"geometry": "encoded-polyline",
			}},
		})
	}))

	est, err := p.Directions(context.Background(), testPoints())
	require.NoError(t, err)

	require.Equal(t, "test-key", gotAuth)

	// Coordinates go over the wire longitude-first.
	require.Equal(t, [][]float64{{-74.0817, 4.6097}, {-74.0602, 4.6533}}, gotBody.Coordinates)
	require.True(t, gotBody.Geometry)
	require.False(t, gotBody.Instructions)

	require.InDelta(t, 15.35, est.DistanceKm, 0.001)
	require.InDelta(t, 28.5, est.DurationMinutes, 0.001)
	require.Equal(t, "encoded-polyline", est.Geometry)
}

func TestDirectionsRateLimitedIsUnavailable(t *testing.T) {
	var hits int32
	p := testProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))

	_, err := p.Directions(context.Background(), testPoints())
	require.ErrorIs(t, err, ports.ErrProviderUnavailable)
	require.EqualValues(t, 3, atomic.LoadInt32(&hits), "429 responses are retried before giving up")
}

func TestDirectionsBadRequestNotRetried(t *testing.T) {
	var hits int32
	p := testProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		http.Error(w, `{"error":"invalid coordinates"}`, http.StatusBadRequest)
	}))

	_, err := p.Directions(context.Background(), testPoints())
	require.ErrorIs(t, err, ports.ErrProviderUnavailable)
	require.EqualValues(t, 1, atomic.LoadInt32(&hits))
}

func TestDirectionsMalformedBody(t *testing.T) {
	p := testProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))

	_, err := p.Directions(context.Background(), testPoints())
	require.ErrorIs(t, err, ports.ErrProviderUnavailable)
}

func TestDirectionsEmptyRoutes(t *testing.T) {
	p := testProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"routes":[]}`))
	}))

	_, err := p.Directions(context.Background(), testPoints())
	require.ErrorIs(t, err, ports.ErrProviderUnavailable)
}

func TestDirectionsMissingAPIKey(t *testing.T) {
	p := NewORSProvider("", zap.NewNop())

	_, err := p.Directions(context.Background(), testPoints())
	require.ErrorIs(t, err, ports.ErrProviderUnavailable)
}

func TestDirectionsSinglePoint(t *testing.T) {
	p := NewORSProvider("test-key", zap.NewNop())

	_, err := p.Directions(context.Background(), testPoints()[:1])
	require.ErrorIs(t, err, ports.ErrProviderUnavailable)
}

func TestUsageCountsSuccessfulCallsOnly(t *testing.T) {
	ok := true
	p := testProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !ok {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Write([]byte(`{"routes":[{"summary":{"distance":1000,"duration":60},"geometry":""}]}`))
	}))

	_, err := p.Directions(context.Background(), testPoints())
	require.NoError(t, err)
	_, err = p.Directions(context.Background(), testPoints())
	require.NoError(t, err)

	ok = false
	_, err = p.Directions(context.Background(), testPoints())
	require.Error(t, err)

	u := p.Usage()
	require.Equal(t, int64(2), u.TotalRequests)
	require.Equal(t, int64(2), u.Today)
	require.Equal(t, int64(2), u.LastMinute)
	require.Equal(t, orsDailyLimit, u.DailyLimit)
	require.Equal(t, orsPerMinuteLimit, u.PerMinuteLimit)
	require.Equal(t, "OpenRouteService", u.Service)
}

func TestUsageCounterWindowReset(t *testing.T) {
	var u usageCounter
	base := time.Date(2025, 3, 10, 12, 0, 30, 0, time.UTC)

	u.inc(base)
	u.inc(base.Add(10 * time.Second))

	total, today, lastMinute := u.snapshot(base.Add(10 * time.Second))
	require.Equal(t, int64(2), total)
	require.Equal(t, int64(2), today)
	require.Equal(t, int64(2), lastMinute)

	// Next minute: the minute window is stale, the day window still counts.
	u.inc(base.Add(2 * time.Minute))
	total, today, lastMinute = u.snapshot(base.Add(2 * time.Minute))
	require.Equal(t, int64(3), total)
	require.Equal(t, int64(3), today)
	require.Equal(t, int64(1), lastMinute)

	// Next day: only the lifetime total survives.
	total, today, lastMinute = u.snapshot(base.Add(25 * time.Hour))
	require.Equal(t, int64(3), total)
	require.Zero(t, today)
	require.Zero(t, lastMinute)
}
