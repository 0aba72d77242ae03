package dto

import (
	"sales-route-service/internal/adapters/cache"
	"sales-route-service/internal/domain"
	"sales-route-service/internal/ports"
	"sales-route-service/internal/services"
)

// RoutePoint is one ordered stop in the response.
type RoutePoint struct {
	ShopkeeperID           int64   `json:"shopkeeper_id"`
	ShopkeeperName         string  `json:"shopkeeper_name"`
	BusinessName           string  `json:"business_name,omitempty"`
	Address                string  `json:"address"`
	Latitude               float64 `json:"latitude"`
	Longitude              float64 `json:"longitude"`
	Order                  int     `json:"order"`
	DistanceFromPreviousKm float64 `json:"distance_from_previous_km"`
	CumulativeDistanceKm   float64 `json:"cumulative_distance_km"`
}

type RouteStatistics struct {
	TotalShopkeepers              int     `json:"total_shopkeepers"`
	TotalDistanceKm               float64 `json:"total_distance_km"`
	EstimatedTravelTimeHours      float64 `json:"estimated_travel_time_hours"`
	EstimatedVisitTimeHours       float64 `json:"estimated_visit_time_hours"`
	EstimatedTotalTimeHours       float64 `json:"estimated_total_time_hours"`
	AverageDistanceBetweenStopsKm float64 `json:"average_distance_between_stops_km"`
}

type OptimizedRouteResponse struct {
	SellerID        int64           `json:"seller_id"`
	SellerName      string          `json:"seller_name"`
	RoutePoints     []RoutePoint    `json:"route_points"`
	Statistics      RouteStatistics `json:"statistics"`
	AlgorithmUsed   string          `json:"algorithm_used"`
	FromCache       bool            `json:"from_cache"`
	CacheAgeMinutes int             `json:"cache_age_minutes"`

	// Present only when the external API contributed a road estimate;
	// the per-leg breakdown above is always geodesic.
	RoadDistanceKm      *float64 `json:"road_distance_km,omitempty"`
	RoadDurationMinutes *float64 `json:"road_duration_minutes,omitempty"`
}

func FromRoute(r *domain.Route) OptimizedRouteResponse {
	points := make([]RoutePoint, 0, len(r.Legs))
	for _, leg := range r.Legs {
		points = append(points, RoutePoint{
			ShopkeeperID:           leg.Stop.ShopkeeperID,
			ShopkeeperName:         leg.Stop.Name,
			BusinessName:           leg.Stop.BusinessName,
			Address:                leg.Stop.Address,
			Latitude:               leg.Stop.Location.Lat,
			Longitude:              leg.Stop.Location.Lon,
			Order:                  leg.Order,
			DistanceFromPreviousKm: leg.DistanceFromPrevKm,
			CumulativeDistanceKm:   leg.CumulativeDistanceKm,
		})
	}

	out := OptimizedRouteResponse{
		SellerID:    r.SellerID,
		SellerName:  r.SellerName,
		RoutePoints: points,
		Statistics: RouteStatistics{
			TotalShopkeepers:              r.Statistics.TotalStops,
			TotalDistanceKm:               r.Statistics.TotalDistanceKm,
			EstimatedTravelTimeHours:      r.Statistics.EstimatedTravelTimeHours,
			EstimatedVisitTimeHours:       r.Statistics.EstimatedVisitTimeHours,
			EstimatedTotalTimeHours:       r.Statistics.EstimatedTotalTimeHours,
			AverageDistanceBetweenStopsKm: r.Statistics.AvgDistanceBetweenKm,
		},
		AlgorithmUsed:   r.Algorithm,
		FromCache:       r.FromCache,
		CacheAgeMinutes: r.CacheAgeMinutes,
	}

	if r.Road != nil {
		out.RoadDistanceKm = &r.Road.DistanceKm
		out.RoadDurationMinutes = &r.Road.DurationMinutes
	}
	return out
}

type AlgorithmSummary struct {
	NumStops        int     `json:"num_stops"`
	TotalDistanceKm float64 `json:"total_distance_km"`
}

type CompareAlgorithmsResponse struct {
	SellerID   int64                       `json:"seller_id"`
	SellerName string                      `json:"seller_name"`
	Algorithms map[string]AlgorithmSummary `json:"algorithms"`
}

func FromComparison(c *services.AlgorithmComparison) CompareAlgorithmsResponse {
	return CompareAlgorithmsResponse{
		SellerID:   c.SellerID,
		SellerName: c.SellerName,
		Algorithms: map[string]AlgorithmSummary{
			"nearest_neighbor": {
				NumStops:        c.NearestNeighborStops,
				TotalDistanceKm: c.NearestNeighborTotalKm,
			},
			"original_order": {
				NumStops:        c.OriginalOrderStops,
				TotalDistanceKm: c.OriginalOrderTotalKm,
			},
		},
	}
}

type CacheStatsResponse struct {
	Cache    cache.Stats          `json:"cache"`
	Provider *ports.ProviderUsage `json:"provider,omitempty"`
}

type InvalidationResponse struct {
	SellerID int64 `json:"seller_id,omitempty"`
	Removed  int   `json:"removed"`
}
