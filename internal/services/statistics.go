package services

import "sales-route-service/internal/domain"

// Default time-estimate assumptions: average urban driving speed and dwell
// time per shopkeeper visit.
const (
	DefaultAvgSpeedKmh  = 25.0
	DefaultVisitMinutes = 10.0
)

// BuildStatistics derives the read-only aggregate for a completed route.
// Total distance is the last cumulative leg distance, so it always matches
// the geodesic per-leg breakdown regardless of which planner produced it.
func BuildStatistics(legs []domain.RouteLeg, avgSpeedKmh, visitMinutes float64) domain.RouteStatistics {
	if avgSpeedKmh <= 0 {
		avgSpeedKmh = DefaultAvgSpeedKmh
	}
	if visitMinutes <= 0 {
		visitMinutes = DefaultVisitMinutes
	}

	total := 0.0
	if len(legs) > 0 {
		total = legs[len(legs)-1].CumulativeDistanceKm
	}

	travelHours := total / avgSpeedKmh
	visitHours := float64(len(legs)) * visitMinutes / 60

	avgBetween := 0.0
	if len(legs) > 0 {
		avgBetween = total / float64(len(legs))
	}

	return domain.RouteStatistics{
		TotalStops:               len(legs),
		TotalDistanceKm:          round2(total),
		EstimatedTravelTimeHours: round2(travelHours),
		EstimatedVisitTimeHours:  round2(visitHours),
		EstimatedTotalTimeHours:  round2(travelHours + visitHours),
		AvgDistanceBetweenKm:     round2(avgBetween),
	}
}
