package services

import (
	"context"
	"math"

	"go.uber.org/zap"

	"sales-route-service/internal/domain"
	"sales-route-service/internal/ports"
)

// PlanResult is the output of one route computation.
type PlanResult struct {
	Legs      []domain.RouteLeg
	Algorithm string
	Road      *domain.RoadEstimate
}

// PlanGeodesic orders stops with a greedy nearest-neighbor walk over
// haversine distances.
//
// The algorithm minimizes immediate travel distance at each step. It does not
// attempt global route optimization (e.g., VRP solvers); determinism and
// simplicity are preferred over optimality. O(n²) in stop count, acceptable
// for the target range of tens of stops per seller.
//
// Without an explicit start the first stop (by input order) seeds the route
// at order 1 with zero distance. An explicit start acts as a virtual zeroth
// point that is not part of the output. Ties go to the first-encountered
// stop, so a stable input ordering yields a fully deterministic route.
func PlanGeodesic(stops []domain.Stop, start *domain.Coordinates) PlanResult {
	return PlanResult{
		Legs:      nearestNeighborLegs(stops, start),
		Algorithm: domain.AlgorithmNearestNeighbor,
	}
}

// PlanWithAPI asks the directions provider for a single road-network
// evaluation of the stops in their assignment order (the provider does the
// route-level optimization; stops are not reordered locally) and back-fills
// per-leg geodesic distances so the breakdown stays consistent with the
// geodesic statistics.
//
// Provider failure is a soft failure: the computation is redone as geodesic
// nearest neighbor and tagged as a fallback so callers can tell the paths
// apart. This function never returns an error.
func PlanWithAPI(
	ctx context.Context,
	provider ports.DirectionsProvider,
	logger *zap.Logger,
	stops []domain.Stop,
	start *domain.Coordinates,
) PlanResult {
	points := make([]domain.Coordinates, 0, len(stops)+1)
	if start != nil {
		points = append(points, *start)
	}
	for _, s := range stops {
		points = append(points, s.Location)
	}

	// A directions request needs at least two points; below that the
	// geodesic path answers trivially without spending an API call.
	if provider == nil || len(points) < 2 {
		return PlanGeodesic(stops, start)
	}

	est, err := provider.Directions(ctx, points)
	if err != nil {
		logger.Warn("directions provider unavailable, falling back to geodesic routing",
			zap.Int("stops", len(stops)),
			zap.Error(err),
		)
		res := PlanGeodesic(stops, start)
		res.Algorithm = domain.AlgorithmNearestNeighborFallback
		return res
	}

	return PlanResult{
		Legs:      assignmentOrderLegs(stops, start),
		Algorithm: domain.AlgorithmOpenRouteAPI,
		Road: &domain.RoadEstimate{
			DistanceKm:      est.DistanceKm,
			DurationMinutes: est.DurationMinutes,
			Geometry:        est.Geometry,
		},
	}
}

func nearestNeighborLegs(stops []domain.Stop, start *domain.Coordinates) []domain.RouteLeg {
	if len(stops) == 0 {
		return []domain.RouteLeg{}
	}

	unvisited := make([]domain.Stop, len(stops))
	copy(unvisited, stops)

	legs := make([]domain.RouteLeg, 0, len(stops))
	var current domain.Coordinates
	cumulative := 0.0

	if start != nil {
		current = *start
	} else {
		first := unvisited[0]
		unvisited = unvisited[1:]
		legs = append(legs, domain.RouteLeg{Stop: first, Order: 1})
		current = first.Location
	}

	for len(unvisited) > 0 {
		best := 0
		minDist := math.Inf(1)
		for i, s := range unvisited {
			if d := current.DistanceKm(s.Location); d < minDist {
				minDist = d
				best = i
			}
		}

		next := unvisited[best]
		unvisited = append(unvisited[:best], unvisited[best+1:]...)

		leg := round2(minDist)
		cumulative = round2(cumulative + leg)
		legs = append(legs, domain.RouteLeg{
			Stop:                 next,
			Order:                len(legs) + 1,
			DistanceFromPrevKm:   leg,
			CumulativeDistanceKm: cumulative,
		})
		current = next.Location
	}

	return legs
}

// assignmentOrderLegs keeps the incoming stop order and fills in geodesic
// leg distances with the same incremental rounding as the greedy walk.
func assignmentOrderLegs(stops []domain.Stop, start *domain.Coordinates) []domain.RouteLeg {
	legs := make([]domain.RouteLeg, 0, len(stops))
	cumulative := 0.0

	var current domain.Coordinates
	havePrev := false
	if start != nil {
		current = *start
		havePrev = true
	}

	for i, s := range stops {
		leg := 0.0
		if havePrev {
			leg = round2(current.DistanceKm(s.Location))
		}
		cumulative = round2(cumulative + leg)
		legs = append(legs, domain.RouteLeg{
			Stop:                 s,
			Order:                i + 1,
			DistanceFromPrevKm:   leg,
			CumulativeDistanceKm: cumulative,
		})
		current = s.Location
		havePrev = true
	}

	return legs
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
