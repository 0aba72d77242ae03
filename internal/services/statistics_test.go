package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	"sales-route-service/internal/domain"
)

func legsTotaling(n int, totalKm float64) []domain.RouteLeg {
	legs := make([]domain.RouteLeg, n)
	per := totalKm / float64(n-1)
	cum := 0.0
	for i := range legs {
		d := per
		if i == 0 {
			d = 0
		}
		cum += d
		legs[i] = domain.RouteLeg{Order: i + 1, DistanceFromPrevKm: d, CumulativeDistanceKm: cum}
	}
	legs[n-1].CumulativeDistanceKm = totalKm
	return legs
}

func TestBuildStatisticsArithmetic(t *testing.T) {
	// 10 stops over 50 km at 25 km/h with 10-minute visits.
	st := BuildStatistics(legsTotaling(10, 50), 25, 10)

	require.Equal(t, 10, st.TotalStops)
	require.InDelta(t, 50.0, st.TotalDistanceKm, 0.001)
	require.InDelta(t, 2.0, st.EstimatedTravelTimeHours, 0.001)
	require.InDelta(t, 1.667, st.EstimatedVisitTimeHours, 0.01)
	require.InDelta(t, 3.667, st.EstimatedTotalTimeHours, 0.01)
	require.InDelta(t, 5.0, st.AvgDistanceBetweenKm, 0.001)
}

func TestBuildStatisticsEmptyRoute(t *testing.T) {
	st := BuildStatistics(nil, 25, 10)

	require.Zero(t, st.TotalStops)
	require.Zero(t, st.TotalDistanceKm)
	require.Zero(t, st.EstimatedTravelTimeHours)
	require.Zero(t, st.EstimatedVisitTimeHours)
	require.Zero(t, st.AvgDistanceBetweenKm)
}

func TestBuildStatisticsDefaults(t *testing.T) {
	legs := legsTotaling(2, 25)

	st := BuildStatistics(legs, 0, 0)
	require.InDelta(t, 1.0, st.EstimatedTravelTimeHours, 0.001, "zero speed must fall back to the default")
	require.InDelta(t, 0.33, st.EstimatedVisitTimeHours, 0.001)
}
