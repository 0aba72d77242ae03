package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDistanceKmKnownValues(t *testing.T) {
	bogota := Coordinates{Lat: 4.6097, Lon: -74.0817}
	medellin := Coordinates{Lat: 6.2442, Lon: -75.5812}

	d := bogota.DistanceKm(medellin)
	require.InDelta(t, 246, d, 2, "Bogotá to Medellín is about 246 km great-circle")

	// One degree of longitude on the equator.
	d = Coordinates{Lat: 0, Lon: 0}.DistanceKm(Coordinates{Lat: 0, Lon: 1})
	require.InDelta(t, 111.19, d, 0.01)
}

func TestDistanceKmProperties(t *testing.T) {
	a := Coordinates{Lat: 4.6097, Lon: -74.0817}
	b := Coordinates{Lat: 4.6533, Lon: -74.0602}

	require.Zero(t, a.DistanceKm(a))
	require.InDelta(t, a.DistanceKm(b), b.DistanceKm(a), 1e-9, "distance is symmetric")
	require.Positive(t, a.DistanceKm(b))
}

func TestValidate(t *testing.T) {
	require.NoError(t, Coordinates{Lat: 4.6097, Lon: -74.0817}.Validate())
	require.NoError(t, Coordinates{Lat: 90, Lon: 180}.Validate())
	require.NoError(t, Coordinates{Lat: -90, Lon: -180}.Validate())

	require.ErrorIs(t, Coordinates{Lat: 90.1, Lon: 0}.Validate(), ErrInvalidInput)
	require.ErrorIs(t, Coordinates{Lat: -90.1, Lon: 0}.Validate(), ErrInvalidInput)
	require.ErrorIs(t, Coordinates{Lat: 0, Lon: 180.1}.Validate(), ErrInvalidInput)
	require.ErrorIs(t, Coordinates{Lat: 0, Lon: -180.1}.Validate(), ErrInvalidInput)
}

func TestCoordsToList(t *testing.T) {
	c := Coordinates{Lat: 4.6097, Lon: -74.0817}
	require.Equal(t, []float64{-74.0817, 4.6097}, c.CoordsToList())
}
