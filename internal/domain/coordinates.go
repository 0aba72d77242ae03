package domain

import (
	"fmt"
	"math"
)

// Mean Earth radius in kilometers, used by the haversine formula.
const earthRadiusKm = 6371

// Immutable geographic coordinates in degrees (WGS84), latitude first.
type Coordinates struct {
	Lat float64
	Lon float64
}

// Validate checks that both components are inside the valid WGS84 ranges.
func (c Coordinates) Validate() error {
	if c.Lat < -90 || c.Lat > 90 {
		return fmt.Errorf("latitude %v out of range [-90, 90]: %w", c.Lat, ErrInvalidInput)
	}
	if c.Lon < -180 || c.Lon > 180 {
		return fmt.Errorf("longitude %v out of range [-180, 180]: %w", c.Lon, ErrInvalidInput)
	}
	return nil
}

// Return coordinates as [lon, lat] for external API compatibility.
// OpenRouteService and GeoJSON use longitude-first ordering, the inverse
// of the internal lat/lon convention.
func (c Coordinates) CoordsToList() []float64 { return []float64{c.Lon, c.Lat} }

// DistanceKm returns the great-circle distance to another point using the
// haversine formula. Pure computation, never fails.
func (c Coordinates) DistanceKm(o Coordinates) float64 {
	lat1 := c.Lat * math.Pi / 180
	lat2 := o.Lat * math.Pi / 180
	dLat := (o.Lat - c.Lat) * math.Pi / 180
	dLon := (o.Lon - c.Lon) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	cc := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * cc
}
