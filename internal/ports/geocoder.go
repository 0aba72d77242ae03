package ports

import (
	"context"

	"sales-route-service/internal/domain"
)

// GeocodeResult is a resolved address.
type GeocodeResult struct {
	Location    domain.Coordinates
	DisplayName string
}

// Contract for resolving a free-form address to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (GeocodeResult, error)
}
