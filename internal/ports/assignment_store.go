package ports

import (
	"context"

	"sales-route-service/internal/domain"
)

// Port: read access to the externally managed seller/shopkeeper assignments.
// Backed by the assignment table filtered to active records joined to active
// shopkeeper records.
type AssignmentStore interface {
	// SellerName returns the display name of a seller, or domain.ErrNotFound.
	SellerName(ctx context.Context, sellerID int64) (string, error)

	// ListActiveStops returns the seller's active shopkeepers in assignment
	// order. An empty slice is a valid result, not an error.
	ListActiveStops(ctx context.Context, sellerID int64) ([]domain.Stop, error)

	// SellerForShopkeeper resolves a shopkeeper to its currently assigned
	// seller, or domain.ErrNotFound when unassigned or unknown.
	SellerForShopkeeper(ctx context.Context, shopkeeperID int64) (int64, error)
}
