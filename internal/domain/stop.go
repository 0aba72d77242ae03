package domain

// Stop is a shopkeeper location to visit on a route.
//
// Stops are read from the assignment store for one route computation and are
// never cached themselves; only the computed route is. Immutable once read.
type Stop struct {
	ShopkeeperID int64
	Name         string
	BusinessName string
	Address      string
	Location     Coordinates
}
