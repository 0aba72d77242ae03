package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"sales-route-service/internal/adapters/cache"
	"sales-route-service/internal/domain"
	"sales-route-service/internal/ports"
)

// Strategy selects how routes are computed on a cache miss.
type Strategy string

const (
	// StrategyGeodesic reorders stops locally with nearest neighbor over
	// haversine distances. No external dependency.
	StrategyGeodesic Strategy = "geodesic"
	// StrategyOpenRoute asks the external directions API for a road-network
	// evaluation, degrading to geodesic when it fails.
	StrategyOpenRoute Strategy = "openroute"
)

// RouteRequest are the parameters of one route computation.
type RouteRequest struct {
	SellerID         int64
	Start            *domain.Coordinates
	ForceRecalculate bool
}

// Options tune the route service. Zero values fall back to defaults.
type Options struct {
	Strategy     Strategy
	AvgSpeedKmh  float64
	VisitMinutes float64
}

// RouteService is the entry point invoked by the HTTP layer. It resolves the
// seller's current shopkeeper set from the assignment store, consults the
// route cache, and falls back to the planner on miss.
//
// The service itself is stateless per call; all shared mutable state lives in
// the injected cache.
type RouteService struct {
	store    ports.AssignmentStore
	cache    *cache.RouteCache
	provider ports.DirectionsProvider
	opts     Options
	logger   *zap.Logger
}

func NewRouteService(
	store ports.AssignmentStore,
	routeCache *cache.RouteCache,
	provider ports.DirectionsProvider,
	opts Options,
	logger *zap.Logger,
) *RouteService {
	if opts.Strategy == "" {
		opts.Strategy = StrategyGeodesic
	}
	if opts.AvgSpeedKmh <= 0 {
		opts.AvgSpeedKmh = DefaultAvgSpeedKmh
	}
	if opts.VisitMinutes <= 0 {
		opts.VisitMinutes = DefaultVisitMinutes
	}

	return &RouteService{
		store:    store,
		cache:    routeCache,
		provider: provider,
		opts:     opts,
		logger:   logger,
	}
}

// GetOptimizedRoute returns the visiting order for a seller's active
// shopkeepers, served from cache when a fresh entry exists.
//
// The external directions API failing is never an error here; that case is
// absorbed by the planner and only visible in the algorithm tag.
func (s *RouteService) GetOptimizedRoute(ctx context.Context, req RouteRequest) (*domain.Route, error) {
	if req.Start != nil {
		if err := req.Start.Validate(); err != nil {
			return nil, fmt.Errorf("get optimized route: start point: %w", err)
		}
	}

	sellerName, err := s.store.SellerName(ctx, req.SellerID)
	if err != nil {
		return nil, fmt.Errorf("get optimized route: resolve seller %d: %w", req.SellerID, err)
	}

	stops, err := s.store.ListActiveStops(ctx, req.SellerID)
	if err != nil {
		return nil, fmt.Errorf("get optimized route: list stops for seller %d: %w", req.SellerID, err)
	}
	if len(stops) == 0 {
		return nil, fmt.Errorf("seller %d has no active shopkeepers assigned: %w", req.SellerID, domain.ErrNotFound)
	}

	ids := stopIDs(stops)

	if !req.ForceRecalculate {
		if cached, age, ok := s.cache.Get(req.SellerID, ids); ok {
			out := *cached
			out.FromCache = true
			out.CacheAgeMinutes = int(age.Minutes())
			s.logger.Info("route served from cache",
				zap.Int64("seller_id", req.SellerID),
				zap.Int("stops", len(stops)),
				zap.Int("age_minutes", out.CacheAgeMinutes),
			)
			return &out, nil
		}
	}

	var plan PlanResult
	if s.opts.Strategy == StrategyOpenRoute && s.provider != nil {
		// Detached from request cancellation: a client that gives up on a
		// slow directions call should not waste the result, which still
		// populates the cache for future callers.
		plan = PlanWithAPI(context.WithoutCancel(ctx), s.provider, s.logger, stops, req.Start)
	} else {
		plan = PlanGeodesic(stops, req.Start)
	}

	route := &domain.Route{
		SellerID:   req.SellerID,
		SellerName: sellerName,
		Legs:       plan.Legs,
		Statistics: BuildStatistics(plan.Legs, s.opts.AvgSpeedKmh, s.opts.VisitMinutes),
		Algorithm:  plan.Algorithm,
		Road:       plan.Road,
	}

	s.cache.Put(req.SellerID, ids, route)
	s.logger.Info("route computed",
		zap.Int64("seller_id", req.SellerID),
		zap.Int("stops", len(stops)),
		zap.String("algorithm", route.Algorithm),
		zap.Float64("total_km", route.Statistics.TotalDistanceKm),
	)
	return route, nil
}

// ResolveSellerForShopkeeper maps a shopkeeper to its currently assigned
// seller so routes can also be requested by shopkeeper id.
func (s *RouteService) ResolveSellerForShopkeeper(ctx context.Context, shopkeeperID int64) (int64, error) {
	sellerID, err := s.store.SellerForShopkeeper(ctx, shopkeeperID)
	if err != nil {
		return 0, fmt.Errorf("resolve seller for shopkeeper %d: %w", shopkeeperID, err)
	}
	return sellerID, nil
}

// AlgorithmComparison contrasts the greedy route against plain assignment
// order for one seller.
type AlgorithmComparison struct {
	SellerID   int64
	SellerName string

	NearestNeighborStops   int
	NearestNeighborTotalKm float64
	OriginalOrderStops     int
	OriginalOrderTotalKm   float64
}

// CompareAlgorithms computes both orderings geodesically. Unlike
// GetOptimizedRoute, a seller with zero stops is a valid (empty) comparison.
func (s *RouteService) CompareAlgorithms(ctx context.Context, sellerID int64) (*AlgorithmComparison, error) {
	sellerName, err := s.store.SellerName(ctx, sellerID)
	if err != nil {
		return nil, fmt.Errorf("compare algorithms: resolve seller %d: %w", sellerID, err)
	}

	stops, err := s.store.ListActiveStops(ctx, sellerID)
	if err != nil {
		return nil, fmt.Errorf("compare algorithms: list stops for seller %d: %w", sellerID, err)
	}

	nn := nearestNeighborLegs(stops, nil)
	orig := assignmentOrderLegs(stops, nil)

	return &AlgorithmComparison{
		SellerID:               sellerID,
		SellerName:             sellerName,
		NearestNeighborStops:   len(nn),
		NearestNeighborTotalKm: totalKm(nn),
		OriginalOrderStops:     len(orig),
		OriginalOrderTotalKm:   totalKm(orig),
	}, nil
}

// InvalidateSeller drops every cached route owned by the seller. The
// assignment-management collaborator must call this synchronously whenever an
// assignment is created, reassigned or removed (on both sellers involved in
// a reassignment).
func (s *RouteService) InvalidateSeller(sellerID int64) int {
	removed := s.cache.InvalidateSeller(sellerID)
	if removed > 0 {
		s.logger.Info("seller routes invalidated",
			zap.Int64("seller_id", sellerID),
			zap.Int("removed", removed),
		)
	}
	return removed
}

// InvalidateAll clears the whole route cache.
func (s *RouteService) InvalidateAll() int {
	removed := s.cache.InvalidateAll()
	s.logger.Info("route cache cleared", zap.Int("removed", removed))
	return removed
}

// CacheStats exposes cache counters for the admin surface.
func (s *RouteService) CacheStats() cache.Stats {
	return s.cache.Stats()
}

// ProviderUsage reports directions API usage when the provider tracks it.
func (s *RouteService) ProviderUsage() *ports.ProviderUsage {
	if r, ok := s.provider.(ports.UsageReporter); ok {
		u := r.Usage()
		return &u
	}
	return nil
}

func stopIDs(stops []domain.Stop) []int64 {
	ids := make([]int64, len(stops))
	for i, s := range stops {
		ids[i] = s.ShopkeeperID
	}
	return ids
}

func totalKm(legs []domain.RouteLeg) float64 {
	if len(legs) == 0 {
		return 0
	}
	return legs[len(legs)-1].CumulativeDistanceKm
}
