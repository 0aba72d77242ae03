package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"sales-route-service/internal/api/handlers"
	"sales-route-service/internal/platform/obs"
	"sales-route-service/internal/ports"
	"sales-route-service/internal/services"
)

// NewRouter wires HTTP handlers with their dependencies and returns the
// service's http.Handler. Composition root for the API layer; handlers stay
// unaware of concrete adapters.
func NewRouter(svc *services.RouteService, geocoder ports.Geocoder, logger *zap.Logger) http.Handler {
	obs.RegisterDefault()

	routeHandler := &handlers.RouteHandler{
		Service:  svc,
		Geocoder: geocoder,
		Logger:   logger,
	}
	adminHandler := &handlers.CacheAdminHandler{Service: svc}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))

	r.Get("/health", handlers.Health)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(obs.Registry, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/sellers/{sellerID}/optimized-route", routeHandler.OptimizedRouteBySeller)
		r.Get("/shopkeepers/{shopkeeperID}/optimized-route", routeHandler.OptimizedRouteByShopkeeper)
		r.Get("/routes/compare-algorithms", routeHandler.CompareAlgorithms)

		r.Get("/routes/cache/stats", adminHandler.Stats)
		r.Post("/routes/cache/clear", adminHandler.Clear)
		r.Post("/routes/cache/invalidate/{sellerID}", adminHandler.InvalidateSeller)
	})

	return r
}
