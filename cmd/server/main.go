package main

import (
	"context"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"sales-route-service/internal/adapters/cache"
	"sales-route-service/internal/adapters/distance"
	"sales-route-service/internal/adapters/geocode"
	"sales-route-service/internal/adapters/repositories"
	"sales-route-service/internal/api"
	"sales-route-service/internal/config"
	"sales-route-service/internal/platform/db"
	"sales-route-service/internal/platform/obs"
	"sales-route-service/internal/ports"
	"sales-route-service/internal/services"
)

// main is the application composition root. It wires concrete adapters
// (Postgres, OpenRouteService, Nominatim) behind ports and starts the HTTP
// server.
func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if err := godotenv.Load(); err != nil {
		logger.Info("no .env file found, using environment variables")
	}
	cfg := config.LoadFromEnv()

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DB.DSN)
	if err != nil {
		logger.Fatal("connect to database", zap.Error(err))
	}
	defer pool.Close()

	routeCache, err := cache.New(
		time.Duration(cfg.Cache.TTLHours)*time.Hour,
		cfg.Cache.MaxSize,
		obs.PromCacheObserver{},
	)
	if err != nil {
		logger.Fatal("construct route cache", zap.Error(err))
	}

	// Without an API key the service runs geodesic-only; the provider is
	// never constructed so the strategy silently degrades.
	var provider ports.DirectionsProvider
	strategy := services.Strategy(cfg.Route.Strategy)
	if cfg.ORS.APIKey != "" {
		provider = distance.NewORSProvider(cfg.ORS.APIKey, logger)
	} else if strategy == services.StrategyOpenRoute {
		logger.Warn("ORS_API_KEY not set, falling back to geodesic strategy")
		strategy = services.StrategyGeodesic
	}

	geocoder := geocode.NewNominatim(cfg.Nominatim.BaseURL, cfg.Nominatim.UserAgent, logger)
	store := repositories.NewPostgresAssignmentStore(pool)

	svc := services.NewRouteService(store, routeCache, provider, services.Options{
		Strategy:     strategy,
		AvgSpeedKmh:  cfg.Route.AvgSpeedKmh,
		VisitMinutes: cfg.Route.VisitMinutes,
	}, logger)

	router := api.NewRouter(svc, geocoder, logger)

	// Write timeout is generous: a cold-cache route against the external
	// directions API can take most of its 30s budget.
	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	logger.Info("server listening",
		zap.String("addr", cfg.HTTP.Addr),
		zap.String("strategy", string(strategy)),
		zap.Int("cache_capacity", cfg.Cache.MaxSize),
		zap.Int("cache_ttl_hours", cfg.Cache.TTLHours),
	)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
