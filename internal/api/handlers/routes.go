package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"sales-route-service/internal/api/dto"
	"sales-route-service/internal/domain"
	"sales-route-service/internal/ports"
	"sales-route-service/internal/services"
)

type RouteHandler struct {
	Service  *services.RouteService
	Geocoder ports.Geocoder
	Logger   *zap.Logger
}

// OptimizedRouteBySeller serves GET /sellers/{sellerID}/optimized-route.
func (h *RouteHandler) OptimizedRouteBySeller(w http.ResponseWriter, r *http.Request) {
	sellerID, err := parseID(chi.URLParam(r, "sellerID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid seller id")
		return
	}
	h.serveRoute(w, r, sellerID)
}

// OptimizedRouteByShopkeeper resolves the shopkeeper's current seller first,
// then serves that seller's route.
func (h *RouteHandler) OptimizedRouteByShopkeeper(w http.ResponseWriter, r *http.Request) {
	shopkeeperID, err := parseID(chi.URLParam(r, "shopkeeperID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid shopkeeper id")
		return
	}

	sellerID, err := h.Service.ResolveSellerForShopkeeper(r.Context(), shopkeeperID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	h.serveRoute(w, r, sellerID)
}

func (h *RouteHandler) serveRoute(w http.ResponseWriter, r *http.Request, sellerID int64) {
	start, err := h.startPoint(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	force := false
	switch r.URL.Query().Get("force_recalculate") {
	case "true", "1":
		force = true
	}

	route, err := h.Service.GetOptimizedRoute(r.Context(), services.RouteRequest{
		SellerID:         sellerID,
		Start:            start,
		ForceRecalculate: force,
	})
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) && !errors.Is(err, domain.ErrInvalidInput) {
			h.Logger.Error("get optimized route failed",
				zap.Int64("seller_id", sellerID),
				zap.Error(err),
			)
		}
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.FromRoute(route))
}

// startPoint reads the optional start coordinate. An explicit lat/lon pair
// wins; otherwise start_address is geocoded when a geocoder is configured.
func (h *RouteHandler) startPoint(r *http.Request) (*domain.Coordinates, error) {
	q := r.URL.Query()
	latStr := q.Get("start_latitude")
	lonStr := q.Get("start_longitude")

	if latStr != "" || lonStr != "" {
		if latStr == "" || lonStr == "" {
			return nil, fmt.Errorf("start_latitude and start_longitude must be provided together: %w", domain.ErrInvalidInput)
		}
		lat, err := strconv.ParseFloat(latStr, 64)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		lon, err := strconv.ParseFloat(lonStr, 64)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		c := domain.Coordinates{Lat: lat, Lon: lon}
		if err := c.Validate(); err != nil {
			return nil, err
		}
		return &c, nil
	}

	if addr := q.Get("start_address"); addr != "" && h.Geocoder != nil {
		res, err := h.Geocoder.Geocode(r.Context(), addr)
		if err != nil {
			return nil, err
		}
		return &res.Location, nil
	}

	return nil, nil
}

// CompareAlgorithms serves GET /routes/compare-algorithms?seller_id=.
func (h *RouteHandler) CompareAlgorithms(w http.ResponseWriter, r *http.Request) {
	sellerID, err := parseID(r.URL.Query().Get("seller_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid seller_id")
		return
	}

	cmp, err := h.Service.CompareAlgorithms(r.Context(), sellerID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.FromComparison(cmp))
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ErrInvalidInput
	}
	return id, nil
}
