package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"sales-route-service/internal/api/dto"
	"sales-route-service/internal/services"
)

// CacheAdminHandler exposes the privileged cache-management surface.
type CacheAdminHandler struct {
	Service *services.RouteService
}

// Stats serves GET /routes/cache/stats.
func (h *CacheAdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.CacheStatsResponse{
		Cache:    h.Service.CacheStats(),
		Provider: h.Service.ProviderUsage(),
	})
}

// Clear serves POST /routes/cache/clear.
func (h *CacheAdminHandler) Clear(w http.ResponseWriter, r *http.Request) {
	removed := h.Service.InvalidateAll()
	writeJSON(w, http.StatusOK, dto.InvalidationResponse{Removed: removed})
}

// InvalidateSeller serves POST /routes/cache/invalidate/{sellerID}. It is
// the synchronous hook the assignment-management component calls when an
// assignment changes.
func (h *CacheAdminHandler) InvalidateSeller(w http.ResponseWriter, r *http.Request) {
	sellerID, err := parseID(chi.URLParam(r, "sellerID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid seller id")
		return
	}

	removed := h.Service.InvalidateSeller(sellerID)
	writeJSON(w, http.StatusOK, dto.InvalidationResponse{SellerID: sellerID, Removed: removed})
}
