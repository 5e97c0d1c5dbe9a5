package handlers

import (
	"net/http"

	"github.com/niveshlabs/estate-advisor/internal/market"
	"github.com/niveshlabs/estate-advisor/pkg/logger"
	"github.com/niveshlabs/estate-advisor/pkg/redis"
)

// DatasetHandler manages the reference dataset lifecycle.
type DatasetHandler struct {
	provider *market.Provider
	hub      *Hub
	cache    *redis.Cache
	logger   *logger.Logger
}

// NewDatasetHandler creates the dataset management handler.
func NewDatasetHandler(provider *market.Provider, hub *Hub, cache *redis.Cache, log *logger.Logger) *DatasetHandler {
	return &DatasetHandler{
		provider: provider,
		hub:      hub,
		cache:    cache,
		logger:   log,
	}
}

// Reload rebuilds the market snapshot from the configured source and
// notifies live subscribers.
// POST /api/dataset/reload
func (h *DatasetHandler) Reload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	snap, err := h.provider.Refresh(ctx)
	if err != nil {
		h.logger.WithError(err).Error("Dataset reload failed")
		respondError(w, http.StatusInternalServerError, "dataset reload failed")
		return
	}

	if err := h.cache.Delete(ctx, summaryCacheKey); err != nil {
		h.logger.WithError(err).Warn("Failed to invalidate market summary cache")
	}

	stats := snap.PricePerSqFtStats()
	event := SnapshotEvent{
		Type:               "snapshot_refreshed",
		Records:            snap.Size(),
		MedianPricePerSqFt: stats.Median,
		BuiltAt:            snap.BuiltAt(),
	}
	h.hub.Broadcast(event)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"records":               snap.Size(),
		"median_price_per_sqft": stats.Median,
		"built_at":              snap.BuiltAt(),
	})
}
