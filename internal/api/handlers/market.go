package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/niveshlabs/estate-advisor/internal/analytics"
	"github.com/niveshlabs/estate-advisor/internal/contracts"
	"github.com/niveshlabs/estate-advisor/internal/market"
	"github.com/niveshlabs/estate-advisor/pkg/logger"
	"github.com/niveshlabs/estate-advisor/pkg/redis"
)

const (
	summaryCacheKey = "market_summary"
	summaryCacheTTL = 5 * time.Minute
)

// MarketHandler serves reference-dataset statistics.
type MarketHandler struct {
	provider *market.Provider
	cache    *redis.Cache
	logger   *logger.Logger
}

// NewMarketHandler creates the market statistics handler. cache may be
// backed by a disabled client; lookups then fall through to compute.
func NewMarketHandler(provider *market.Provider, cache *redis.Cache, log *logger.Logger) *MarketHandler {
	return &MarketHandler{
		provider: provider,
		cache:    cache,
		logger:   log,
	}
}

// Summary returns the dataset aggregates, cached for a few minutes.
// GET /api/market/summary
func (h *MarketHandler) Summary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var summary analytics.Summary
	if hit, err := h.cache.Get(ctx, summaryCacheKey, &summary); err == nil && hit {
		respondJSON(w, http.StatusOK, summary)
		return
	}

	snap, err := h.provider.Snapshot(ctx)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load market snapshot")
		respondError(w, http.StatusServiceUnavailable, "reference dataset unavailable")
		return
	}

	summary = analytics.Summarize(snap)
	if err := h.cache.Set(ctx, summaryCacheKey, summary, summaryCacheTTL); err != nil {
		h.logger.WithError(err).Warn("Failed to cache market summary")
	}

	respondJSON(w, http.StatusOK, summary)
}

// Similar returns reference properties comparable to the query.
// GET /api/market/similar?bhk=3&property_type=Apartment&size_sqft=1200&tolerance=0.2
func (h *MarketHandler) Similar(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	bhk, err := strconv.Atoi(q.Get("bhk"))
	if err != nil || bhk < 1 {
		respondError(w, http.StatusBadRequest, "bhk must be a positive integer")
		return
	}
	size, err := strconv.ParseFloat(q.Get("size_sqft"), 64)
	if err != nil || size <= 0 {
		respondError(w, http.StatusBadRequest, "size_sqft must be a positive number")
		return
	}
	propertyType := q.Get("property_type")
	if propertyType == "" {
		respondError(w, http.StatusBadRequest, "property_type is required")
		return
	}
	tolerance, _ := strconv.ParseFloat(q.Get("tolerance"), 64)

	snap, err := h.provider.Snapshot(ctx)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load market snapshot")
		respondError(w, http.StatusServiceUnavailable, "reference dataset unavailable")
		return
	}

	similar := snap.Similar(contracts.PropertyRecord{
		BHK:          bhk,
		PropertyType: propertyType,
		SizeSqFt:     size,
	}, tolerance)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":      len(similar),
		"properties": similar,
	})
}
