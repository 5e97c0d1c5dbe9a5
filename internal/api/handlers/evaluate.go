package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/niveshlabs/estate-advisor/internal/contracts"
	"github.com/niveshlabs/estate-advisor/internal/dataset"
	"github.com/niveshlabs/estate-advisor/internal/forecast"
	"github.com/niveshlabs/estate-advisor/internal/market"
	"github.com/niveshlabs/estate-advisor/internal/scoring"
	"github.com/niveshlabs/estate-advisor/pkg/logger"
)

// EvaluateHandler runs both engines against one candidate property.
type EvaluateHandler struct {
	engine        *scoring.Engine
	projector     *forecast.Projector
	provider      *market.Provider
	referenceYear int
	logger        *logger.Logger
}

// NewEvaluateHandler creates the evaluation handler.
func NewEvaluateHandler(
	engine *scoring.Engine,
	projector *forecast.Projector,
	provider *market.Provider,
	referenceYear int,
	log *logger.Logger,
) *EvaluateHandler {
	return &EvaluateHandler{
		engine:        engine,
		projector:     projector,
		provider:      provider,
		referenceYear: referenceYear,
		logger:        log,
	}
}

// NumericCell holds one numeric request field as raw text. It accepts
// JSON numbers and JSON strings alike; Record runs the same coercion
// over it as the CSV loader runs over a dataset cell, so a value like
// "three" becomes a malformed marker and degrades instead of failing
// the whole decode.
type NumericCell string

// UnmarshalJSON keeps the cell's raw token. Strings are unquoted;
// numbers, null and anything else are kept verbatim for coercion.
func (c *NumericCell) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*c = NumericCell(s)
		return nil
	}
	*c = NumericCell(bytes.TrimSpace(data))
	return nil
}

// EvaluateRequest is the candidate property as submitted by a client.
// A missing, null or unparseable numeric field becomes a malformed
// marker and the engines degrade to their defaults instead of
// rejecting the request.
type EvaluateRequest struct {
	PropertyType       string      `json:"property_type"`
	BHK                NumericCell `json:"bhk"`
	SizeSqFt           NumericCell `json:"size_sqft"`
	PriceLakhs         NumericCell `json:"price_lakhs"`
	YearBuilt          NumericCell `json:"year_built"`
	NearbySchools      NumericCell `json:"nearby_schools"`
	NearbyHospitals    NumericCell `json:"nearby_hospitals"`
	TransportAccess    string      `json:"transport_access"`
	ParkingSpaces      NumericCell `json:"parking_spaces"`
	Security           string      `json:"security"`
	Amenities          string      `json:"amenities"`
	AvailabilityStatus string      `json:"availability_status"`
	FurnishedStatus    string      `json:"furnished_status"`
	City               string      `json:"city"`
	State              string      `json:"state"`
	Locality           string      `json:"locality"`
}

// Record converts the request into a PropertyRecord with derived
// fields filled in, using the dataset layer's coercion markers.
func (req EvaluateRequest) Record(referenceYear int) (contracts.PropertyRecord, error) {
	p := contracts.PropertyRecord{
		PropertyType:       req.PropertyType,
		BHK:                dataset.CoerceInt(string(req.BHK), 0),
		SizeSqFt:           dataset.CoerceFloat(string(req.SizeSqFt)),
		PriceLakhs:         dataset.CoerceFloat(string(req.PriceLakhs)),
		YearBuilt:          dataset.CoerceInt(string(req.YearBuilt), 0),
		NearbySchools:      dataset.CoerceInt(string(req.NearbySchools), -1),
		NearbyHospitals:    dataset.CoerceInt(string(req.NearbyHospitals), -1),
		TransportAccess:    req.TransportAccess,
		ParkingSpaces:      dataset.CoerceInt(string(req.ParkingSpaces), -1),
		Security:           req.Security,
		Amenities:          req.Amenities,
		AvailabilityStatus: req.AvailabilityStatus,
		FurnishedStatus:    req.FurnishedStatus,
		City:               req.City,
		State:              req.State,
		Locality:           req.Locality,
	}
	if err := dataset.Derive(&p, referenceYear); err != nil {
		return p, err
	}
	return p, nil
}

// EvaluateResponse bundles the score, the forecast and the market
// comparison for one candidate.
type EvaluateResponse struct {
	Property contracts.PropertyRecord `json:"property"`
	Score    contracts.ScoreResult    `json:"score"`
	Rating   string                   `json:"rating"`
	Forecast contracts.ForecastResult `json:"forecast"`
	Market   MarketComparison         `json:"market"`
}

// MarketComparison situates the candidate inside the reference set.
type MarketComparison struct {
	MedianPricePerSqFt float64 `json:"median_price_per_sqft"`
	BelowMedian        bool    `json:"below_median"`
	SimilarProperties  int     `json:"similar_properties"`
}

// Evaluate scores and projects one property.
// POST /api/evaluate
func (h *EvaluateHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	property, err := req.Record(h.referenceYear)
	if err != nil {
		// Zero/negative size is a caller error, not a degradable cell.
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	snap, err := h.provider.Snapshot(ctx)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load market snapshot")
		if errors.Is(err, contracts.ErrEmptyMarket) {
			respondError(w, http.StatusServiceUnavailable, "reference dataset is empty")
			return
		}
		respondError(w, http.StatusInternalServerError, "reference dataset unavailable")
		return
	}

	score, err := h.engine.Score(property, snap)
	if err != nil {
		h.logger.WithError(err).Error("Scoring failed")
		respondError(w, http.StatusInternalServerError, "scoring failed")
		return
	}

	projection := h.projector.Project(property)

	median, _ := snap.MedianPricePerSqFt()
	resp := EvaluateResponse{
		Property: property.Sanitized(),
		Score:    score,
		Rating:   score.Rating(),
		Forecast: projection,
		Market: MarketComparison{
			MedianPricePerSqFt: median,
			BelowMedian:        property.PricePerSqFt < median,
			SimilarProperties:  len(snap.Similar(property, 0)),
		},
	}

	respondJSON(w, http.StatusOK, resp)
}
