package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/niveshlabs/estate-advisor/internal/contracts"
	"github.com/niveshlabs/estate-advisor/internal/forecast"
	"github.com/niveshlabs/estate-advisor/internal/market"
	"github.com/niveshlabs/estate-advisor/internal/scoring"
	"github.com/niveshlabs/estate-advisor/pkg/config"
	"github.com/niveshlabs/estate-advisor/pkg/logger"
	"github.com/niveshlabs/estate-advisor/pkg/redis"
)

// memorySource serves a fixed reference set for handler tests.
type memorySource struct {
	records []contracts.PropertyRecord
	err     error
}

func (s memorySource) Load(ctx context.Context) ([]contracts.PropertyRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.records, nil
}

func testLogger() *logger.Logger {
	return logger.New(&config.Config{Env: "test", LogLevel: "error", LogFormat: "json"})
}

func referenceSet() []contracts.PropertyRecord {
	return []contracts.PropertyRecord{
		{PropertyType: "Apartment", BHK: 3, SizeSqFt: 1000, PriceLakhs: 40, PricePerSqFt: 4000},
		{PropertyType: "Apartment", BHK: 3, SizeSqFt: 1100, PriceLakhs: 55, PricePerSqFt: 5000},
		{PropertyType: "Villa", BHK: 4, SizeSqFt: 2000, PriceLakhs: 120, PricePerSqFt: 6000},
	}
}

func newEvaluateHandler(t *testing.T, records []contracts.PropertyRecord) *EvaluateHandler {
	t.Helper()
	log := testLogger()
	provider := market.NewProvider(memorySource{records: records}, log.Zerolog())
	engine := scoring.NewEngine(log.Zerolog())
	projector := forecast.NewProjector(log.Zerolog())
	return NewEvaluateHandler(engine, projector, provider, 2025, log)
}

func TestEvaluateHandler_FullRequest(t *testing.T) {
	handler := newEvaluateHandler(t, referenceSet())

	// Median ppsf is 5000; 35 lakhs over 1000 sqft is 3500, 30% below.
	body := `{
		"property_type": "Apartment",
		"bhk": 3,
		"size_sqft": 1000,
		"price_lakhs": 35,
		"year_built": 2024,
		"nearby_schools": 3,
		"nearby_hospitals": 3,
		"transport_access": "High",
		"parking_spaces": 2,
		"security": "Yes",
		"amenities": "Gym, Pool",
		"availability_status": "Available"
	}`

	req := httptest.NewRequest(http.MethodPost, "/api/evaluate", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.Evaluate(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp EvaluateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	// 25+20+20+15+10+5+5+5+10 = 115, clamped.
	assert.Equal(t, 100, resp.Score.Score)
	assert.False(t, resp.Score.Degraded)
	assert.Equal(t, contracts.RatingHighlyRecommended, resp.Rating)

	assert.InDelta(t, 3500, resp.Property.PricePerSqFt, 1e-9)
	assert.InDelta(t, 1, resp.Property.AgeYears, 1e-9)

	assert.InDelta(t, 5000, resp.Market.MedianPricePerSqFt, 1e-9)
	assert.True(t, resp.Market.BelowMedian)
	assert.Equal(t, 2, resp.Market.SimilarProperties)

	assert.False(t, resp.Forecast.Degraded)
	assert.InDelta(t, 13.0, resp.Forecast.AnnualGrowthPercent, 1e-9)
	assert.Greater(t, resp.Forecast.FuturePriceLakhs, 35.0)
}

func TestEvaluateHandler_MissingFieldsDegrade(t *testing.T) {
	handler := newEvaluateHandler(t, referenceSet())

	// No bhk, schools or hospitals: the record degrades to defaults.
	body := `{
		"property_type": "Apartment",
		"size_sqft": 1000,
		"price_lakhs": 35,
		"year_built": 2024
	}`

	req := httptest.NewRequest(http.MethodPost, "/api/evaluate", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.Evaluate(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp EvaluateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.True(t, resp.Score.Degraded)
	assert.Equal(t, contracts.ScoreDefault, resp.Score.Score)
	require.Len(t, resp.Score.Factors, 1)

	assert.True(t, resp.Forecast.Degraded)
	assert.InDelta(t, 35*1.4, resp.Forecast.FuturePriceLakhs, 1e-9)
	assert.InDelta(t, 40.0, resp.Forecast.AppreciationPercent, 1e-9)
}

func TestEvaluateHandler_MissingSizeStaysSerializable(t *testing.T) {
	handler := newEvaluateHandler(t, referenceSet())

	// Without a size the derived price per sqft is a NaN marker; the
	// response must still be a complete JSON document.
	body := `{"bhk": 2, "price_lakhs": 35}`
	req := httptest.NewRequest(http.MethodPost, "/api/evaluate", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.Evaluate(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, rec.Body.Bytes())

	var resp EvaluateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.True(t, resp.Score.Degraded)
	assert.Equal(t, contracts.ScoreDefault, resp.Score.Score)
	assert.Equal(t, 0.0, resp.Property.SizeSqFt, "NaN markers are zeroed in the response")
	assert.Equal(t, 0.0, resp.Property.PricePerSqFt)

	assert.True(t, resp.Forecast.Degraded)
	assert.InDelta(t, 35*1.4, resp.Forecast.FuturePriceLakhs, 1e-9)
}

func TestEvaluateHandler_MissingPriceStaysSerializable(t *testing.T) {
	handler := newEvaluateHandler(t, referenceSet())

	body := `{"bhk": 2, "size_sqft": 1000}`
	req := httptest.NewRequest(http.MethodPost, "/api/evaluate", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.Evaluate(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp EvaluateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.True(t, resp.Forecast.Degraded)
	assert.Equal(t, 0.0, resp.Forecast.FuturePriceLakhs, "unknown price has no 1.4x fallback")
	assert.InDelta(t, 40.0, resp.Forecast.AppreciationPercent, 1e-9)
	assert.Equal(t, 0.0, resp.Property.PriceLakhs)
}

func TestEvaluateHandler_StringNumericsAccepted(t *testing.T) {
	handler := newEvaluateHandler(t, referenceSet())

	body := `{
		"property_type": "Apartment",
		"bhk": "3",
		"size_sqft": "1000",
		"price_lakhs": "35",
		"year_built": "2024",
		"nearby_schools": "3",
		"nearby_hospitals": "3",
		"transport_access": "High",
		"parking_spaces": "2",
		"security": "Yes",
		"amenities": "Gym, Pool",
		"availability_status": "Available"
	}`

	req := httptest.NewRequest(http.MethodPost, "/api/evaluate", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.Evaluate(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp EvaluateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.False(t, resp.Score.Degraded, "string numerics coerce like CSV cells")
	assert.Equal(t, 100, resp.Score.Score)
}

func TestEvaluateHandler_UnparseableNumericDegrades(t *testing.T) {
	handler := newEvaluateHandler(t, referenceSet())

	// A non-numeric cell degrades the record; it must not 400.
	body := `{"bhk": "three", "size_sqft": 1000, "price_lakhs": 35}`
	req := httptest.NewRequest(http.MethodPost, "/api/evaluate", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.Evaluate(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp EvaluateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.True(t, resp.Score.Degraded)
	assert.Equal(t, contracts.ScoreDefault, resp.Score.Score)
	assert.Equal(t, 0, resp.Property.BHK)
}

func TestEvaluateHandler_ZeroSizeRejected(t *testing.T) {
	handler := newEvaluateHandler(t, referenceSet())

	body := `{"property_type": "Apartment", "bhk": 2, "size_sqft": 0, "price_lakhs": 35}`
	req := httptest.NewRequest(http.MethodPost, "/api/evaluate", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.Evaluate(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEvaluateHandler_InvalidJSON(t *testing.T) {
	handler := newEvaluateHandler(t, referenceSet())

	req := httptest.NewRequest(http.MethodPost, "/api/evaluate", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	handler.Evaluate(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEvaluateHandler_EmptyReferenceSet(t *testing.T) {
	handler := newEvaluateHandler(t, nil)

	body := `{"property_type": "Apartment", "bhk": 2, "size_sqft": 1000, "price_lakhs": 35, "year_built": 2020, "nearby_schools": 1, "nearby_hospitals": 1, "parking_spaces": 1}`
	req := httptest.NewRequest(http.MethodPost, "/api/evaluate", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.Evaluate(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func newMarketHandler(t *testing.T, records []contracts.PropertyRecord) *MarketHandler {
	t.Helper()
	log := testLogger()
	provider := market.NewProvider(memorySource{records: records}, log.Zerolog())
	client, err := redis.New(&config.Config{}) // disabled, cache passes through
	require.NoError(t, err)
	return NewMarketHandler(provider, redis.NewCache(client, "advisor"), log)
}

func TestMarketHandler_Summary(t *testing.T) {
	handler := newMarketHandler(t, referenceSet())

	req := httptest.NewRequest(http.MethodGet, "/api/market/summary", nil)
	rec := httptest.NewRecorder()
	handler.Summary(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var summary map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.EqualValues(t, 3, summary["total_properties"])
}

func TestMarketHandler_Similar(t *testing.T) {
	handler := newMarketHandler(t, referenceSet())

	req := httptest.NewRequest(http.MethodGet,
		"/api/market/similar?bhk=3&property_type=Apartment&size_sqft=1000", nil)
	rec := httptest.NewRecorder()
	handler.Similar(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)
}

func TestMarketHandler_SimilarValidation(t *testing.T) {
	handler := newMarketHandler(t, referenceSet())

	tests := []struct {
		name  string
		query string
	}{
		{"missing bhk", "size_sqft=1000&property_type=Apartment"},
		{"non numeric bhk", "bhk=two&size_sqft=1000&property_type=Apartment"},
		{"missing size", "bhk=3&property_type=Apartment"},
		{"negative size", "bhk=3&size_sqft=-5&property_type=Apartment"},
		{"missing type", "bhk=3&size_sqft=1000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/market/similar?"+tt.query, nil)
			rec := httptest.NewRecorder()
			handler.Similar(rec, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}
