package contracts

// ForecastResult is a compounded price projection over the model
// horizon. AppreciationPercent may be negative. Degraded marks the
// unadjusted base-rate fallback used when the record failed coercion.
type ForecastResult struct {
	FuturePriceLakhs    float64 `json:"future_price_lakhs"`
	AppreciationPercent float64 `json:"appreciation_percent"`
	AnnualGrowthPercent float64 `json:"annual_growth_percent"`
	Degraded            bool    `json:"degraded,omitempty"`
}
