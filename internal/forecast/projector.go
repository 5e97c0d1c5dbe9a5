package forecast

import (
	"math"

	"github.com/rs/zerolog"

	"github.com/niveshlabs/estate-advisor/internal/contracts"
)

// Config holds the growth model constants. Defaults reproduce the
// advisor's published behavior; they are configuration only so callers
// can experiment without a rebuild.
type Config struct {
	BaseAnnualRate float64 // base compounded growth rate, fraction per year
	HorizonYears   int     // projection horizon
}

// DefaultConfig returns the standard 8% base rate over 5 years.
func DefaultConfig() Config {
	return Config{
		BaseAnnualRate: 0.08,
		HorizonYears:   5,
	}
}

// adjustment is one additive tweak to the base growth rate. All
// adjustments are applied independently, in declaration order.
type adjustment struct {
	name    string
	delta   float64
	applies func(p contracts.PropertyRecord) bool
}

var adjustments = []adjustment{
	{"large_configuration", 0.01, func(p contracts.PropertyRecord) bool { return p.BHK >= 3 }},
	{"new_property", 0.01, func(p contracts.PropertyRecord) bool { return p.AgeYears < 5 }},
	{"high_transport", 0.015, func(p contracts.PropertyRecord) bool { return p.TransportAccess == contracts.TransportHigh }},
	{"good_infrastructure", 0.01, func(p contracts.PropertyRecord) bool { return p.InfraCount() >= 5 }},
	{"security_and_amenities", 0.005, func(p contracts.PropertyRecord) bool {
		return p.Security == contracts.SecurityYes && p.HasAmenities()
	}},
	{"old_property", -0.02, func(p contracts.PropertyRecord) bool { return p.AgeYears > 20 }},
}

// Projector produces the 5-year price projection for a property. It is
// stateless and safe for concurrent use.
type Projector struct {
	cfg Config
	log zerolog.Logger
}

// NewProjector creates a projector with the default growth model.
func NewProjector(log zerolog.Logger) *Projector {
	return NewProjectorWithConfig(DefaultConfig(), log)
}

// NewProjectorWithConfig creates a projector with a custom growth model.
func NewProjectorWithConfig(cfg Config, log zerolog.Logger) *Projector {
	return &Projector{
		cfg: cfg,
		log: log.With().Str("component", "forecast.projector").Logger(),
	}
}

// Project compounds the adjusted annual growth rate over the horizon.
// Deterministic for identical inputs; never mutates the record.
//
// A record that failed numeric coercion yields the flat 40% / 8%
// fallback with Degraded set instead of an error.
func (pr *Projector) Project(p contracts.PropertyRecord) contracts.ForecastResult {
	if !p.WellFormed() {
		pr.log.Warn().
			Float64("price_lakhs", p.PriceLakhs).
			Msg("malformed property record, returning base-rate forecast")
		// An unparseable price has no 1.4x fallback; the future price
		// is reported as 0 so the result stays serializable.
		base := p.PriceLakhs
		if math.IsNaN(base) || math.IsInf(base, 0) || base < 0 {
			base = 0
		}
		return contracts.ForecastResult{
			FuturePriceLakhs:    base * 1.4,
			AppreciationPercent: 40.0,
			AnnualGrowthPercent: pr.cfg.BaseAnnualRate * 100,
			Degraded:            true,
		}
	}

	rate := pr.cfg.BaseAnnualRate
	for _, a := range adjustments {
		if a.applies(p) {
			rate += a.delta
		}
	}

	future := p.PriceLakhs * math.Pow(1+rate, float64(pr.cfg.HorizonYears))
	appreciation := (future - p.PriceLakhs) / p.PriceLakhs * 100

	pr.log.Debug().
		Float64("rate", rate).
		Float64("future_price_lakhs", future).
		Float64("appreciation_percent", appreciation).
		Msg("price projected")

	return contracts.ForecastResult{
		FuturePriceLakhs:    future,
		AppreciationPercent: appreciation,
		AnnualGrowthPercent: rate * 100,
	}
}
