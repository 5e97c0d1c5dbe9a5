package scoring

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/niveshlabs/estate-advisor/internal/contracts"
)

// degradedReason is the single rationale attached to the default
// score when a record failed numeric coercion.
const degradedReason = "Unable to calculate score due to data format issues"

// Engine evaluates one property against a market context using the
// fixed rule table in rules.go. It holds no mutable state and is safe
// for concurrent use.
type Engine struct {
	log zerolog.Logger
}

// NewEngine creates a scoring engine.
func NewEngine(log zerolog.Logger) *Engine {
	return &Engine{
		log: log.With().Str("component", "scoring.engine").Logger(),
	}
}

// Score runs the rule table against the property and returns the
// clamped score with its factor breakdown. Inputs are never mutated
// and identical inputs always produce identical results.
//
// A record that failed numeric coercion yields the neutral default
// score with Degraded set instead of an error. The only error case is
// an empty market context, where the median is undefined.
func (e *Engine) Score(p contracts.PropertyRecord, market contracts.MarketContext) (contracts.ScoreResult, error) {
	median, err := market.MedianPricePerSqFt()
	if err != nil {
		return contracts.ScoreResult{}, fmt.Errorf("market median: %w", err)
	}

	if !p.WellFormed() {
		e.log.Warn().
			Int("bhk", p.BHK).
			Float64("size_sqft", p.SizeSqFt).
			Msg("malformed property record, returning default score")
		return contracts.ScoreResult{
			Score:    contracts.ScoreDefault,
			Factors:  []contracts.Factor{{Name: "data_format", Reason: degradedReason}},
			Degraded: true,
		}, nil
	}

	total := 0
	factors := make([]contracts.Factor, 0, len(rules))
	for _, r := range rules {
		delta, reason := r.eval(p, median)
		total += delta
		if delta == 0 && reason == "" {
			continue
		}
		factors = append(factors, contracts.Factor{Name: r.name, Delta: delta, Reason: reason})
	}

	result := contracts.ScoreResult{
		Score:   contracts.ClampScore(total),
		Factors: factors,
	}

	e.log.Debug().
		Int("raw", total).
		Int("score", result.Score).
		Int("factors", len(factors)).
		Float64("median_price_per_sqft", median).
		Msg("property scored")

	return result, nil
}
