package contracts

import "errors"

// ErrEmptyMarket is returned when the reference dataset has zero rows
// and the market median is undefined. Scoring fails explicitly rather
// than comparing against 0 or NaN.
var ErrEmptyMarket = errors.New("market context has no reference properties")

// MarketContext is the read-only aggregate view of the reference
// dataset the engines score against. Implementations must be safe for
// concurrent use; the median is expected to be computed once at
// construction, not per call.
type MarketContext interface {
	// MedianPricePerSqFt returns the median price per square foot of
	// the reference set, or ErrEmptyMarket.
	MedianPricePerSqFt() (float64, error)

	// Properties returns the underlying reference records for
	// similarity comparison. May return nil when the implementation
	// carries only aggregates. Callers must not mutate the slice.
	Properties() []PropertyRecord
}
