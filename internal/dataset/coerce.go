package dataset

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/niveshlabs/estate-advisor/internal/contracts"
)

// DefaultReferenceYear anchors property age when the dataset does not
// carry a precomputed age column.
const DefaultReferenceYear = 2025

// ErrInvalidSize is returned when a record's size is zero or negative.
// Guarding here keeps the division deriving price per sqft out of the
// engines entirely.
var ErrInvalidSize = errors.New("property size must be positive")

// CoerceInt parses a whole number, returning invalid as the marker
// value when the cell cannot be parsed. Callers pick a marker that
// fails PropertyRecord.WellFormed.
func CoerceInt(s string, invalid int) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return invalid
	}
	return v
}

// CoerceFloat parses a real number, returning NaN when the cell
// cannot be parsed so the failure survives into the record.
func CoerceFloat(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// Derive fills the derived fields from the base ones: price per sqft
// from price and size, age from the reference year. Records with a
// non-positive size are rejected with ErrInvalidSize.
func Derive(p *contracts.PropertyRecord, referenceYear int) error {
	if p.SizeSqFt <= 0 {
		return ErrInvalidSize
	}
	p.PricePerSqFt = p.PriceLakhs * 100000 / p.SizeSqFt
	p.AgeYears = float64(referenceYear - p.YearBuilt)
	return nil
}

// markers used when a cell fails coercion; each makes the record fail
// its well-formedness check instead of crashing the evaluation.
const (
	invalidBHK   = 0
	invalidCount = -1
)

func nanOr(primary, fallback float64) float64 {
	if math.IsNaN(primary) {
		return fallback
	}
	return primary
}
