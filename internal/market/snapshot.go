package market

import (
	"math"
	"sort"
	"time"

	"github.com/niveshlabs/estate-advisor/internal/contracts"
)

// DefaultSizeTolerance is the ±fraction used when filtering the
// reference set for comparable listings.
const DefaultSizeTolerance = 0.2

// PriceStats are aggregate price-per-sqft statistics over the
// reference set. Quartiles use linear interpolation, matching the
// conventions of the source dataset's tooling.
type PriceStats struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Q1     float64 `json:"q1"`
	Q3     float64 `json:"q3"`
}

// Snapshot is an immutable market context built once from a reference
// slice. The median and quartiles are computed at construction, so
// every engine call after that is O(1). Safe for concurrent use.
type Snapshot struct {
	records []contracts.PropertyRecord
	stats   PriceStats
	builtAt time.Time
}

// NewSnapshot builds a market context from the reference records.
// Returns contracts.ErrEmptyMarket when no record carries a usable
// price per sqft, since the median would be undefined.
func NewSnapshot(records []contracts.PropertyRecord) (*Snapshot, error) {
	values := make([]float64, 0, len(records))
	var sum float64
	for _, r := range records {
		v := r.PricePerSqFt
		if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		values = append(values, v)
		sum += v
	}
	if len(values) == 0 {
		return nil, contracts.ErrEmptyMarket
	}
	sort.Float64s(values)

	return &Snapshot{
		records: records,
		stats: PriceStats{
			Count:  len(values),
			Mean:   sum / float64(len(values)),
			Median: quantile(values, 0.5),
			Q1:     quantile(values, 0.25),
			Q3:     quantile(values, 0.75),
		},
		builtAt: time.Now(),
	}, nil
}

// MedianPricePerSqFt implements contracts.MarketContext.
func (s *Snapshot) MedianPricePerSqFt() (float64, error) {
	return s.stats.Median, nil
}

// Properties implements contracts.MarketContext. The returned slice is
// shared; callers must treat it as read-only.
func (s *Snapshot) Properties() []contracts.PropertyRecord {
	return s.records
}

// PricePerSqFtStats returns the aggregate statistics computed at
// construction.
func (s *Snapshot) PricePerSqFtStats() PriceStats {
	return s.stats
}

// BuiltAt reports when the snapshot was constructed.
func (s *Snapshot) BuiltAt() time.Time {
	return s.builtAt
}

// Size returns the number of reference records, including rows that
// were excluded from the price aggregates.
func (s *Snapshot) Size() int {
	return len(s.records)
}

// Similar returns reference records comparable to the candidate: same
// BHK, same property type, size within ±tolerance. A tolerance of 0
// falls back to DefaultSizeTolerance.
func (s *Snapshot) Similar(p contracts.PropertyRecord, tolerance float64) []contracts.PropertyRecord {
	if tolerance <= 0 {
		tolerance = DefaultSizeTolerance
	}
	lo := p.SizeSqFt * (1 - tolerance)
	hi := p.SizeSqFt * (1 + tolerance)

	var out []contracts.PropertyRecord
	for _, r := range s.records {
		if r.BHK != p.BHK || r.PropertyType != p.PropertyType {
			continue
		}
		if r.SizeSqFt < lo || r.SizeSqFt > hi {
			continue
		}
		out = append(out, r)
	}
	return out
}

// quantile returns the q-th quantile of sorted values using linear
// interpolation. For q=0.5 on an even count this averages the two
// middle values.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
