package analytics

import (
	"math"
	"sort"

	"github.com/niveshlabs/estate-advisor/internal/contracts"
	"github.com/niveshlabs/estate-advisor/internal/market"
)

// Summary is the dashboard-facing view of the reference dataset.
type Summary struct {
	TotalProperties  int     `json:"total_properties"`
	Cities           int     `json:"cities"`
	PropertyTypes    int     `json:"property_types"`
	AvgPriceLakhs    float64 `json:"avg_price_lakhs"`
	MedianPriceLakhs float64 `json:"median_price_lakhs"`
	AvgSizeSqFt      float64 `json:"avg_size_sqft"`

	AvgPriceByType map[string]float64 `json:"avg_price_by_type"`

	PricePerSqFt market.PriceStats `json:"price_per_sqft"`

	// Price-per-sqft rows outside Q1-1.5*IQR .. Q3+1.5*IQR.
	OutlierCount   int     `json:"outlier_count"`
	OutlierPercent float64 `json:"outlier_percent"`

	// Pearson correlation between size and price.
	SizePriceCorrelation float64 `json:"size_price_correlation"`
}

// Summarize computes the dataset aggregates from a market snapshot.
func Summarize(snap *market.Snapshot) Summary {
	records := snap.Properties()
	stats := snap.PricePerSqFtStats()

	s := Summary{
		TotalProperties: len(records),
		AvgPriceByType:  make(map[string]float64),
		PricePerSqFt:    stats,
	}
	if len(records) == 0 {
		return s
	}

	cities := make(map[string]struct{})
	types := make(map[string]struct{})
	typeSum := make(map[string]float64)
	typeCount := make(map[string]int)
	prices := make([]float64, 0, len(records))

	// Malformed rows carry NaN markers; they stay in the reference set
	// for the engines but must not poison the aggregates.
	var priceSum, sizeSum float64
	var priceN, sizeN int
	for _, r := range records {
		if r.City != "" {
			cities[r.City] = struct{}{}
		}
		types[r.PropertyType] = struct{}{}

		if isFinite(r.PriceLakhs) {
			priceSum += r.PriceLakhs
			prices = append(prices, r.PriceLakhs)
			priceN++
			typeSum[r.PropertyType] += r.PriceLakhs
			typeCount[r.PropertyType]++
		}
		if isFinite(r.SizeSqFt) {
			sizeSum += r.SizeSqFt
			sizeN++
		}
	}

	n := float64(len(records))
	s.Cities = len(cities)
	s.PropertyTypes = len(types)
	if priceN > 0 {
		s.AvgPriceLakhs = priceSum / float64(priceN)
	}
	if sizeN > 0 {
		s.AvgSizeSqFt = sizeSum / float64(sizeN)
	}
	s.MedianPriceLakhs = median(prices)
	for t, sum := range typeSum {
		s.AvgPriceByType[t] = sum / float64(typeCount[t])
	}

	iqr := stats.Q3 - stats.Q1
	lo := stats.Q1 - 1.5*iqr
	hi := stats.Q3 + 1.5*iqr
	for _, r := range records {
		if r.PricePerSqFt < lo || r.PricePerSqFt > hi {
			s.OutlierCount++
		}
	}
	s.OutlierPercent = float64(s.OutlierCount) / n * 100

	s.SizePriceCorrelation = correlation(records)

	return s
}

// median of an unsorted slice; averages the middle pair on even counts.
func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// correlation computes the Pearson correlation between size and price
// over rows where both values are finite.
func correlation(records []contracts.PropertyRecord) float64 {
	usable := records[:0:0]
	for _, r := range records {
		if isFinite(r.SizeSqFt) && isFinite(r.PriceLakhs) {
			usable = append(usable, r)
		}
	}

	n := float64(len(usable))
	if n < 2 {
		return 0
	}

	var sizeMean, priceMean float64
	for _, r := range usable {
		sizeMean += r.SizeSqFt
		priceMean += r.PriceLakhs
	}
	sizeMean /= n
	priceMean /= n

	var cov, sizeVar, priceVar float64
	for _, r := range usable {
		ds := r.SizeSqFt - sizeMean
		dp := r.PriceLakhs - priceMean
		cov += ds * dp
		sizeVar += ds * ds
		priceVar += dp * dp
	}
	if sizeVar == 0 || priceVar == 0 {
		return 0
	}
	return cov / math.Sqrt(sizeVar*priceVar)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
