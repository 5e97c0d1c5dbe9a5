package scoring

import (
	"github.com/niveshlabs/estate-advisor/internal/contracts"
)

// rule is one declarative scoring factor. eval returns the signed
// point delta and the rationale string; an empty reason with a zero
// delta means the rule stayed silent for this property.
type rule struct {
	name string
	eval func(p contracts.PropertyRecord, medianPricePerSqFt float64) (int, string)
}

// rules is the fixed evaluation order. Rationale order in the result
// follows this order, not point magnitude.
var rules = []rule{
	{name: "price_vs_market", eval: priceRule},
	{name: "bhk", eval: bhkRule},
	{name: "age", eval: ageRule},
	{name: "infrastructure", eval: infraRule},
	{name: "transport", eval: transportRule},
	{name: "security", eval: securityRule},
	{name: "amenities", eval: amenitiesRule},
	{name: "parking", eval: parkingRule},
	{name: "availability", eval: availabilityRule},
}

// priceRule compares price per sq ft against the market median.
// At or below 80% of median: +25, at or below median: +15,
// above median: -10.
func priceRule(p contracts.PropertyRecord, median float64) (int, string) {
	switch {
	case p.PricePerSqFt <= median*0.8:
		return 25, "Price is 20% or more below market median - excellent value"
	case p.PricePerSqFt <= median:
		return 15, "Price is at or below market median - good value"
	default:
		return -10, "Price is above market median - overpriced"
	}
}

// bhkRule rewards larger configurations. 3+ BHK: +20, 2 BHK: +10.
func bhkRule(p contracts.PropertyRecord, _ float64) (int, string) {
	switch {
	case p.BHK >= 3:
		return 20, "3+ BHK - high resale value and demand"
	case p.BHK == 2:
		return 10, "2 BHK - popular configuration"
	default:
		return 0, ""
	}
}

// ageRule: under 5 years: +20, under 10: +10, over 20: -15.
// Ages in [10, 20] contribute nothing.
func ageRule(p contracts.PropertyRecord, _ float64) (int, string) {
	switch {
	case p.AgeYears < 5:
		return 20, "New property (under 5 years) - low maintenance"
	case p.AgeYears < 10:
		return 10, "Relatively new property (under 10 years)"
	case p.AgeYears > 20:
		return -15, "Old property (over 20 years) - high maintenance risk"
	default:
		return 0, ""
	}
}

// infraRule counts nearby schools plus hospitals. 6+: +15, 4+: +10.
// The limited-infrastructure note is informational and carries no
// points.
func infraRule(p contracts.PropertyRecord, _ float64) (int, string) {
	switch infra := p.InfraCount(); {
	case infra >= 6:
		return 15, "Excellent infrastructure (6+ facilities nearby)"
	case infra >= 4:
		return 10, "Good infrastructure (4+ facilities nearby)"
	default:
		return 0, "Limited infrastructure nearby"
	}
}

// transportRule: High: +10, Medium: +5.
func transportRule(p contracts.PropertyRecord, _ float64) (int, string) {
	switch p.TransportAccess {
	case contracts.TransportHigh:
		return 10, "High public transport accessibility"
	case contracts.TransportMedium:
		return 5, "Moderate public transport accessibility"
	default:
		return 0, ""
	}
}

func securityRule(p contracts.PropertyRecord, _ float64) (int, string) {
	if p.Security == contracts.SecurityYes {
		return 5, "Property has security features"
	}
	return 0, ""
}

func amenitiesRule(p contracts.PropertyRecord, _ float64) (int, string) {
	if p.HasAmenities() {
		return 5, "Property has amenities"
	}
	return 0, ""
}

func parkingRule(p contracts.PropertyRecord, _ float64) (int, string) {
	if p.ParkingSpaces >= 2 {
		return 5, "Multiple parking spaces available"
	}
	return 0, ""
}

func availabilityRule(p contracts.PropertyRecord, _ float64) (int, string) {
	if p.Occupiable() {
		return 10, "Ready to move - no construction delays"
	}
	return 0, ""
}
