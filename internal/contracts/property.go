package contracts

import (
	"math"
	"strings"
)

// Transport accessibility levels as they appear in the reference dataset.
const (
	TransportHigh   = "High"
	TransportMedium = "Medium"
	TransportLow    = "Low"
)

// SecurityYes marks a listing with security features.
const SecurityYes = "Yes"

// Availability states treated as immediately occupiable.
const (
	AvailabilityAvailable   = "Available"
	AvailabilityReadyToMove = "Ready to Move"
)

// PropertyRecord is a single candidate listing under evaluation.
// Derived fields (AgeYears, PricePerSqFt) are filled by the dataset
// layer before the record reaches the engines.
type PropertyRecord struct {
	PropertyType       string  `json:"property_type"`
	BHK                int     `json:"bhk"`
	SizeSqFt           float64 `json:"size_sqft"`
	PriceLakhs         float64 `json:"price_lakhs"`
	YearBuilt          int     `json:"year_built"`
	AgeYears           float64 `json:"age_years"`
	PricePerSqFt       float64 `json:"price_per_sqft"`
	NearbySchools      int     `json:"nearby_schools"`
	NearbyHospitals    int     `json:"nearby_hospitals"`
	TransportAccess    string  `json:"transport_access"`
	ParkingSpaces      int     `json:"parking_spaces"`
	Security           string  `json:"security"`
	Amenities          string  `json:"amenities"`
	AvailabilityStatus string  `json:"availability_status"`

	// Dataset-only columns, used by analytics and similarity filtering.
	FurnishedStatus string `json:"furnished_status,omitempty"`
	City            string `json:"city,omitempty"`
	State           string `json:"state,omitempty"`
	Locality        string `json:"locality,omitempty"`
}

// WellFormed reports whether all required numeric fields survived
// coercion. The dataset layer marks a failed coercion with a zero or
// non-finite value, and the engines degrade to defaults when any of
// them is present instead of failing the evaluation.
func (p PropertyRecord) WellFormed() bool {
	if p.BHK < 1 {
		return false
	}
	if !isPositiveFinite(p.SizeSqFt) || !isPositiveFinite(p.PriceLakhs) {
		return false
	}
	if !isPositiveFinite(p.PricePerSqFt) {
		return false
	}
	if math.IsNaN(p.AgeYears) || math.IsInf(p.AgeYears, 0) || p.AgeYears < 0 {
		return false
	}
	if p.NearbySchools < 0 || p.NearbyHospitals < 0 || p.ParkingSpaces < 0 {
		return false
	}
	return true
}

// HasAmenities reports whether the free-text amenities field names
// anything real. Empty, "None", "No" and the CSV artifact "nan" all
// count as no amenities. The sentinels are matched case-sensitively,
// exactly as the dataset writes them.
func (p PropertyRecord) HasAmenities() bool {
	switch strings.TrimSpace(p.Amenities) {
	case "", "None", "No", "nan":
		return false
	}
	return true
}

// Occupiable reports whether the listing can be moved into without
// waiting on construction.
func (p PropertyRecord) Occupiable() bool {
	return p.AvailabilityStatus == AvailabilityAvailable ||
		p.AvailabilityStatus == AvailabilityReadyToMove
}

// InfraCount is the combined count of nearby schools and hospitals.
func (p PropertyRecord) InfraCount() int {
	return p.NearbySchools + p.NearbyHospitals
}

// Sanitized returns a copy with non-finite float fields zeroed.
// encoding/json cannot represent NaN or infinities, so a record
// carrying coercion markers must pass through here before it is
// serialized. WellFormed on the original record stays the degrade
// signal.
func (p PropertyRecord) Sanitized() PropertyRecord {
	p.SizeSqFt = finiteOr(p.SizeSqFt, 0)
	p.PriceLakhs = finiteOr(p.PriceLakhs, 0)
	p.AgeYears = finiteOr(p.AgeYears, 0)
	p.PricePerSqFt = finiteOr(p.PricePerSqFt, 0)
	return p
}

func isPositiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

func finiteOr(v, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return v
}
