package contracts

import (
	"math"
	"testing"
)

func wellFormedRecord() PropertyRecord {
	return PropertyRecord{
		PropertyType:       "Apartment",
		BHK:                2,
		SizeSqFt:           1200,
		PriceLakhs:         60,
		YearBuilt:          2020,
		AgeYears:           5,
		PricePerSqFt:       5000,
		NearbySchools:      2,
		NearbyHospitals:    1,
		TransportAccess:    TransportMedium,
		ParkingSpaces:      1,
		Security:           SecurityYes,
		Amenities:          "Gym",
		AvailabilityStatus: AvailabilityReadyToMove,
	}
}

func TestPropertyRecord_WellFormed(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *PropertyRecord)
		want   bool
	}{
		{"valid record", func(p *PropertyRecord) {}, true},
		{"zero bhk marker", func(p *PropertyRecord) { p.BHK = 0 }, false},
		{"negative bhk", func(p *PropertyRecord) { p.BHK = -1 }, false},
		{"nan size", func(p *PropertyRecord) { p.SizeSqFt = math.NaN() }, false},
		{"zero size", func(p *PropertyRecord) { p.SizeSqFt = 0 }, false},
		{"nan price", func(p *PropertyRecord) { p.PriceLakhs = math.NaN() }, false},
		{"nan price per sqft", func(p *PropertyRecord) { p.PricePerSqFt = math.NaN() }, false},
		{"infinite price per sqft", func(p *PropertyRecord) { p.PricePerSqFt = math.Inf(1) }, false},
		{"nan age", func(p *PropertyRecord) { p.AgeYears = math.NaN() }, false},
		{"negative age", func(p *PropertyRecord) { p.AgeYears = -1 }, false},
		{"schools marker", func(p *PropertyRecord) { p.NearbySchools = -1 }, false},
		{"hospitals marker", func(p *PropertyRecord) { p.NearbyHospitals = -1 }, false},
		{"parking marker", func(p *PropertyRecord) { p.ParkingSpaces = -1 }, false},
		{"zero age is valid", func(p *PropertyRecord) { p.AgeYears = 0 }, true},
		{"zero counts are valid", func(p *PropertyRecord) {
			p.NearbySchools = 0
			p.NearbyHospitals = 0
			p.ParkingSpaces = 0
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := wellFormedRecord()
			tt.mutate(&p)
			if got := p.WellFormed(); got != tt.want {
				t.Errorf("WellFormed() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPropertyRecord_HasAmenities(t *testing.T) {
	tests := []struct {
		amenities string
		want      bool
	}{
		{"Gym, Pool", true},
		{"Clubhouse", true},
		{"", false},
		{"   ", false},
		{"None", false},
		{"No", false},
		{"nan", false},
		// Sentinels are case-sensitive; other casings are treated as
		// real amenity text.
		{"none", true},
		{"NONE", true},
		{"NaN", true},
	}

	for _, tt := range tests {
		p := PropertyRecord{Amenities: tt.amenities}
		if got := p.HasAmenities(); got != tt.want {
			t.Errorf("HasAmenities(%q) = %v, want %v", tt.amenities, got, tt.want)
		}
	}
}

func TestPropertyRecord_Sanitized(t *testing.T) {
	p := wellFormedRecord()
	p.SizeSqFt = math.NaN()
	p.PriceLakhs = math.Inf(1)
	p.PricePerSqFt = math.NaN()

	got := p.Sanitized()

	if got.SizeSqFt != 0 || got.PriceLakhs != 0 || got.PricePerSqFt != 0 {
		t.Errorf("Sanitized() kept non-finite fields: %+v", got)
	}
	if got.AgeYears != 5 {
		t.Errorf("Sanitized() AgeYears = %v, want 5 unchanged", got.AgeYears)
	}
	if got.BHK != 2 || got.PropertyType != "Apartment" {
		t.Errorf("Sanitized() altered unrelated fields: %+v", got)
	}
	if !math.IsNaN(p.SizeSqFt) {
		t.Error("Sanitized() mutated the receiver")
	}
}

func TestPropertyRecord_Occupiable(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{AvailabilityAvailable, true},
		{AvailabilityReadyToMove, true},
		{"Under Construction", false},
		{"", false},
	}

	for _, tt := range tests {
		p := PropertyRecord{AvailabilityStatus: tt.status}
		if got := p.Occupiable(); got != tt.want {
			t.Errorf("Occupiable(%q) = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestPropertyRecord_InfraCount(t *testing.T) {
	p := PropertyRecord{NearbySchools: 4, NearbyHospitals: 3}
	if got := p.InfraCount(); got != 7 {
		t.Errorf("InfraCount() = %d, want 7", got)
	}
}
