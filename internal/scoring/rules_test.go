package scoring

import (
	"testing"

	"github.com/niveshlabs/estate-advisor/internal/contracts"
)

func TestPriceRule(t *testing.T) {
	const median = 100.0

	tests := []struct {
		name string
		ppsf float64
		want int
	}{
		{"20 percent below median", 80, 25},
		{"well below median", 50, 25},
		{"exactly at median", 100, 15},
		{"between 80 and 100 percent", 90, 15},
		{"above median", 100.01, -10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := contracts.PropertyRecord{PricePerSqFt: tt.ppsf}
			got, reason := priceRule(p, median)
			if got != tt.want {
				t.Errorf("priceRule(ppsf=%v) = %d, want %d", tt.ppsf, got, tt.want)
			}
			if reason == "" {
				t.Error("priceRule always carries a rationale")
			}
		})
	}
}

func TestBHKRule(t *testing.T) {
	tests := []struct {
		bhk  int
		want int
	}{
		{5, 20},
		{3, 20},
		{2, 10},
		{1, 0},
	}

	for _, tt := range tests {
		got, _ := bhkRule(contracts.PropertyRecord{BHK: tt.bhk}, 0)
		if got != tt.want {
			t.Errorf("bhkRule(bhk=%d) = %d, want %d", tt.bhk, got, tt.want)
		}
	}
}

func TestAgeRule(t *testing.T) {
	tests := []struct {
		age  float64
		want int
	}{
		{0, 20},
		{4.9, 20},
		{5, 10},
		{9.9, 10},
		{10, 0},
		{15, 0},
		{20, 0},
		{20.1, -15},
		{30, -15},
	}

	for _, tt := range tests {
		got, _ := ageRule(contracts.PropertyRecord{AgeYears: tt.age}, 0)
		if got != tt.want {
			t.Errorf("ageRule(age=%v) = %d, want %d", tt.age, got, tt.want)
		}
	}
}

func TestInfraRule(t *testing.T) {
	tests := []struct {
		schools   int
		hospitals int
		want      int
	}{
		{4, 3, 15},
		{3, 3, 15},
		{3, 2, 10},
		{2, 2, 10},
		{2, 1, 0},
		{0, 0, 0},
	}

	for _, tt := range tests {
		p := contracts.PropertyRecord{NearbySchools: tt.schools, NearbyHospitals: tt.hospitals}
		got, reason := infraRule(p, 0)
		if got != tt.want {
			t.Errorf("infraRule(%d+%d) = %d, want %d", tt.schools, tt.hospitals, got, tt.want)
		}
		if reason == "" {
			t.Error("infraRule always emits a note, even below the threshold")
		}
	}
}

func TestTransportRule(t *testing.T) {
	tests := []struct {
		access string
		want   int
	}{
		{contracts.TransportHigh, 10},
		{contracts.TransportMedium, 5},
		{contracts.TransportLow, 0},
		{"", 0},
	}

	for _, tt := range tests {
		got, _ := transportRule(contracts.PropertyRecord{TransportAccess: tt.access}, 0)
		if got != tt.want {
			t.Errorf("transportRule(%q) = %d, want %d", tt.access, got, tt.want)
		}
	}
}

func TestParkingRule(t *testing.T) {
	tests := []struct {
		spaces int
		want   int
	}{
		{3, 5},
		{2, 5},
		{1, 0},
		{0, 0},
	}

	for _, tt := range tests {
		got, _ := parkingRule(contracts.PropertyRecord{ParkingSpaces: tt.spaces}, 0)
		if got != tt.want {
			t.Errorf("parkingRule(%d) = %d, want %d", tt.spaces, got, tt.want)
		}
	}
}

func TestAvailabilityRule(t *testing.T) {
	tests := []struct {
		status string
		want   int
	}{
		{contracts.AvailabilityAvailable, 10},
		{contracts.AvailabilityReadyToMove, 10},
		{"Under Construction", 0},
	}

	for _, tt := range tests {
		got, _ := availabilityRule(contracts.PropertyRecord{AvailabilityStatus: tt.status}, 0)
		if got != tt.want {
			t.Errorf("availabilityRule(%q) = %d, want %d", tt.status, got, tt.want)
		}
	}
}
