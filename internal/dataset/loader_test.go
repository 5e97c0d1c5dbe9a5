package dataset

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const csvHeader = "Property_Type,BHK,Size_in_SqFt,Price_in_Lakhs,Year_Built," +
	"Nearby_Schools,Nearby_Hospitals,Public_Transport_Accessibility," +
	"Parking_Space,Security,Amenities,Availability_Status,City\n"

func TestParseCSV_ValidRows(t *testing.T) {
	data := csvHeader +
		"Apartment,3,1500,60,2023,4,3,High,2,Yes,\"Gym, Pool\",Ready to Move,Mumbai\n" +
		"Villa,4,2400,120,2010,2,1,Medium,2,Yes,Garden,Available,Pune\n"

	records, err := ParseCSV(context.Background(), strings.NewReader(data), 2025, zerolog.Nop())
	require.NoError(t, err)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, "Apartment", first.PropertyType)
	assert.Equal(t, 3, first.BHK)
	assert.Equal(t, 1500.0, first.SizeSqFt)
	assert.Equal(t, "Gym, Pool", first.Amenities)
	assert.Equal(t, "Mumbai", first.City)
	assert.InDelta(t, 4000, first.PricePerSqFt, 1e-9)
	assert.InDelta(t, 2, first.AgeYears, 1e-9)
	assert.True(t, first.WellFormed())

	second := records[1]
	assert.InDelta(t, 5000, second.PricePerSqFt, 1e-9)
	assert.InDelta(t, 15, second.AgeYears, 1e-9)
}

func TestParseCSV_MalformedCellsBecomeMarkers(t *testing.T) {
	data := csvHeader +
		"Apartment,bad,1500,60,2023,oops,3,High,2,Yes,Gym,Ready to Move,Mumbai\n"

	records, err := ParseCSV(context.Background(), strings.NewReader(data), 2025, zerolog.Nop())
	require.NoError(t, err)
	require.Len(t, records, 1, "malformed cells keep the row")

	p := records[0]
	assert.Equal(t, 0, p.BHK, "unparseable BHK becomes the zero marker")
	assert.Equal(t, -1, p.NearbySchools, "unparseable count becomes -1")
	assert.False(t, p.WellFormed())
}

func TestParseCSV_DropsZeroSizeRows(t *testing.T) {
	data := csvHeader +
		"Apartment,3,0,60,2023,4,3,High,2,Yes,Gym,Ready to Move,Mumbai\n" +
		"Apartment,2,1000,50,2020,2,2,Medium,1,No,None,Available,Delhi\n"

	records, err := ParseCSV(context.Background(), strings.NewReader(data), 2025, zerolog.Nop())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 2, records[0].BHK)
}

func TestParseCSV_MissingRequiredColumn(t *testing.T) {
	data := "Property_Type,BHK\nApartment,3\n"

	_, err := ParseCSV(context.Background(), strings.NewReader(data), 2025, zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing column")
}

func TestParseCSV_PrefersPrecomputedColumns(t *testing.T) {
	header := strings.TrimSuffix(csvHeader, "\n") + ",Price_per_SqFt,Age_of_Property\n"
	data := header +
		"Apartment,3,1500,60,2023,4,3,High,2,Yes,Gym,Ready to Move,Mumbai,4100,3\n" +
		"Apartment,2,1000,50,2020,2,2,Medium,1,No,None,Available,Delhi,notanumber,\n"

	records, err := ParseCSV(context.Background(), strings.NewReader(data), 2025, zerolog.Nop())
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Parseable precomputed values win over derivation.
	assert.InDelta(t, 4100, records[0].PricePerSqFt, 1e-9)
	assert.InDelta(t, 3, records[0].AgeYears, 1e-9)

	// Unparseable precomputed values fall back to the derived ones.
	assert.InDelta(t, 5000, records[1].PricePerSqFt, 1e-9)
	assert.InDelta(t, 5, records[1].AgeYears, 1e-9)
}

func TestParseCSV_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	data := csvHeader +
		"Apartment,3,1500,60,2023,4,3,High,2,Yes,Gym,Ready to Move,Mumbai\n"

	_, err := ParseCSV(ctx, strings.NewReader(data), 2025, zerolog.Nop())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoader_Load(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "properties.csv")
	data := csvHeader +
		"Apartment,3,1500,60,2023,4,3,High,2,Yes,Gym,Ready to Move,Mumbai\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	loader := NewLoader(path, 2025, zerolog.Nop())
	records, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestLoader_LoadMissingFile(t *testing.T) {
	loader := NewLoader(filepath.Join(t.TempDir(), "absent.csv"), 2025, zerolog.Nop())
	_, err := loader.Load(context.Background())
	assert.Error(t, err)
}
