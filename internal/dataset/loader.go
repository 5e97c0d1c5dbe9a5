package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/niveshlabs/estate-advisor/internal/contracts"
)

// Dataset column names, matching the housing CSV export.
const (
	colPropertyType = "Property_Type"
	colBHK          = "BHK"
	colSize         = "Size_in_SqFt"
	colPrice        = "Price_in_Lakhs"
	colYearBuilt    = "Year_Built"
	colSchools      = "Nearby_Schools"
	colHospitals    = "Nearby_Hospitals"
	colTransport    = "Public_Transport_Accessibility"
	colParking      = "Parking_Space"
	colSecurity     = "Security"
	colAmenities    = "Amenities"
	colAvailability = "Availability_Status"

	// Optional columns.
	colPricePerSqFt = "Price_per_SqFt"
	colAge          = "Age_of_Property"
	colFurnished    = "Furnished_Status"
	colCity         = "City"
	colState        = "State"
	colLocality     = "Locality"
)

var requiredColumns = []string{
	colPropertyType, colBHK, colSize, colPrice, colYearBuilt,
	colSchools, colHospitals, colTransport, colParking,
	colSecurity, colAmenities, colAvailability,
}

// Loader reads the reference dataset from a CSV file on disk. It
// implements market.Source.
type Loader struct {
	path          string
	referenceYear int
	log           zerolog.Logger
}

// NewLoader creates a CSV loader. A referenceYear of 0 falls back to
// DefaultReferenceYear.
func NewLoader(path string, referenceYear int, log zerolog.Logger) *Loader {
	if referenceYear == 0 {
		referenceYear = DefaultReferenceYear
	}
	return &Loader{
		path:          path,
		referenceYear: referenceYear,
		log:           log.With().Str("component", "dataset.loader").Logger(),
	}
}

// Load reads and coerces all rows from the CSV file.
func (l *Loader) Load(ctx context.Context) ([]contracts.PropertyRecord, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	records, err := ParseCSV(ctx, f, l.referenceYear, l.log)
	if err != nil {
		return nil, fmt.Errorf("parse dataset %s: %w", l.path, err)
	}
	return records, nil
}

// ParseCSV reads the housing dataset from r. Cells that fail numeric
// coercion are kept as malformed markers so the engines can degrade
// per record; rows with a non-positive size are dropped outright
// because no derived price density exists for them.
func ParseCSV(ctx context.Context, r io.Reader, referenceYear int, log zerolog.Logger) ([]contracts.PropertyRecord, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[name] = i
	}
	for _, name := range requiredColumns {
		if _, ok := idx[name]; !ok {
			return nil, fmt.Errorf("dataset missing column %q", name)
		}
	}

	cell := func(row []string, name string) string {
		i, ok := idx[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	var records []contracts.PropertyRecord
	dropped := 0
	for line := 2; ; line++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", line, err)
		}

		p := contracts.PropertyRecord{
			PropertyType:       cell(row, colPropertyType),
			BHK:                CoerceInt(cell(row, colBHK), invalidBHK),
			SizeSqFt:           CoerceFloat(cell(row, colSize)),
			PriceLakhs:         CoerceFloat(cell(row, colPrice)),
			YearBuilt:          CoerceInt(cell(row, colYearBuilt), 0),
			NearbySchools:      CoerceInt(cell(row, colSchools), invalidCount),
			NearbyHospitals:    CoerceInt(cell(row, colHospitals), invalidCount),
			TransportAccess:    cell(row, colTransport),
			ParkingSpaces:      CoerceInt(cell(row, colParking), invalidCount),
			Security:           cell(row, colSecurity),
			Amenities:          cell(row, colAmenities),
			AvailabilityStatus: cell(row, colAvailability),
			FurnishedStatus:    cell(row, colFurnished),
			City:               cell(row, colCity),
			State:              cell(row, colState),
			Locality:           cell(row, colLocality),
		}

		if err := Derive(&p, referenceYear); err != nil {
			dropped++
			log.Warn().Int("line", line).Err(err).Msg("dropping dataset row")
			continue
		}

		// Prefer precomputed columns when present and parseable.
		if _, ok := idx[colPricePerSqFt]; ok {
			p.PricePerSqFt = nanOr(CoerceFloat(cell(row, colPricePerSqFt)), p.PricePerSqFt)
		}
		if _, ok := idx[colAge]; ok {
			p.AgeYears = nanOr(CoerceFloat(cell(row, colAge)), p.AgeYears)
		}

		records = append(records, p)
	}

	log.Info().
		Int("records", len(records)).
		Int("dropped", dropped).
		Msg("dataset parsed")

	return records, nil
}
