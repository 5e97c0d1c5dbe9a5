package importer

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/niveshlabs/estate-advisor/internal/contracts"
	"github.com/niveshlabs/estate-advisor/internal/dataset"
)

// Parse extracts a PropertyRecord from a saved listing detail page.
// Listing pages lay their facts out as label/value pairs in table rows
// (th/td) or definition lists (dt/dd); both are scanned. Numeric
// values keep the dataset coercion semantics: a cell that cannot be
// parsed becomes a malformed marker and the engines degrade on it.
func Parse(r io.Reader, referenceYear int) (contracts.PropertyRecord, error) {
	var p contracts.PropertyRecord
	if referenceYear == 0 {
		referenceYear = dataset.DefaultReferenceYear
	}

	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return p, fmt.Errorf("parse listing html: %w", err)
	}

	fields := make(map[string]string)
	doc.Find("tr").Each(func(_ int, row *goquery.Selection) {
		label := strings.TrimSpace(row.Find("th").First().Text())
		value := strings.TrimSpace(row.Find("td").First().Text())
		if label != "" && value != "" {
			fields[normalize(label)] = value
		}
	})
	doc.Find("dl").Each(func(_ int, dl *goquery.Selection) {
		terms := dl.Find("dt")
		defs := dl.Find("dd")
		terms.Each(func(i int, dt *goquery.Selection) {
			if i >= defs.Length() {
				return
			}
			label := strings.TrimSpace(dt.Text())
			value := strings.TrimSpace(defs.Eq(i).Text())
			if label != "" && value != "" {
				fields[normalize(label)] = value
			}
		})
	})

	if len(fields) == 0 {
		return p, fmt.Errorf("no listing fields found in document")
	}

	p = contracts.PropertyRecord{
		PropertyType:       lookup(fields, "property type", "type"),
		BHK:                dataset.CoerceInt(numeric(lookup(fields, "bhk", "bedrooms")), 0),
		SizeSqFt:           dataset.CoerceFloat(numeric(lookup(fields, "size (sq ft)", "size", "area"))),
		PriceLakhs:         dataset.CoerceFloat(numeric(lookup(fields, "price (lakhs)", "price"))),
		YearBuilt:          dataset.CoerceInt(numeric(lookup(fields, "year built", "built")), 0),
		NearbySchools:      dataset.CoerceInt(numeric(lookup(fields, "nearby schools", "schools")), -1),
		NearbyHospitals:    dataset.CoerceInt(numeric(lookup(fields, "nearby hospitals", "hospitals")), -1),
		TransportAccess:    lookup(fields, "public transport accessibility", "public transport", "transport"),
		ParkingSpaces:      dataset.CoerceInt(numeric(lookup(fields, "parking spaces", "parking")), -1),
		Security:           lookup(fields, "security"),
		Amenities:          lookup(fields, "amenities"),
		AvailabilityStatus: lookup(fields, "availability status", "availability"),
		FurnishedStatus:    lookup(fields, "furnished status", "furnishing"),
		City:               lookup(fields, "city"),
		State:              lookup(fields, "state"),
		Locality:           lookup(fields, "locality"),
	}

	if err := dataset.Derive(&p, referenceYear); err != nil {
		return p, fmt.Errorf("listing fields: %w", err)
	}
	return p, nil
}

func normalize(label string) string {
	return strings.ToLower(strings.TrimSuffix(strings.TrimSpace(label), ":"))
}

// lookup returns the first matching field among the given aliases.
func lookup(fields map[string]string, aliases ...string) string {
	for _, a := range aliases {
		if v, ok := fields[a]; ok {
			return v
		}
	}
	return ""
}

// numeric strips currency symbols and thousand separators that
// listing pages put around numbers.
func numeric(v string) string {
	v = strings.NewReplacer("₹", "", ",", "", "L", "", "sq ft", "", "sqft", "").Replace(v)
	return strings.TrimSpace(v)
}
