package dataset

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/niveshlabs/estate-advisor/internal/contracts"
)

// Repository stores the reference property set in Postgres as an
// alternative to the CSV sources. It implements market.Source.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a property repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Load retrieves all reference properties.
func (r *Repository) Load(ctx context.Context) ([]contracts.PropertyRecord, error) {
	query := `
		SELECT property_type, bhk, size_sqft, price_lakhs, year_built,
		       age_years, price_per_sqft, nearby_schools, nearby_hospitals,
		       transport_access, parking_spaces, security, amenities,
		       availability_status, furnished_status, city, state, locality
		FROM advisor.properties
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query properties: %w", err)
	}
	defer rows.Close()

	var records []contracts.PropertyRecord
	for rows.Next() {
		var p contracts.PropertyRecord
		if err := rows.Scan(
			&p.PropertyType, &p.BHK, &p.SizeSqFt, &p.PriceLakhs, &p.YearBuilt,
			&p.AgeYears, &p.PricePerSqFt, &p.NearbySchools, &p.NearbyHospitals,
			&p.TransportAccess, &p.ParkingSpaces, &p.Security, &p.Amenities,
			&p.AvailabilityStatus, &p.FurnishedStatus, &p.City, &p.State, &p.Locality,
		); err != nil {
			return nil, fmt.Errorf("scan property: %w", err)
		}
		records = append(records, p)
	}
	return records, rows.Err()
}

// ReplaceAll swaps the stored reference set for a fresh dataset
// import inside one transaction.
func (r *Repository) ReplaceAll(ctx context.Context, records []contracts.PropertyRecord) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `TRUNCATE advisor.properties`); err != nil {
		return fmt.Errorf("truncate properties: %w", err)
	}

	columns := []string{
		"property_type", "bhk", "size_sqft", "price_lakhs", "year_built",
		"age_years", "price_per_sqft", "nearby_schools", "nearby_hospitals",
		"transport_access", "parking_spaces", "security", "amenities",
		"availability_status", "furnished_status", "city", "state", "locality",
	}

	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"advisor", "properties"},
		columns,
		pgx.CopyFromSlice(len(records), func(i int) ([]any, error) {
			p := records[i]
			return []any{
				p.PropertyType, p.BHK, p.SizeSqFt, p.PriceLakhs, p.YearBuilt,
				p.AgeYears, p.PricePerSqFt, p.NearbySchools, p.NearbyHospitals,
				p.TransportAccess, p.ParkingSpaces, p.Security, p.Amenities,
				p.AvailabilityStatus, p.FurnishedStatus, p.City, p.State, p.Locality,
			}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("copy properties: %w", err)
	}

	return tx.Commit(ctx)
}

// Count returns the number of stored reference properties.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM advisor.properties`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count properties: %w", err)
	}
	return n, nil
}
