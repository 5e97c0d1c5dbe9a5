package dataset

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/niveshlabs/estate-advisor/internal/contracts"
	"github.com/niveshlabs/estate-advisor/pkg/httputil"
)

// Fetcher downloads the reference dataset CSV from a remote URL. It
// implements market.Source, letting deployments point at a shared
// dataset export instead of a local file.
type Fetcher struct {
	url           string
	referenceYear int
	client        *httputil.Client
	log           zerolog.Logger
}

// NewFetcher creates a dataset fetcher for the given URL.
func NewFetcher(url string, referenceYear int, client *httputil.Client, log zerolog.Logger) *Fetcher {
	if referenceYear == 0 {
		referenceYear = DefaultReferenceYear
	}
	return &Fetcher{
		url:           url,
		referenceYear: referenceYear,
		client:        client,
		log:           log.With().Str("component", "dataset.fetcher").Logger(),
	}
}

// Load downloads and parses the dataset.
func (f *Fetcher) Load(ctx context.Context) ([]contracts.PropertyRecord, error) {
	resp, err := f.client.Get(ctx, f.url)
	if err != nil {
		return nil, fmt.Errorf("fetch dataset: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch dataset: unexpected status %d", resp.StatusCode)
	}

	records, err := ParseCSV(ctx, resp.Body, f.referenceYear, f.log)
	if err != nil {
		return nil, fmt.Errorf("parse fetched dataset: %w", err)
	}

	f.log.Debug().
		Str("url", f.url).
		Int("records", len(records)).
		Msg("dataset fetched")

	return records, nil
}
