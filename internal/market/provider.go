package market

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/niveshlabs/estate-advisor/internal/contracts"
)

// Source loads the reference property set from wherever it lives
// (CSV file, remote URL, database).
type Source interface {
	Load(ctx context.Context) ([]contracts.PropertyRecord, error)
}

// Provider owns the current market snapshot. Building a snapshot is
// the one potentially expensive step of an evaluation, so the provider
// builds it once and hands the same immutable snapshot to every
// caller until Refresh is invoked.
type Provider struct {
	source Source
	log    zerolog.Logger

	mu       sync.RWMutex
	snapshot *Snapshot
}

// NewProvider creates a provider over the given source. The first
// snapshot is built lazily on demand.
func NewProvider(source Source, log zerolog.Logger) *Provider {
	return &Provider{
		source: source,
		log:    log.With().Str("component", "market.provider").Logger(),
	}
}

// Snapshot returns the current snapshot, building it from the source
// on first use.
func (p *Provider) Snapshot(ctx context.Context) (*Snapshot, error) {
	p.mu.RLock()
	snap := p.snapshot
	p.mu.RUnlock()
	if snap != nil {
		return snap, nil
	}
	return p.Refresh(ctx)
}

// Refresh reloads the reference set and swaps in a new snapshot.
// Concurrent readers keep the old snapshot until the swap completes.
func (p *Provider) Refresh(ctx context.Context) (*Snapshot, error) {
	records, err := p.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load reference set: %w", err)
	}

	snap, err := NewSnapshot(records)
	if err != nil {
		return nil, fmt.Errorf("build snapshot: %w", err)
	}

	p.mu.Lock()
	p.snapshot = snap
	p.mu.Unlock()

	p.log.Info().
		Int("records", snap.Size()).
		Float64("median_price_per_sqft", snap.PricePerSqFtStats().Median).
		Msg("market snapshot refreshed")

	return snap, nil
}
