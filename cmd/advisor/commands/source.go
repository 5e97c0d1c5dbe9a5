package commands

import (
	"fmt"

	"github.com/niveshlabs/estate-advisor/internal/dataset"
	"github.com/niveshlabs/estate-advisor/internal/market"
	"github.com/niveshlabs/estate-advisor/pkg/config"
	"github.com/niveshlabs/estate-advisor/pkg/database"
	"github.com/niveshlabs/estate-advisor/pkg/httputil"
	"github.com/niveshlabs/estate-advisor/pkg/logger"
)

// newDatasetSource builds the reference dataset source selected by
// config. The returned cleanup releases any held connections and is
// safe to call exactly once.
func newDatasetSource(cfg *config.Config, log *logger.Logger) (market.Source, func(), error) {
	switch cfg.Dataset.Source {
	case config.SourceFile:
		loader := dataset.NewLoader(cfg.Dataset.Path, cfg.Dataset.ReferenceYear, log.Zerolog())
		return loader, func() {}, nil

	case config.SourceURL:
		client := httputil.New(log).WithRateLimit(2, 1)
		fetcher := dataset.NewFetcher(cfg.Dataset.URL, cfg.Dataset.ReferenceYear, client, log.Zerolog())
		return fetcher, func() {}, nil

	case config.SourcePostgres:
		db, err := database.New(cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to database: %w", err)
		}
		repo := dataset.NewRepository(db.Pool)
		return repo, db.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown dataset source: %s", cfg.Dataset.Source)
	}
}
