package jobs

import (
	"context"
	"fmt"

	"github.com/niveshlabs/estate-advisor/internal/api/handlers"
	"github.com/niveshlabs/estate-advisor/internal/market"
	"github.com/niveshlabs/estate-advisor/pkg/logger"
)

// SnapshotJob periodically rebuilds the market snapshot so long-lived
// deployments pick up dataset changes, and notifies live subscribers.
type SnapshotJob struct {
	provider *market.Provider
	hub      *handlers.Hub
	schedule string
	logger   *logger.Logger
}

// NewSnapshotJob creates the snapshot refresh job. An empty schedule
// defaults to hourly.
func NewSnapshotJob(provider *market.Provider, hub *handlers.Hub, schedule string, log *logger.Logger) *SnapshotJob {
	if schedule == "" {
		schedule = "0 0 * * * *"
	}
	return &SnapshotJob{
		provider: provider,
		hub:      hub,
		schedule: schedule,
		logger:   log,
	}
}

// Name returns the job name.
func (j *SnapshotJob) Name() string {
	return "market_snapshot_refresh"
}

// Schedule returns the cron schedule (with seconds).
func (j *SnapshotJob) Schedule() string {
	return j.schedule
}

// Run rebuilds the snapshot and broadcasts the refresh event.
func (j *SnapshotJob) Run(ctx context.Context) error {
	snap, err := j.provider.Refresh(ctx)
	if err != nil {
		return fmt.Errorf("refresh snapshot: %w", err)
	}

	if j.hub != nil {
		j.hub.Broadcast(handlers.SnapshotEvent{
			Type:               "snapshot_refreshed",
			Records:            snap.Size(),
			MedianPricePerSqFt: snap.PricePerSqFtStats().Median,
			BuiltAt:            snap.BuiltAt(),
		})
	}

	j.logger.WithFields(map[string]interface{}{
		"records": snap.Size(),
	}).Info("Market snapshot refreshed on schedule")

	return nil
}
