package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/niveshlabs/estate-advisor/internal/market"
	"github.com/niveshlabs/estate-advisor/internal/scheduler"
	"github.com/niveshlabs/estate-advisor/internal/scheduler/jobs"
	"github.com/niveshlabs/estate-advisor/pkg/config"
	"github.com/niveshlabs/estate-advisor/pkg/logger"
)

// scheduleCmd represents the schedule command
var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run the snapshot refresh scheduler",
	Long: `Runs the background scheduler without the API server.

The snapshot refresh job reloads the reference dataset on its cron
schedule so a shared Postgres-backed deployment stays current.

Example:
  go run ./cmd/advisor schedule
  go run ./cmd/advisor schedule --now`,
	RunE: runSchedule,
}

var runImmediately bool

func init() {
	rootCmd.AddCommand(scheduleCmd)

	scheduleCmd.Flags().BoolVar(&runImmediately, "now", false, "run the refresh job once at startup")
}

func runSchedule(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Estate Advisor Scheduler ===")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg)

	source, cleanup, err := newDatasetSource(cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	provider := market.NewProvider(source, log.Zerolog())

	sched := scheduler.New(log)
	job := jobs.NewSnapshotJob(provider, nil, cfg.Dataset.RefreshSchedule, log)
	if err := sched.AddJob(job); err != nil {
		return fmt.Errorf("schedule snapshot refresh: %w", err)
	}

	if runImmediately {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		if _, err := provider.Refresh(ctx); err != nil {
			return fmt.Errorf("initial refresh: %w", err)
		}
	}

	sched.Start()

	fmt.Printf("\nScheduler running (job: %s, schedule: %s)\n", job.Name(), job.Schedule())
	fmt.Println("Press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	sched.Stop()
	return nil
}
