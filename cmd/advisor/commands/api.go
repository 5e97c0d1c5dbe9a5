package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/niveshlabs/estate-advisor/internal/api"
	"github.com/niveshlabs/estate-advisor/internal/api/handlers"
	"github.com/niveshlabs/estate-advisor/internal/forecast"
	"github.com/niveshlabs/estate-advisor/internal/market"
	"github.com/niveshlabs/estate-advisor/internal/scheduler"
	"github.com/niveshlabs/estate-advisor/internal/scheduler/jobs"
	"github.com/niveshlabs/estate-advisor/internal/scoring"
	"github.com/niveshlabs/estate-advisor/pkg/config"
	"github.com/niveshlabs/estate-advisor/pkg/logger"
	"github.com/niveshlabs/estate-advisor/pkg/redis"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the API server",
	Long: `Starts the REST API server.

Endpoints:
  GET  /health               - Health check
  POST /api/evaluate         - Score and forecast one property
  GET  /api/market/summary   - Reference dataset statistics
  GET  /api/market/similar   - Comparable properties lookup
  POST /api/dataset/reload   - Rebuild the market snapshot
  GET  /api/live             - Snapshot refresh events (websocket)

Example:
  go run ./cmd/advisor api
  go run ./cmd/advisor api --port 8080`,
	RunE: runAPIServer,
}

var (
	apiPort string
)

func init() {
	rootCmd.AddCommand(apiCmd)

	// Flags
	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Estate Advisor API Server ===")

	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Override port if flag is set
	if apiPort != "" {
		cfg.Port = apiPort
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	log.WithFields(map[string]interface{}{
		"port":   cfg.Port,
		"env":    cfg.Env,
		"source": cfg.Dataset.Source,
	}).Info("Initializing API server")

	// 3. Connect to Redis (no-op cache when disabled)
	redisClient, err := redis.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()
	cache := redis.NewCache(redisClient, "advisor")

	// 4. Build the dataset source and market provider
	source, cleanup, err := newDatasetSource(cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	provider := market.NewProvider(source, log.Zerolog())

	// Warm the snapshot so the first request does not pay the load.
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	snap, err := provider.Snapshot(ctx)
	cancel()
	if err != nil {
		return fmt.Errorf("build initial snapshot: %w", err)
	}
	log.WithField("records", snap.Size()).Info("Reference dataset loaded")

	// 5. Create engines
	engine := scoring.NewEngine(log.Zerolog())
	projector := forecast.NewProjector(log.Zerolog())

	// 6. Create handlers
	hub := handlers.NewHub(log)
	evaluateHandler := handlers.NewEvaluateHandler(engine, projector, provider, cfg.Dataset.ReferenceYear, log)
	marketHandler := handlers.NewMarketHandler(provider, cache, log)
	datasetHandler := handlers.NewDatasetHandler(provider, hub, cache, log)
	liveHandler := handlers.NewLiveHandler(hub, log)

	// 7. Create router and server
	router := api.NewRouter(evaluateHandler, marketHandler, datasetHandler, liveHandler, log)
	server := api.New(cfg, log, router)

	// 8. Schedule the snapshot refresh job
	var sched *scheduler.Scheduler
	if cfg.Dataset.RefreshSchedule != "" {
		sched = scheduler.New(log)
		job := jobs.NewSnapshotJob(provider, hub, cfg.Dataset.RefreshSchedule, log)
		if err := sched.AddJob(job); err != nil {
			return fmt.Errorf("schedule snapshot refresh: %w", err)
		}
		sched.Start()
	}

	// 9. Start server with graceful shutdown
	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	log.Info("API server started successfully")
	fmt.Printf("\nServer running on http://localhost:%s\n", cfg.Port)
	fmt.Println("\nAvailable endpoints:")
	fmt.Println("  GET  /health")
	fmt.Println("  POST /api/evaluate")
	fmt.Println("  GET  /api/market/summary")
	fmt.Println("  GET  /api/market/similar")
	fmt.Println("  POST /api/dataset/reload")
	fmt.Println("  GET  /api/live")
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	if sched != nil {
		sched.Stop()
	}

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
