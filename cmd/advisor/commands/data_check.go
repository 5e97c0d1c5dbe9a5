package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/niveshlabs/estate-advisor/internal/analytics"
	"github.com/niveshlabs/estate-advisor/internal/market"
	"github.com/niveshlabs/estate-advisor/pkg/config"
	"github.com/niveshlabs/estate-advisor/pkg/logger"
)

// dataCheckCmd represents the data-check command
var dataCheckCmd = &cobra.Command{
	Use:   "data-check",
	Short: "Validate the reference dataset",
	Long: `Loads the configured reference dataset, reports how many
records are well formed versus degraded, and prints the market
statistics the scoring engine will see.

Example:
  go run ./cmd/advisor data-check`,
	RunE: runDataCheck,
}

func init() {
	rootCmd.AddCommand(dataCheckCmd)
}

func runDataCheck(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Reference Dataset Check ===")

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

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	start := time.Now()
	records, err := source.Load(ctx)
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}
	loadDuration := time.Since(start)

	wellFormed := 0
	for _, r := range records {
		if r.WellFormed() {
			wellFormed++
		}
	}

	fmt.Printf("\nSource:      %s\n", cfg.Dataset.Source)
	fmt.Printf("Records:     %d (loaded in %s)\n", len(records), loadDuration.Round(time.Millisecond))
	fmt.Printf("Well formed: %d\n", wellFormed)
	fmt.Printf("Degraded:    %d\n", len(records)-wellFormed)

	snap, err := market.NewSnapshot(records)
	if err != nil {
		return fmt.Errorf("build snapshot: %w", err)
	}

	summary := analytics.Summarize(snap)
	stats := summary.PricePerSqFt

	fmt.Println("\nPrice per sqft:")
	fmt.Printf("  Count:  %d\n", stats.Count)
	fmt.Printf("  Mean:   %.2f\n", stats.Mean)
	fmt.Printf("  Median: %.2f\n", stats.Median)
	fmt.Printf("  Q1/Q3:  %.2f / %.2f\n", stats.Q1, stats.Q3)

	fmt.Println("\nDataset:")
	fmt.Printf("  Cities:          %d\n", summary.Cities)
	fmt.Printf("  Property types:  %d\n", summary.PropertyTypes)
	fmt.Printf("  Avg price:       %.2f lakhs\n", summary.AvgPriceLakhs)
	fmt.Printf("  Median price:    %.2f lakhs\n", summary.MedianPriceLakhs)
	fmt.Printf("  Avg size:        %.0f sqft\n", summary.AvgSizeSqFt)
	fmt.Printf("  Outliers:        %d (%.1f%%)\n", summary.OutlierCount, summary.OutlierPercent)
	fmt.Printf("  Size/price corr: %.3f\n", summary.SizePriceCorrelation)

	fmt.Println("\nDataset check passed")
	return nil
}
