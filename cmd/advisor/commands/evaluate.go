package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/niveshlabs/estate-advisor/internal/api/handlers"
	"github.com/niveshlabs/estate-advisor/internal/forecast"
	"github.com/niveshlabs/estate-advisor/internal/market"
	"github.com/niveshlabs/estate-advisor/internal/scoring"
	"github.com/niveshlabs/estate-advisor/pkg/config"
	"github.com/niveshlabs/estate-advisor/pkg/logger"
)

// evaluateCmd represents the evaluate command
var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Score one property from the command line",
	Long: `Scores a single property against the configured reference
dataset and prints the investment score, rating, contributing factors
and the five-year price forecast.

The property is read as JSON from a file or stdin.

Example:
  go run ./cmd/advisor evaluate --property property.json
  cat property.json | go run ./cmd/advisor evaluate`,
	RunE: runEvaluate,
}

var (
	propertyFile string
	outputJSON   bool
)

func init() {
	rootCmd.AddCommand(evaluateCmd)

	evaluateCmd.Flags().StringVar(&propertyFile, "property", "", "path to the property JSON (default stdin)")
	evaluateCmd.Flags().BoolVar(&outputJSON, "json", false, "print the full result as JSON")
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	// 1. Load config and logger
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg)

	// 2. Read the candidate property
	var req handlers.EvaluateRequest
	input := os.Stdin
	if propertyFile != "" {
		f, err := os.Open(propertyFile)
		if err != nil {
			return fmt.Errorf("open property file: %w", err)
		}
		defer f.Close()
		input = f
	}
	if err := json.NewDecoder(input).Decode(&req); err != nil {
		return fmt.Errorf("decode property JSON: %w", err)
	}

	property, err := req.Record(cfg.Dataset.ReferenceYear)
	if err != nil {
		return fmt.Errorf("invalid property: %w", err)
	}

	// 3. Build the market snapshot
	source, cleanup, err := newDatasetSource(cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	provider := market.NewProvider(source, log.Zerolog())
	snap, err := provider.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("build snapshot: %w", err)
	}

	// 4. Run the engines
	engine := scoring.NewEngine(log.Zerolog())
	projector := forecast.NewProjector(log.Zerolog())

	score, err := engine.Score(property, snap)
	if err != nil {
		return fmt.Errorf("score property: %w", err)
	}
	projection := projector.Project(property)

	if outputJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]interface{}{
			"property": property,
			"score":    score,
			"rating":   score.Rating(),
			"forecast": projection,
		})
	}

	// 5. Print the result
	median, _ := snap.MedianPricePerSqFt()

	fmt.Println("=== Property Evaluation ===")
	fmt.Printf("\nInvestment score: %d/100 (%s)\n", score.Score, score.Rating())
	if score.Degraded {
		fmt.Println("Note: score degraded due to malformed input fields")
	}
	fmt.Println("\nFactors:")
	for _, f := range score.Factors {
		fmt.Printf("  %+d  %s\n", f.Delta, f.Reason)
	}

	fmt.Println("\nForecast (5 years):")
	fmt.Printf("  Future price:   %.2f lakhs\n", projection.FuturePriceLakhs)
	fmt.Printf("  Appreciation:   %.1f%%\n", projection.AppreciationPercent)
	fmt.Printf("  Annual growth:  %.1f%%\n", projection.AnnualGrowthPercent)

	fmt.Println("\nMarket context:")
	fmt.Printf("  Reference properties:  %d\n", snap.Size())
	fmt.Printf("  Median price per sqft: %.2f\n", median)
	fmt.Printf("  Comparable listings:   %d\n", len(snap.Similar(property, 0)))

	return nil
}
