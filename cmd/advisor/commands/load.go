package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/niveshlabs/estate-advisor/internal/dataset"
	"github.com/niveshlabs/estate-advisor/pkg/config"
	"github.com/niveshlabs/estate-advisor/pkg/database"
	"github.com/niveshlabs/estate-advisor/pkg/logger"
)

// loadCmd represents the load command
var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Import a CSV dataset into Postgres",
	Long: `Parses a reference dataset CSV and replaces the properties
stored in Postgres. Requires DATABASE_URL.

Example:
  go run ./cmd/advisor load --file india_housing_prices.csv`,
	RunE: runLoad,
}

var loadFile string

func init() {
	rootCmd.AddCommand(loadCmd)

	loadCmd.Flags().StringVar(&loadFile, "file", "", "CSV file to import (default DATASET_PATH)")
}

func runLoad(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Dataset Import ===")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg)

	if cfg.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required for dataset import")
	}

	path := loadFile
	if path == "" {
		path = cfg.Dataset.Path
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open dataset file: %w", err)
	}
	defer f.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	records, err := dataset.ParseCSV(ctx, f, cfg.Dataset.ReferenceYear, log.Zerolog())
	if err != nil {
		return fmt.Errorf("parse dataset: %w", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	repo := dataset.NewRepository(db.Pool)
	if err := repo.ReplaceAll(ctx, records); err != nil {
		return fmt.Errorf("replace properties: %w", err)
	}

	count, err := repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("count properties: %w", err)
	}

	fmt.Printf("\nImported %d properties from %s\n", count, path)
	return nil
}
