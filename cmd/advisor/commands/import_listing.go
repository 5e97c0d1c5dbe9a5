package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/niveshlabs/estate-advisor/internal/importer"
	"github.com/niveshlabs/estate-advisor/pkg/config"
	"github.com/niveshlabs/estate-advisor/pkg/httputil"
	"github.com/niveshlabs/estate-advisor/pkg/logger"
)

// importListingCmd represents the import-listing command
var importListingCmd = &cobra.Command{
	Use:   "import-listing",
	Short: "Parse a property record from an HTML listing",
	Long: `Extracts a property record from an HTML listing page and
prints it as JSON suitable for the evaluate command.

Example:
  go run ./cmd/advisor import-listing --url https://example.com/listing/42
  go run ./cmd/advisor import-listing --file listing.html`,
	RunE: runImportListing,
}

var (
	listingURL  string
	listingFile string
)

func init() {
	rootCmd.AddCommand(importListingCmd)

	importListingCmd.Flags().StringVar(&listingURL, "url", "", "listing page URL")
	importListingCmd.Flags().StringVar(&listingFile, "file", "", "local HTML file")
}

func runImportListing(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg)

	var body io.ReadCloser
	switch {
	case listingURL != "":
		client := httputil.New(log).WithRateLimit(1, 1)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		resp, err := client.Get(ctx, listingURL)
		if err != nil {
			return fmt.Errorf("fetch listing: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return fmt.Errorf("fetch listing: unexpected status %d", resp.StatusCode)
		}
		body = resp.Body

	case listingFile != "":
		f, err := os.Open(listingFile)
		if err != nil {
			return fmt.Errorf("open listing file: %w", err)
		}
		body = f

	default:
		return fmt.Errorf("either --url or --file is required")
	}
	defer body.Close()

	property, err := importer.Parse(body, cfg.Dataset.ReferenceYear)
	if err != nil {
		return fmt.Errorf("parse listing: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(property)
}
