package commands

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile string
	env        string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "advisor",
	Short: "Estate Advisor - rule-based property investment scoring",
	Long: `Estate Advisor CLI

Scores residential properties against a reference market dataset and
projects a five-year price forecast.

Usage:
  go run ./cmd/advisor [command]

Examples:
  go run ./cmd/advisor api
  go run ./cmd/advisor evaluate --property property.json
  go run ./cmd/advisor schedule
  go run ./cmd/advisor data-check`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentPreRunE = applyGlobalFlags

	// Global flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().StringVar(&env, "env", "development", "environment (development|staging|production)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// applyGlobalFlags folds the persistent flags into the environment
// before any command calls config.Load.
func applyGlobalFlags(cmd *cobra.Command, args []string) error {
	if configFile != "" {
		if err := godotenv.Overload(configFile); err != nil {
			return fmt.Errorf("load config file %s: %w", configFile, err)
		}
	}
	if rootCmd.PersistentFlags().Changed("env") {
		os.Setenv("ENV", env)
	}
	if verbose {
		os.Setenv("LOG_LEVEL", "debug")
		os.Setenv("LOG_FORMAT", "console")
	}
	return nil
}
