package commands

import (
	"github.com/spf13/cobra"

	"github.com/wonny/marketboard/pkg/config"
)

var (
	// Global flags
	configFile string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "board",
	Short: "Market Board - stock summary dashboard backend",
	Long: `Market Board Unified CLI

Serves ranked stock summaries built from a CSV snapshot, dashboard
samples, FII/DII flows and a watchlist, and downloads daily price history.

Usage:
  go run ./cmd/board [command]

Examples:
  go run ./cmd/board api
  go run ./cmd/board summary --tickers TCS,INFY
  go run ./cmd/board history --from 2024-10-21 --to 2024-10-26`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "env file to load before the environment (default is .env)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

// loadConfig applies the global flags on top of the environment
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadFile(configFile)
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	return cfg, nil
}
