package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wonny/marketboard/internal/stocks"
	"github.com/wonny/marketboard/pkg/logger"
)

// summaryCmd prints the ranked summaries for a CSV without starting the server
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print ranked stock summaries from a CSV",
	Long: `Build the same payload /api/stocks serves and print it.

Example:
  go run ./cmd/board summary
  go run ./cmd/board summary --csv data/stocks.csv --tickers TCS,INFY -n 5
  go run ./cmd/board summary --json`,
	RunE: runSummary,
}

var (
	summaryCSV     string
	summaryTickers string
	summaryLimit   int
	summaryJSON    bool
)

func init() {
	rootCmd.AddCommand(summaryCmd)

	summaryCmd.Flags().StringVar(&summaryCSV, "csv", "", "stocks CSV (default STOCKS_CSV_PATH)")
	summaryCmd.Flags().StringVar(&summaryTickers, "tickers", "", "comma-separated names or exchange codes")
	summaryCmd.Flags().IntVarP(&summaryLimit, "limit", "n", 0, "keep the first N rows after filtering")
	summaryCmd.Flags().BoolVar(&summaryJSON, "json", false, "print the JSON payload")
}

func runSummary(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg)

	path := summaryCSV
	if path == "" {
		path = cfg.Stocks.CSVPath
	}

	store := stocks.NewStore(path, log)
	if err := store.Reload(cmd.Context()); err != nil {
		log.WithError(err).Warn("Stocks CSV not loaded")
	}

	snap := store.Current()
	payload := stocks.NewBuilder().Build(snap.Dataset, snap.Source, stocks.Query{
		Tickers: summaryTickers,
		Limit:   summaryLimit,
	})

	out := cmd.OutOrStdout()
	if summaryJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	}

	PrintHeader(out, "Stock Summary", [][2]string{
		{"Source", snap.Source},
		{"Generated", payload.GeneratedAt},
		{"Count", fmt.Sprint(payload.Count)},
	})
	if payload.Error != "" {
		PrintWarning(out, payload.Error)
		return nil
	}

	rows := make([][]string, 0, len(payload.Stocks))
	for _, s := range payload.Stocks {
		rows = append(rows, []string{
			s.Name, s.DayReturn, s.WeeklyReturn, s.MonthlyReturn, formatSeries(s.FiveDay),
		})
	}
	PrintTable(out, []string{"Name", "1D", "1W", "1M", "5D"}, rows)
	return nil
}

func formatSeries(values []float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprintf("%.2f", v)
	}
	return strings.Join(parts, " ")
}
