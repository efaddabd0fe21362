package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/marketboard/internal/external/yahoo"
	"github.com/wonny/marketboard/internal/history"
	"github.com/wonny/marketboard/pkg/database"
	"github.com/wonny/marketboard/pkg/httputil"
	"github.com/wonny/marketboard/pkg/logger"
	"github.com/wonny/marketboard/pkg/redis"
)

// historyCmd downloads daily bars for the universe into a CSV
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Download daily price history",
	Long: `Download daily OHLCV bars for every ticker in the universe and write
them as one CSV (Date,symbol,Close,High,Low,Open,Volume) sorted by date
then symbol. Tickers get .NS unless they already end in .NS or .BO.

When DATABASE_URL is set the bars are also upserted into market.daily_bars.

Example:
  go run ./cmd/board history
  go run ./cmd/board history --from 2024-10-21 --to 2024-10-26
  go run ./cmd/board history --universe universe.yaml --out data/bank.csv`,
	RunE: runHistory,
}

var (
	historyFrom     string
	historyTo       string
	historyUniverse string
	historyOut      string
	historyWorkers  int
	historyNoDB     bool
)

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().StringVar(&historyFrom, "from", "", "first day, YYYY-MM-DD (default 7 days before --to)")
	historyCmd.Flags().StringVar(&historyTo, "to", "", "end day, exclusive, YYYY-MM-DD (default today)")
	historyCmd.Flags().StringVar(&historyUniverse, "universe", "", "YAML universe file (default HISTORY_UNIVERSE_FILE or NIFTY 50)")
	historyCmd.Flags().StringVar(&historyOut, "out", "", "output CSV (default HISTORY_OUTPUT_PATH)")
	historyCmd.Flags().IntVar(&historyWorkers, "workers", 0, "parallel downloads (default HISTORY_WORKERS)")
	historyCmd.Flags().BoolVar(&historyNoDB, "no-db", false, "skip the database even when DATABASE_URL is set")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg)
	ctx := cmd.Context()

	from, to, err := historyRange(historyFrom, historyTo, time.Now())
	if err != nil {
		return err
	}

	universePath := firstNonEmpty(historyUniverse, cfg.History.UniverseFile)
	universe, err := history.LoadUniverse(universePath)
	if err != nil {
		return err
	}

	rdb := openRedis(cfg, log)
	defer rdb.Close()

	httpClient := httputil.New(log).
		WithLimiter(float64(cfg.History.RatePerSec), 1).
		WithRateLimiter(redis.NewRateLimiter(rdb, redisPrefix), redis.YahooRateLimit)
	downloader := history.NewDownloader(
		yahoo.NewClient(httpClient, cfg.History.BaseURL, log),
		redis.NewCache(rdb, redisPrefix),
		log,
	)

	var sink history.BarSink
	if cfg.HasDatabase() && !historyNoDB {
		db, err := database.New(ctx, cfg.Database)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer db.Close()

		repo := history.NewRepository(db.Pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			return err
		}
		sink = repo
	}

	workers := cfg.History.Workers
	if historyWorkers > 0 {
		workers = historyWorkers
	}
	out := firstNonEmpty(historyOut, cfg.History.OutputPath)

	w := cmd.OutOrStdout()
	PrintHeader(w, "Price History Download", [][2]string{
		{"Period", fmt.Sprintf("%s ~ %s", from.Format("2006-01-02"), to.Format("2006-01-02"))},
		{"Symbols", fmt.Sprint(len(universe.Symbols()))},
		{"Output", out},
	})

	start := time.Now()
	res, err := history.NewRunner(downloader, sink).Run(ctx, universe, history.Options{
		From:    from,
		To:      to,
		Workers: workers,
	}, out)
	if err != nil {
		return err
	}

	if len(res.Failed) > 0 {
		PrintWarning(w, "No data for: "+strings.Join(res.Failed, ", "))
	}
	PrintSuccess(w, fmt.Sprintf("%d rows written in %.2fs", len(res.Rows), time.Since(start).Seconds()))
	return nil
}

// historyRange parses the flags; to defaults to today and from to a week before to
func historyRange(fromFlag, toFlag string, now time.Time) (time.Time, time.Time, error) {
	to := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if toFlag != "" {
		t, err := time.Parse("2006-01-02", toFlag)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --to %q (expected YYYY-MM-DD)", toFlag)
		}
		to = t
	}

	from := to.AddDate(0, 0, -7)
	if fromFlag != "" {
		f, err := time.Parse("2006-01-02", fromFlag)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --from %q (expected YYYY-MM-DD)", fromFlag)
		}
		from = f
	}

	if !to.After(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("--to must be after --from")
	}
	return from, to, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
