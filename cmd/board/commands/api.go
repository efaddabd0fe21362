package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/marketboard/internal/api"
	"github.com/wonny/marketboard/internal/api/handlers"
	"github.com/wonny/marketboard/internal/dashboard"
	"github.com/wonny/marketboard/internal/external/fiidii"
	"github.com/wonny/marketboard/internal/flows"
	"github.com/wonny/marketboard/internal/scheduler"
	"github.com/wonny/marketboard/internal/scheduler/jobs"
	"github.com/wonny/marketboard/internal/stocks"
	"github.com/wonny/marketboard/internal/watchlist"
	"github.com/wonny/marketboard/pkg/httputil"
	"github.com/wonny/marketboard/pkg/logger"
	"github.com/wonny/marketboard/pkg/metrics"
	"github.com/wonny/marketboard/pkg/redis"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the API server",
	Long: `Start the HTTP API server.

The stocks CSV is loaded once at startup. When it cannot be read the server
still starts and /api/stocks reports the missing file until a reload succeeds.

Endpoints:
  GET    /                       - HTML board
  GET    /health                 - Health check
  GET    /api/stocks             - Ranked stock summaries (?tickers=&n=)
  POST   /api/stocks/reload      - Re-read the stocks CSV
  GET    /api/metrics            - Sample metrics, timeseries, pie
  GET    /api/market_overview    - Index tiles
  GET    /api/weekly             - Weekly chart bundle
  GET    /api/random_timeseries  - 30 random days with stats
  GET    /api/auto_data          - Auto sector table
  GET    /api/external_proxy     - Forward to NEW_API_URL
  GET    /api/watchlist          - Watchlist
  POST   /api/watchlist          - Add symbol
  DELETE /api/watchlist/{symbol} - Remove symbol
  GET    /api/fiidii             - FII/DII flows (?refresh=1)
  GET    /api/jobs               - Background job stats
  GET    /metrics                - Prometheus metrics

Example:
  go run ./cmd/board api
  go run ./cmd/board api --port 8080`,
	RunE: runAPIServer,
}

var (
	apiPort string
)

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (default PORT or 4000)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	// 1. Load config
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if apiPort != "" {
		cfg.Port = apiPort
	}

	// 2. Initialize logger and metrics
	log := logger.New(cfg)
	rec := metrics.New()

	log.WithFields(map[string]interface{}{
		"port": cfg.Port,
		"env":  cfg.Env,
	}).Info("Initializing API server")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Shared cache
	rdb := openRedis(cfg, log)
	defer rdb.Close()
	remoteCache := redis.NewCache(rdb, redisPrefix)
	limiter := redis.NewRateLimiter(rdb, redisPrefix)

	// 4. Stocks snapshot
	store := stocks.NewStore(cfg.Stocks.CSVPath, log)
	if err := store.Reload(ctx); err != nil {
		log.WithError(err).Warn("Starting without a stocks dataset")
	}
	rec.SetDatasetRows(store.Current().Dataset.Len())
	builder := stocks.NewBuilder()

	// 5. External sources
	externalClient := httputil.NewWithTimeout(log, cfg.ExternalAPI.Timeout).DisableRetry()
	autoFeed := dashboard.NewAutoFeed(externalClient, cfg.ExternalAPI.URL, cfg.ExternalAPI.APIKey, log)

	flowsClient := httputil.New(log).
		WithRateLimiter(limiter, redis.FIIDIIRateLimit).
		WithHeader("Referer", cfg.FIIDII.URL)
	flowsService := flows.NewService(
		fiidii.NewClient(flowsClient, cfg.FIIDII.URL, log),
		cfg.FIIDII.CacheTTL, remoteCache, rec, log,
	)

	// 6. Scheduler
	sched := scheduler.New(log)
	if cfg.Stocks.ReloadSchedule != "" {
		if err := sched.AddJob(jobs.NewStocksReloadJob(store, rec, cfg.Stocks.ReloadSchedule, log)); err != nil {
			return err
		}
	}
	if cfg.FIIDII.RefreshSchedule != "" {
		if err := sched.AddJob(jobs.NewFlowsRefreshJob(flowsService, cfg.FIIDII.RefreshSchedule, log)); err != nil {
			return err
		}
	}
	sched.Start()
	defer sched.Stop()

	// 7. Handlers and router
	router := api.NewRouter(api.Handlers{
		Page:      handlers.NewPageHandler(store, builder, log),
		Stocks:    handlers.NewStocksHandler(store, builder, rec, log),
		Dashboard: handlers.NewDashboardHandler(dashboard.NewSamples(), autoFeed),
		Proxy:     handlers.NewProxyHandler(externalClient, cfg.ExternalAPI.URL, log),
		Watchlist: handlers.NewWatchlistHandler(watchlist.NewStore(cfg.WatchlistPath), log),
		Flows:     handlers.NewFlowsHandler(flowsService, log),
		Jobs:      handlers.NewJobsHandler(sched),
	}, api.RouterConfig{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		ExposeMetrics:  cfg.MetricsEnabled,
	}, rec, log)

	// 8. Start server with graceful shutdown
	server := api.New(cfg, log, router)
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	fmt.Fprintf(cmd.OutOrStdout(), "\n✅ Server running on http://localhost:%s\n", cfg.Port)
	fmt.Fprintln(cmd.OutOrStdout(), "Press Ctrl+C to stop")

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
