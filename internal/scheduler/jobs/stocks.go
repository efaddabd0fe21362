package jobs

import (
	"context"

	"github.com/wonny/marketboard/internal/stocks"
	"github.com/wonny/marketboard/pkg/logger"
	"github.com/wonny/marketboard/pkg/metrics"
)

// StocksReloadJob re-reads the stocks CSV into a fresh snapshot
type StocksReloadJob struct {
	store    *stocks.Store
	metrics  *metrics.Recorder
	schedule string
	logger   *logger.Logger
}

// NewStocksReloadJob creates a new reload job
func NewStocksReloadJob(store *stocks.Store, rec *metrics.Recorder, schedule string, log *logger.Logger) *StocksReloadJob {
	return &StocksReloadJob{
		store:    store,
		metrics:  rec,
		schedule: schedule,
		logger:   log,
	}
}

// Name returns the job name
func (j *StocksReloadJob) Name() string {
	return "stocks_reload"
}

// Schedule returns the configured cron schedule
func (j *StocksReloadJob) Schedule() string {
	return j.schedule
}

// Run reloads the snapshot. On failure the previous snapshot keeps serving.
func (j *StocksReloadJob) Run(ctx context.Context) error {
	j.logger.Debug("Starting scheduled stocks reload")

	if err := j.store.Reload(ctx); err != nil {
		return err
	}

	j.metrics.SetDatasetRows(j.store.Current().Dataset.Len())
	return nil
}
