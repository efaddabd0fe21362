package jobs

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/marketboard/internal/stocks"
	"github.com/wonny/marketboard/pkg/logger"
	"github.com/wonny/marketboard/pkg/metrics"
)

func TestStocksReloadJob(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stocks.csv")
	require.NoError(t, os.WriteFile(path, []byte("Name,1d\nTCS,1\nINFY,2\n"), 0o644))

	store := stocks.NewStore(path, logger.Nop())
	rec := metrics.New()
	job := NewStocksReloadJob(store, rec, "@every 1m", logger.Nop())

	assert.Equal(t, "stocks_reload", job.Name())
	assert.Equal(t, "@every 1m", job.Schedule())

	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, 2, store.Current().Dataset.Len())

	expected := `
# HELP marketboard_stock_dataset_rows Rows in the active stock CSV snapshot
# TYPE marketboard_stock_dataset_rows gauge
marketboard_stock_dataset_rows 2
`
	assert.NoError(t, testutil.GatherAndCompare(rec.Registry(), strings.NewReader(expected), "marketboard_stock_dataset_rows"))
}

func TestStocksReloadJob_MissingFile(t *testing.T) {
	store := stocks.NewStore(filepath.Join(t.TempDir(), "missing.csv"), logger.Nop())
	job := NewStocksReloadJob(store, metrics.New(), "@hourly", logger.Nop())

	assert.Error(t, job.Run(context.Background()))
}

type fakeRefresher struct{ err error }

func (f fakeRefresher) Refresh(ctx context.Context) error { return f.err }

func TestFlowsRefreshJob(t *testing.T) {
	job := NewFlowsRefreshJob(fakeRefresher{}, "0 */15 * * * *", logger.Nop())
	assert.Equal(t, "fiidii_refresh", job.Name())
	assert.NoError(t, job.Run(context.Background()))

	failing := NewFlowsRefreshJob(fakeRefresher{err: errors.New("blocked")}, "@hourly", logger.Nop())
	assert.Error(t, failing.Run(context.Background()))
}
