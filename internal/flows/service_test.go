package flows

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/marketboard/internal/external/fiidii"
	"github.com/wonny/marketboard/pkg/logger"
	"github.com/wonny/marketboard/pkg/metrics"
	"github.com/wonny/marketboard/pkg/redis"
)

type fakeFetcher struct {
	calls int
	err   error
}

func (f *fakeFetcher) FetchFlows(ctx context.Context) ([]fiidii.Flow, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return []fiidii.Flow{{
		Date:   time.Date(2024, 10, 21, 0, 0, 0, 0, time.UTC),
		FIINet: decimal.NewFromInt(int64(-100 * f.calls)),
	}}, nil
}

func (f *fakeFetcher) Source() string { return "test" }

func newService(f Fetcher, rec *metrics.Recorder) *Service {
	return NewService(f, time.Hour, redis.NewCache(redis.Disabled(), "test"), rec, logger.Nop())
}

func TestGet_CachesWithinTTL(t *testing.T) {
	f := &fakeFetcher{}
	svc := newService(f, metrics.New())

	first, err := svc.Get(context.Background(), false)
	require.NoError(t, err)
	assert.False(t, first.Cached)
	assert.Equal(t, "test", first.Source)

	second, err := svc.Get(context.Background(), false)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.False(t, second.Stale)
	assert.Equal(t, 1, f.calls)
}

func TestGet_RefreshBypassesCache(t *testing.T) {
	f := &fakeFetcher{}
	svc := newService(f, metrics.New())

	_, err := svc.Get(context.Background(), false)
	require.NoError(t, err)

	r, err := svc.Get(context.Background(), true)
	require.NoError(t, err)
	assert.False(t, r.Cached)
	assert.Equal(t, 2, f.calls)
	assert.True(t, r.Flows[0].FIINet.Equal(decimal.NewFromInt(-200)))
}

func TestGet_ServesStaleOnFailure(t *testing.T) {
	f := &fakeFetcher{}
	rec := metrics.New()
	svc := newService(f, rec)

	_, err := svc.Get(context.Background(), false)
	require.NoError(t, err)

	f.err = errors.New("blocked")
	r, err := svc.Get(context.Background(), true)
	require.NoError(t, err)
	assert.True(t, r.Stale)
	assert.True(t, r.Cached)
	require.Len(t, r.Flows, 1)

	// one ok series and one error series
	count, err := testutil.GatherAndCount(rec.Registry(), "marketboard_upstream_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestGet_FailureWithoutCache(t *testing.T) {
	svc := newService(&fakeFetcher{err: errors.New("down")}, metrics.New())

	_, err := svc.Get(context.Background(), false)
	assert.Error(t, err)
}

func TestRefresh(t *testing.T) {
	f := &fakeFetcher{}
	svc := newService(f, metrics.New())

	require.NoError(t, svc.Refresh(context.Background()))

	r, err := svc.Get(context.Background(), false)
	require.NoError(t, err)
	assert.True(t, r.Cached)
	assert.Equal(t, 1, f.calls)

	f.err = errors.New("down")
	assert.Error(t, svc.Refresh(context.Background()))
}
