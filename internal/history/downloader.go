package history

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/creasty/defaults"
	"golang.org/x/sync/errgroup"

	"github.com/wonny/marketboard/internal/external/yahoo"
	"github.com/wonny/marketboard/pkg/logger"
	"github.com/wonny/marketboard/pkg/redis"
)

const dateLayout = "2006-01-02"

// Row is one output line: a daily bar for one symbol
type Row struct {
	Date   time.Time `json:"date"`
	Symbol string    `json:"symbol"`
	Close  float64   `json:"close"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Open   float64   `json:"open"`
	Volume int64     `json:"volume"`
}

// BarFetcher downloads daily bars for one exchange symbol
type BarFetcher interface {
	FetchDaily(ctx context.Context, symbol string, from, to time.Time) ([]yahoo.Bar, error)
}

// Options controls one download run. To is exclusive.
type Options struct {
	From     time.Time
	To       time.Time
	Workers  int           `default:"4"`
	CacheTTL time.Duration `default:"6h"`
}

// Result is the outcome of a download run
type Result struct {
	Rows   []Row
	Failed []string
}

// Downloader fans symbol downloads out over a bounded worker pool.
// A failing symbol is logged and skipped.
type Downloader struct {
	fetcher BarFetcher
	cache   *redis.Cache
	logger  *logger.Logger
}

// NewDownloader creates a downloader
func NewDownloader(fetcher BarFetcher, cache *redis.Cache, log *logger.Logger) *Downloader {
	return &Downloader{
		fetcher: fetcher,
		cache:   cache,
		logger:  log.WithComponent("history"),
	}
}

// Download fetches every symbol and returns rows sorted by date then symbol
func (d *Downloader) Download(ctx context.Context, symbols []string, opts Options) (*Result, error) {
	if err := defaults.Set(&opts); err != nil {
		return nil, fmt.Errorf("apply download defaults: %w", err)
	}
	if !opts.To.After(opts.From) {
		return nil, fmt.Errorf("invalid range: %s to %s", opts.From.Format(dateLayout), opts.To.Format(dateLayout))
	}

	var (
		mu     sync.Mutex
		rows   []Row
		failed []string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)

	for _, sym := range symbols {
		sym := sym
		g.Go(func() error {
			bars, err := d.bars(gctx, sym, opts)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				d.logger.WithError(err).WithField("symbol", sym).Warn("Skipping symbol")
				mu.Lock()
				failed = append(failed, sym)
				mu.Unlock()
				return nil
			}

			display := DisplaySymbol(sym)
			mu.Lock()
			for _, b := range bars {
				rows = append(rows, Row{
					Date:   b.Date,
					Symbol: display,
					Close:  b.Close,
					High:   b.High,
					Low:    b.Low,
					Open:   b.Open,
					Volume: b.Volume,
				})
			}
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	SortRows(rows)
	sort.Strings(failed)

	d.logger.WithFields(map[string]interface{}{
		"symbols": len(symbols),
		"rows":    len(rows),
		"failed":  len(failed),
	}).Info("History download complete")

	return &Result{Rows: rows, Failed: failed}, nil
}

// bars reads through the redis cache
func (d *Downloader) bars(ctx context.Context, symbol string, opts Options) ([]yahoo.Bar, error) {
	key := redis.HistoryKey(symbol, opts.From.Format(dateLayout), opts.To.Format(dateLayout))

	var cached []yahoo.Bar
	if found, err := d.cache.Get(ctx, key, &cached); err == nil && found {
		return cached, nil
	}

	bars, err := d.fetcher.FetchDaily(ctx, symbol, opts.From, opts.To)
	if err != nil {
		return nil, err
	}

	if err := d.cache.Set(ctx, key, bars, opts.CacheTTL); err != nil {
		d.logger.WithError(err).Debug("Failed to cache bars")
	}
	return bars, nil
}

// SortRows orders rows by date, then symbol
func SortRows(rows []Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		if !rows[i].Date.Equal(rows[j].Date) {
			return rows[i].Date.Before(rows[j].Date)
		}
		return rows[i].Symbol < rows[j].Symbol
	})
}
