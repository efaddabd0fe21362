package history

import (
	"context"
	"fmt"
)

// BarSink persists downloaded rows
type BarSink interface {
	SaveBars(ctx context.Context, rows []Row) error
}

// Runner downloads a universe and writes the CSV, plus the database when a sink is set
type Runner struct {
	downloader *Downloader
	sink       BarSink
}

// NewRunner creates a runner; sink may be nil
func NewRunner(d *Downloader, sink BarSink) *Runner {
	return &Runner{downloader: d, sink: sink}
}

// Run executes one download into outPath
func (r *Runner) Run(ctx context.Context, u *Universe, opts Options, outPath string) (*Result, error) {
	res, err := r.downloader.Download(ctx, u.Symbols(), opts)
	if err != nil {
		return nil, err
	}

	if err := SaveCSV(outPath, res.Rows); err != nil {
		return nil, err
	}

	if r.sink != nil {
		if err := r.sink.SaveBars(ctx, res.Rows); err != nil {
			return nil, fmt.Errorf("save bars: %w", err)
		}
	}

	return res, nil
}
