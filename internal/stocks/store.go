package stocks

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/wonny/marketboard/pkg/logger"
)

// Snapshot is one immutable load of the CSV together with its provenance
type Snapshot struct {
	Dataset  *Dataset
	Source   string
	LoadedAt time.Time
}

// Loader produces a dataset from a source path
type Loader func(path string) (*Dataset, error)

// Store owns the current dataset snapshot. Readers get whole snapshots only:
// a reload swaps the pointer after the new dataset is fully parsed.
// ⭐ SSOT: CSV 스냅샷 교체는 여기서만
type Store struct {
	path    string
	load    Loader
	current atomic.Pointer[Snapshot]
	logger  *logger.Logger
}

// NewStore creates a store for the CSV at path. Call Reload to populate it.
func NewStore(path string, log *logger.Logger) *Store {
	return NewStoreWithLoader(path, LoadCSV, log)
}

// NewStoreWithLoader creates a store with a custom loader
func NewStoreWithLoader(path string, load Loader, log *logger.Logger) *Store {
	s := &Store{
		path:   path,
		load:   load,
		logger: log.WithComponent("stocks_store"),
	}
	s.current.Store(&Snapshot{Dataset: &Dataset{}, Source: path})
	return s
}

// Current returns the active snapshot (never nil)
func (s *Store) Current() *Snapshot {
	return s.current.Load()
}

// Source returns the configured CSV path
func (s *Store) Source() string {
	return s.path
}

// Reload re-reads the CSV and swaps it in.
// On failure the previous snapshot stays active and the error is returned for logging.
func (s *Store) Reload(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	ds, err := s.load(s.path)
	if err != nil {
		s.logger.WithError(err).WithField("path", s.path).Warn("CSV load failed, keeping previous snapshot")
		return fmt.Errorf("reload stocks dataset: %w", err)
	}

	s.current.Store(&Snapshot{
		Dataset:  ds,
		Source:   s.path,
		LoadedAt: time.Now().UTC(),
	})

	s.logger.WithFields(map[string]interface{}{
		"path":    s.path,
		"rows":    ds.Len(),
		"columns": len(ds.Columns),
	}).Info("Stocks dataset loaded")

	return nil
}
