package flows

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/marketboard/internal/external/fiidii"
	"github.com/wonny/marketboard/pkg/cache"
	"github.com/wonny/marketboard/pkg/logger"
	"github.com/wonny/marketboard/pkg/metrics"
	"github.com/wonny/marketboard/pkg/redis"
)

const memKey = "latest"

// Fetcher downloads the current FII/DII table
type Fetcher interface {
	FetchFlows(ctx context.Context) ([]fiidii.Flow, error)
	Source() string
}

// Report is what /api/fiidii serves
type Report struct {
	Source    string        `json:"source"`
	FetchedAt time.Time     `json:"fetched_at"`
	Cached    bool          `json:"cached"`
	Stale     bool          `json:"stale"`
	Flows     []fiidii.Flow `json:"flows"`
}

// Service caches FII/DII flows in memory and, when enabled, in Redis.
// A failed fetch falls back to the last value held in memory.
type Service struct {
	fetcher Fetcher
	mem     *cache.TTL[Report]
	remote  *redis.Cache
	metrics *metrics.Recorder
	logger  *logger.Logger
	now     func() time.Time
}

// NewService creates a flows service
func NewService(fetcher Fetcher, ttl time.Duration, remote *redis.Cache, rec *metrics.Recorder, log *logger.Logger) *Service {
	return &Service{
		fetcher: fetcher,
		mem:     cache.NewTTL[Report](ttl),
		remote:  remote,
		metrics: rec,
		logger:  log.WithComponent("flows"),
		now:     time.Now,
	}
}

// Get returns the flows, from cache unless refresh is set
func (s *Service) Get(ctx context.Context, refresh bool) (*Report, error) {
	if !refresh {
		if r, ok := s.cached(ctx); ok {
			return r, nil
		}
	}

	report, err := s.fetch(ctx)
	if err != nil {
		if old, _, ok := s.mem.GetStale(memKey); ok {
			s.logger.WithError(err).Warn("FII/DII fetch failed, serving stale flows")
			old.Cached = true
			old.Stale = true
			return &old, nil
		}
		return nil, err
	}
	return report, nil
}

// Refresh refetches the flows into both caches
func (s *Service) Refresh(ctx context.Context) error {
	report, err := s.fetch(ctx)
	if err != nil {
		return err
	}
	s.logger.WithField("count", len(report.Flows)).Info("FII/DII flows refreshed")
	return nil
}

func (s *Service) fetch(ctx context.Context) (*Report, error) {
	flows, err := s.fetcher.FetchFlows(ctx)
	s.metrics.RecordUpstream("fiidii", err)
	if err != nil {
		return nil, fmt.Errorf("fetch FII/DII flows: %w", err)
	}

	report := Report{
		Source:    s.fetcher.Source(),
		FetchedAt: s.now().UTC(),
		Flows:     flows,
	}
	s.mem.Set(memKey, report)
	if err := s.remote.Set(ctx, s.remoteKey(), report, s.mem.TTL()); err != nil {
		s.logger.WithError(err).Warn("Failed to store flows in redis")
	}
	return &report, nil
}

func (s *Service) cached(ctx context.Context) (*Report, bool) {
	if r, ok := s.mem.Get(memKey); ok {
		r.Cached = true
		return &r, true
	}

	var r Report
	found, err := s.remote.Get(ctx, s.remoteKey(), &r)
	if err != nil {
		s.logger.WithError(err).Warn("Failed to read flows from redis")
		return nil, false
	}
	if !found {
		return nil, false
	}

	s.mem.Set(memKey, r)
	r.Cached = true
	return &r, true
}

func (s *Service) remoteKey() string {
	return redis.FlowsKey(s.fetcher.Source())
}
