package service

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/voltfleet/cpconsole/internal/csms"
)

// OverviewServiceOptions groups dependencies for OverviewService.
type OverviewServiceOptions struct {
	Backend *csms.Client
	// RecentLimit caps the recent-sessions list on the dashboard.
	RecentLimit int
}

// OverviewService aggregates the four dashboard queries in parallel and
// keeps the latest successful snapshot so the poller can serve page loads
// without fanning out to the backend every time.
type OverviewService struct {
	backend     *csms.Client
	recentLimit int

	mu        sync.RWMutex
	snapshot  csms.DashboardData
	haveSnap  bool
	lastToken string
}

// NewOverviewService constructs an OverviewService.
func NewOverviewService(opts OverviewServiceOptions) *OverviewService {
	limit := opts.RecentLimit
	if limit <= 0 {
		limit = 10
	}
	return &OverviewService{backend: opts.Backend, recentLimit: limit}
}

// Fetch loads charge points, recent sessions, stats and revenue
// concurrently. Any one failing fails the whole aggregate.
func (s *OverviewService) Fetch(ctx context.Context, token string) (csms.DashboardData, error) {
	var data csms.DashboardData

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		cps, err := s.backend.ChargePoints(ctx, token)
		if err == nil {
			data.ChargePoints = cps
		}
		return err
	})
	g.Go(func() error {
		sessions, err := s.backend.RecentSessions(ctx, token, s.recentLimit)
		if err == nil {
			data.Sessions = sessions
		}
		return err
	})
	g.Go(func() error {
		stats, err := s.backend.Stats(ctx, token)
		if err == nil {
			data.Stats = stats
		}
		return err
	})
	g.Go(func() error {
		revenue, err := s.backend.Revenue(ctx, token)
		if err == nil {
			data.Revenue = revenue
		}
		return err
	})

	if err := g.Wait(); err != nil {
		return csms.DashboardData{}, err
	}

	data.FetchedAt = time.Now()
	s.mu.Lock()
	s.snapshot = data
	s.haveSnap = true
	s.lastToken = token
	s.mu.Unlock()
	return data, nil
}

// Refresh re-runs the aggregate with the token of the last successful
// fetch. A no-op until someone has loaded the dashboard once.
func (s *OverviewService) Refresh(ctx context.Context) error {
	s.mu.RLock()
	token := s.lastToken
	s.mu.RUnlock()
	if token == "" {
		return nil
	}
	_, err := s.Fetch(ctx, token)
	return err
}

// Snapshot returns the last successful aggregate, if any.
func (s *OverviewService) Snapshot() (csms.DashboardData, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot, s.haveSnap
}

// SnapshotFresh is Snapshot restricted to aggregates younger than maxAge.
func (s *OverviewService) SnapshotFresh(maxAge time.Duration) (csms.DashboardData, bool) {
	data, ok := s.Snapshot()
	if !ok || time.Since(data.FetchedAt) > maxAge {
		return csms.DashboardData{}, false
	}
	return data, true
}
