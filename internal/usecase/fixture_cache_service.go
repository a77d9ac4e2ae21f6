package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/riskibarqy/match-predictor/internal/domain/fixture"
	"github.com/riskibarqy/match-predictor/internal/platform/logging"
)

const defaultFixtureRefreshInterval = 15 * time.Minute

type FixtureCacheConfig struct {
	Logger  *logging.Logger
	Metrics *Metrics
	Now     func() time.Time
}

// FixtureCacheService holds the last good snapshot of active fixtures. The
// snapshot is replaced wholesale by Refresh; readers never block on it.
type FixtureCacheService struct {
	source   fixture.Source
	snapshot atomic.Pointer[fixture.Snapshot]
	logger   *logging.Logger
	metrics  *Metrics
	now      func() time.Time
}

func NewFixtureCacheService(source fixture.Source, cfg FixtureCacheConfig) *FixtureCacheService {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &FixtureCacheService{
		source:  source,
		logger:  logger,
		metrics: cfg.Metrics,
		now:     now,
	}
}

// Refresh fetches the active fixtures and swaps in a new snapshot. On failure
// the previous snapshot stays in place.
func (s *FixtureCacheService) Refresh(ctx context.Context) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureCacheService.Refresh")
	defer span.End()

	entries, err := s.source.FetchActiveFixtures(ctx)
	if err != nil {
		s.metrics.observeFixtureRefresh(err, 0)
		s.logger.WarnContext(ctx, "fixture cache refresh failed, keeping previous snapshot",
			"entries", s.snapshot.Load().Len(),
			"error", err,
		)
		return fmt.Errorf("refresh fixture cache: %w", err)
	}

	next := fixture.NewSnapshot(entries, s.now().UTC())
	s.snapshot.Store(next)
	s.metrics.observeFixtureRefresh(nil, next.Len())
	s.logger.InfoContext(ctx, "fixture cache refreshed", "entries", next.Len())
	return nil
}

// Run refreshes on every tick until ctx is cancelled. Callers are expected to
// perform the initial Refresh themselves.
func (s *FixtureCacheService) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = defaultFixtureRefreshInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = s.Refresh(ctx)
		}
	}
}

func (s *FixtureCacheService) Lookup(matchID string) (fixture.Entry, error) {
	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return fixture.Entry{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	entry, ok := s.snapshot.Load().Lookup(matchID)
	if !ok {
		return fixture.Entry{}, fmt.Errorf("%w: fixture match_id=%s", ErrNotFound, matchID)
	}
	return entry, nil
}

func (s *FixtureCacheService) List() []fixture.Entry {
	return s.snapshot.Load().List()
}

// RefreshedAt is zero until the first successful refresh.
func (s *FixtureCacheService) RefreshedAt() time.Time {
	return s.snapshot.Load().RefreshedAt()
}
