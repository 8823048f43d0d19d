// Package changelog owns the cache and the two-period fetch that feed every
// query. The current year is mandatory, the previous year is best effort.
package changelog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/dtnitsch/changelog-mcp/models"
	"github.com/dtnitsch/changelog-mcp/pkg/caching"
	"github.com/dtnitsch/changelog-mcp/pkg/parser"
	"github.com/dtnitsch/changelog-mcp/pkg/query"
)

const defaultOrigin = "https://github.blog"

var (
	// ErrCurrentPeriod wraps whatever made the mandatory period fail.
	ErrCurrentPeriod = errors.New("current changelog period unavailable")
	// ErrNotFound is returned by Lookup when no entry has the requested id.
	ErrNotFound = errors.New("changelog entry not found")
)

// DocumentFetcher downloads the raw page for one reporting period.
type DocumentFetcher interface {
	FetchDocument(ctx context.Context, period models.Period) (string, error)
}

// Service resolves merged changelog entries through a private TTL cache.
type Service struct {
	fetcher DocumentFetcher
	cache   *caching.Cache
	group   singleflight.Group
	logger  *slog.Logger
	now     func() time.Time

	origin        string
	cacheTTL      time.Duration
	sweepInterval time.Duration
	timeout       time.Duration
}

// Option configures a Service.
type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithCacheTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.cacheTTL = ttl
		}
	}
}

// WithSweepInterval sets how often expired cache slots are reclaimed. Zero
// disables the background sweep.
func WithSweepInterval(interval time.Duration) Option {
	return func(s *Service) {
		s.sweepInterval = interval
	}
}

// WithTimeout bounds a whole MergedEntries call. Zero means no bound beyond
// the caller's context.
func WithTimeout(timeout time.Duration) Option {
	return func(s *Service) {
		s.timeout = timeout
	}
}

// WithClock replaces time.Now for the cache and the year calculation.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithOrigin sets the scheme and host relative links are resolved against.
func WithOrigin(origin string) Option {
	return func(s *Service) {
		if origin != "" {
			s.origin = origin
		}
	}
}

// NewService builds a Service. When fetcher exposes an Origin method it is
// used as the default link origin.
func NewService(fetcher DocumentFetcher, opts ...Option) *Service {
	s := &Service{
		fetcher:       fetcher,
		logger:        slog.Default(),
		now:           time.Now,
		origin:        defaultOrigin,
		cacheTTL:      models.DefaultCacheTTL,
		sweepInterval: models.DefaultSweepInterval,
		timeout:       models.DefaultRequestTimeout,
	}
	if o, ok := fetcher.(interface{ Origin() string }); ok && o.Origin() != "" {
		s.origin = o.Origin()
	}
	for _, opt := range opts {
		opt(s)
	}
	s.cache = caching.NewCache(s.sweepInterval, caching.WithClock(s.now))
	return s
}

// Periods returns the mandatory and best-effort periods for the current clock.
func (s *Service) Periods() (current, previous models.Period) {
	year := s.now().Year()
	return models.YearPeriod(year), models.YearPeriod(year - 1)
}

// MergedEntries returns current-year entries followed by previous-year
// entries. A previous-year failure contributes nothing; a current-year
// failure or an expired timeout fails the call.
func (s *Service) MergedEntries(ctx context.Context) ([]models.Entry, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	current, previous := s.Periods()
	var currentEntries, previousEntries []models.Entry

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		entries, err := s.PeriodEntries(gctx, current)
		if err != nil {
			return fmt.Errorf("%w (%s): %w", ErrCurrentPeriod, current, err)
		}
		currentEntries = entries
		return nil
	})
	g.Go(func() error {
		entries, err := s.PeriodEntries(gctx, previous)
		if err != nil {
			s.logger.Warn("previous period unavailable, continuing without it",
				"period", previous.String(), "error", err)
			return nil
		}
		previousEntries = entries
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	// Partial results never outlive the deadline.
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("fetching changelog: %w", err)
	}

	merged := make([]models.Entry, 0, len(currentEntries)+len(previousEntries))
	merged = append(merged, currentEntries...)
	merged = append(merged, previousEntries...)
	return merged, nil
}

// PeriodEntries returns the cached entries for period, or fetches, parses
// and caches them. Concurrent misses on one period share a single fetch.
// The shared fetch is bounded by the service timeout, not by any one
// caller's context; ctx only decides how long this caller waits for it.
func (s *Service) PeriodEntries(ctx context.Context, period models.Period) ([]models.Entry, error) {
	key := period.CacheKey()
	if entries, ok := s.cache.Get(key); ok {
		s.logger.Debug("cache hit", "period", period.String(), "entries", len(entries))
		return entries, nil
	}

	ch := s.group.DoChan(key, func() (any, error) {
		// A fetch may have completed between the miss above and joining here.
		if entries, ok := s.cache.Get(key); ok {
			return entries, nil
		}

		loadCtx := context.WithoutCancel(ctx)
		if s.timeout > 0 {
			var cancel context.CancelFunc
			loadCtx, cancel = context.WithTimeout(loadCtx, s.timeout)
			defer cancel()
		}
		return s.load(loadCtx, period)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]models.Entry), nil
	}
}

func (s *Service) load(ctx context.Context, period models.Period) ([]models.Entry, error) {
	start := s.now()

	html, err := s.fetcher.FetchDocument(ctx, period)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", period, err)
	}

	entries, err := parser.Parse(html, period.Year(start), s.origin)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", period, err)
	}

	s.cache.Set(period.CacheKey(), entries, s.cacheTTL)
	s.logger.Info("changelog fetched",
		"period", period.String(),
		"entries", len(entries),
		"bytes", len(html),
		"duration_ms", s.now().Sub(start).Milliseconds())
	return entries, nil
}

// Entries runs filter over the merged entries.
func (s *Service) Entries(ctx context.Context, filter models.Filter) (models.QueryResult, error) {
	entries, err := s.MergedEntries(ctx)
	if err != nil {
		return models.QueryResult{}, err
	}
	return query.Run(entries, filter), nil
}

// Lookup finds one entry by id in the merged set.
func (s *Service) Lookup(ctx context.Context, id string) (models.Entry, error) {
	entries, err := s.MergedEntries(ctx)
	if err != nil {
		return models.Entry{}, err
	}
	for _, e := range entries {
		if e.ID == id {
			return e, nil
		}
	}
	return models.Entry{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// ClearCache drops every cached period immediately.
func (s *Service) ClearCache() {
	s.cache.Clear()
	s.logger.Info("changelog cache cleared")
}

// Origin is the scheme and host entry links are resolved against.
func (s *Service) Origin() string {
	return s.origin
}

// Close stops the cache sweeper.
func (s *Service) Close() {
	s.cache.Close()
}
