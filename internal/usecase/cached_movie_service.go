package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/movielobby/catalog/internal/domain/model"
	"github.com/movielobby/catalog/internal/infrastructure/cache"
	"github.com/movielobby/catalog/internal/infrastructure/metrics"
	"golang.org/x/sync/singleflight"
)

// moviesFlightKey coalesces concurrent list misses onto one store read.
const moviesFlightKey = "movies"

// CachedMovieServiceConfig holds configuration for CachedMovieService.
type CachedMovieServiceConfig struct {
	// CacheTTL bounds how stale a catalog snapshot may get.
	CacheTTL time.Duration
}

// DefaultCachedMovieServiceConfig returns the default configuration.
func DefaultCachedMovieServiceConfig() CachedMovieServiceConfig {
	return CachedMovieServiceConfig{
		CacheTTL: 10 * time.Second,
	}
}

// cachedMovieService wraps MovieService with caching capabilities.
// It implements the decorator pattern to add caching without modifying
// the base service. The cache holds a single snapshot of the full
// catalog; every successful write invalidates it.
type cachedMovieService struct {
	delegate MovieService
	cache    cache.CatalogCache
	sfGroup  singleflight.Group

	cacheTTL time.Duration
}

// NewCachedMovieService creates a new CachedMovieService wrapping the provided MovieService.
func NewCachedMovieService(
	delegate MovieService,
	catalogCache cache.CatalogCache,
	cfg CachedMovieServiceConfig,
) MovieService {
	return &cachedMovieService{
		delegate: delegate,
		cache:    catalogCache,
		cacheTTL: cfg.CacheTTL,
	}
}

// ListMovies retrieves the catalog with caching.
// Uses singleflight to prevent a stampede when the snapshot expires.
func (s *cachedMovieService) ListMovies(ctx context.Context) ([]*model.Movie, error) {
	result, err, shared := s.sfGroup.Do(moviesFlightKey, func() (any, error) {
		return s.listWithCache(ctx)
	})

	if shared {
		metrics.SingleflightRequestsTotal.WithLabelValues(metrics.SingleflightShared).Inc()
	} else {
		metrics.SingleflightRequestsTotal.WithLabelValues(metrics.SingleflightInitiated).Inc()
	}

	if err != nil {
		return nil, err
	}

	return result.([]*model.Movie), nil
}

// listWithCache implements the cache-aside pattern for the catalog snapshot.
func (s *cachedMovieService) listWithCache(ctx context.Context) ([]*model.Movie, error) {
	// Try cache first. A cache failure degrades to a store read:
	// the cache is an optimization, not a correctness dependency.
	movies, err := s.cache.GetMovies(ctx)
	if err != nil {
		metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpGet, metrics.CacheStatusError).Inc()
		slog.Warn("cache get failed, falling back to store",
			"error", err,
		)
	}

	if movies != nil {
		metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpGet, metrics.CacheStatusHit).Inc()
		return movies, nil // Cache hit
	}
	metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpGet, metrics.CacheStatusMiss).Inc()

	// Cache miss - fetch from the store
	movies, err = s.delegate.ListMovies(ctx)
	if err != nil {
		return nil, err
	}

	// Populate the snapshot (errors logged but not propagated)
	if err := s.cache.SetMovies(ctx, movies, s.cacheTTL); err != nil {
		metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpSet, metrics.CacheStatusError).Inc()
		slog.Warn("failed to cache movie catalog",
			"error", err,
		)
	} else {
		metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpSet, metrics.CacheStatusSuccess).Inc()
	}

	return movies, nil
}

// SearchMovies always bypasses the cache. The query space is unbounded,
// and freshness matters more than latency for an explicit search.
func (s *cachedMovieService) SearchMovies(ctx context.Context, query string) ([]*model.Movie, error) {
	return s.delegate.SearchMovies(ctx, query)
}

// CreateMovie invalidates the snapshot and then delegates. Invalidation
// happens before the insert: if the insert fails the cache is merely
// empty, and the next ListMovies reads fresh from the store.
func (s *cachedMovieService) CreateMovie(ctx context.Context, fields model.MovieFields) (*model.Movie, error) {
	s.invalidate(ctx)

	return s.delegate.CreateMovie(ctx, fields)
}

// UpdateMovie delegates first; the snapshot is invalidated only after a
// successful update. A NotFound leaves the cache untouched since no
// state changed.
func (s *cachedMovieService) UpdateMovie(ctx context.Context, id uuid.UUID, update model.MovieUpdate) (*model.Movie, error) {
	movie, err := s.delegate.UpdateMovie(ctx, id, update)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx)

	return movie, nil
}

// RemoveMovie delegates first; the snapshot is invalidated only after a
// successful delete.
func (s *cachedMovieService) RemoveMovie(ctx context.Context, id uuid.UUID) (*model.Movie, error) {
	movie, err := s.delegate.RemoveMovie(ctx, id)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx)

	return movie, nil
}

// invalidate drops the snapshot. The write has already committed (or is
// about to run against the store), so a cache failure is logged and
// never masks the outcome of the write itself.
func (s *cachedMovieService) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpDelete, metrics.CacheStatusError).Inc()
		slog.Warn("failed to invalidate movie catalog cache",
			"error", err,
		)
		return
	}
	metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpDelete, metrics.CacheStatusSuccess).Inc()
}
