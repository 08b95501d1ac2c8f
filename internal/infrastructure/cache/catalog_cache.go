package cache

import (
	"context"
	"time"

	"github.com/movielobby/catalog/internal/domain/model"
)

// CatalogCache defines the interface for caching the movie catalog
// snapshot. Implementations should handle serialization transparently.
type CatalogCache interface {
	// GetMovies retrieves the cached catalog snapshot.
	// Returns nil, nil if no snapshot is cached (cache miss).
	GetMovies(ctx context.Context) ([]*model.Movie, error)

	// SetMovies stores the catalog snapshot with the specified TTL.
	SetMovies(ctx context.Context, movies []*model.Movie, ttl time.Duration) error

	// Invalidate drops the cached snapshot.
	// Returns nil if no snapshot was cached.
	Invalidate(ctx context.Context) error
}
