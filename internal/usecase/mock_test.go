package usecase

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/movielobby/catalog/internal/domain/model"
	"github.com/movielobby/catalog/internal/domain/repository"
)

// mockMovieRepository is a mock implementation of repository.MovieRepository.
type mockMovieRepository struct {
	listFn     func(ctx context.Context) ([]*model.Movie, error)
	searchFn   func(ctx context.Context, query string) ([]*model.Movie, error)
	insertFn   func(ctx context.Context, fields model.MovieFields) (*model.Movie, error)
	updateFn   func(ctx context.Context, id uuid.UUID, update model.MovieUpdate) (*model.Movie, error)
	deleteFn   func(ctx context.Context, id uuid.UUID) (*model.Movie, error)
	listCount  atomic.Int32
	writeCount atomic.Int32
}

func (m *mockMovieRepository) List(ctx context.Context) ([]*model.Movie, error) {
	m.listCount.Add(1)
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return []*model.Movie{}, nil
}

func (m *mockMovieRepository) Search(ctx context.Context, query string) ([]*model.Movie, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, query)
	}
	return []*model.Movie{}, nil
}

func (m *mockMovieRepository) Insert(ctx context.Context, fields model.MovieFields) (*model.Movie, error) {
	m.writeCount.Add(1)
	if m.insertFn != nil {
		return m.insertFn(ctx, fields)
	}
	return nil, nil
}

func (m *mockMovieRepository) UpdateByID(ctx context.Context, id uuid.UUID, update model.MovieUpdate) (*model.Movie, error) {
	m.writeCount.Add(1)
	if m.updateFn != nil {
		return m.updateFn(ctx, id, update)
	}
	return nil, repository.ErrMovieNotFound
}

func (m *mockMovieRepository) DeleteByID(ctx context.Context, id uuid.UUID) (*model.Movie, error) {
	m.writeCount.Add(1)
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil, repository.ErrMovieNotFound
}

// mockEventPublisher is a mock implementation of repository.EventPublisher.
type mockEventPublisher struct {
	mu        sync.Mutex
	published []repository.CatalogEvent
	publishFn func(ctx context.Context, event repository.CatalogEvent) error
}

func (m *mockEventPublisher) PublishCatalogEvent(ctx context.Context, event repository.CatalogEvent) error {
	m.mu.Lock()
	m.published = append(m.published, event)
	m.mu.Unlock()
	if m.publishFn != nil {
		return m.publishFn(ctx, event)
	}
	return nil
}

func (m *mockEventPublisher) Close() error { return nil }

func (m *mockEventPublisher) events() []repository.CatalogEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]repository.CatalogEvent(nil), m.published...)
}

// mockMovieService is a mock implementation of MovieService for
// testing the caching decorator in isolation.
type mockMovieService struct {
	listFn    func(ctx context.Context) ([]*model.Movie, error)
	searchFn  func(ctx context.Context, query string) ([]*model.Movie, error)
	createFn  func(ctx context.Context, fields model.MovieFields) (*model.Movie, error)
	updateFn  func(ctx context.Context, id uuid.UUID, update model.MovieUpdate) (*model.Movie, error)
	removeFn  func(ctx context.Context, id uuid.UUID) (*model.Movie, error)
	listCount atomic.Int32
}

func (m *mockMovieService) ListMovies(ctx context.Context) ([]*model.Movie, error) {
	m.listCount.Add(1)
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return []*model.Movie{}, nil
}

func (m *mockMovieService) SearchMovies(ctx context.Context, query string) ([]*model.Movie, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, query)
	}
	return []*model.Movie{}, nil
}

func (m *mockMovieService) CreateMovie(ctx context.Context, fields model.MovieFields) (*model.Movie, error) {
	if m.createFn != nil {
		return m.createFn(ctx, fields)
	}
	return nil, nil
}

func (m *mockMovieService) UpdateMovie(ctx context.Context, id uuid.UUID, update model.MovieUpdate) (*model.Movie, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, update)
	}
	return nil, repository.ErrMovieNotFound
}

func (m *mockMovieService) RemoveMovie(ctx context.Context, id uuid.UUID) (*model.Movie, error) {
	if m.removeFn != nil {
		return m.removeFn(ctx, id)
	}
	return nil, repository.ErrMovieNotFound
}

// mockCatalogCache is an in-memory cache implementation. The snapshot
// pointer doubles as the hit/miss signal, mirroring the Redis client.
type mockCatalogCache struct {
	mu           sync.RWMutex
	snapshot     []*model.Movie
	hasSnapshot  bool
	getFn        func(ctx context.Context) ([]*model.Movie, error)
	setFn        func(ctx context.Context, movies []*model.Movie, ttl time.Duration) error
	invalidateFn func(ctx context.Context) error
}

func newMockCatalogCache() *mockCatalogCache {
	return &mockCatalogCache{}
}

func (m *mockCatalogCache) GetMovies(ctx context.Context) ([]*model.Movie, error) {
	if m.getFn != nil {
		return m.getFn(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.hasSnapshot {
		return nil, nil
	}
	return m.snapshot, nil
}

func (m *mockCatalogCache) SetMovies(ctx context.Context, movies []*model.Movie, ttl time.Duration) error {
	if m.setFn != nil {
		return m.setFn(ctx, movies, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshot = movies
	m.hasSnapshot = true
	return nil
}

func (m *mockCatalogCache) Invalidate(ctx context.Context) error {
	if m.invalidateFn != nil {
		return m.invalidateFn(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshot = nil
	m.hasSnapshot = false
	return nil
}

func (m *mockCatalogCache) cached() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.hasSnapshot
}

func (m *mockCatalogCache) seed(movies []*model.Movie) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshot = movies
	m.hasSnapshot = true
}
