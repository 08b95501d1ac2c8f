package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/movielobby/catalog/internal/domain/model"
	"github.com/movielobby/catalog/internal/domain/repository"
)

func TestCachedMovieService_ListMovies_CacheHit(t *testing.T) {
	cachedMovies := []*model.Movie{sampleMovie()}

	mockSvc := &mockMovieService{}
	mockCache := newMockCatalogCache()
	mockCache.seed(cachedMovies)

	svc := NewCachedMovieService(mockSvc, mockCache, DefaultCachedMovieServiceConfig())

	got, err := svc.ListMovies(context.Background())
	if err != nil {
		t.Fatalf("ListMovies failed: %v", err)
	}

	if len(got) != 1 || got[0].ID != cachedMovies[0].ID {
		t.Errorf("ListMovies = %v, want cached snapshot", got)
	}

	// Verify delegate was NOT called (cache hit)
	if mockSvc.listCount.Load() != 0 {
		t.Errorf("delegate ListMovies called %d times, want 0", mockSvc.listCount.Load())
	}
}

func TestCachedMovieService_ListMovies_CacheMissPopulatesSnapshot(t *testing.T) {
	storeMovies := []*model.Movie{sampleMovie(), sampleMovie()}

	mockSvc := &mockMovieService{
		listFn: func(ctx context.Context) ([]*model.Movie, error) {
			return storeMovies, nil
		},
	}
	mockCache := newMockCatalogCache()

	svc := NewCachedMovieService(mockSvc, mockCache, DefaultCachedMovieServiceConfig())

	got, err := svc.ListMovies(context.Background())
	if err != nil {
		t.Fatalf("ListMovies failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("len = %d, want 2", len(got))
	}

	// Verify delegate was called (cache miss)
	if mockSvc.listCount.Load() != 1 {
		t.Errorf("delegate ListMovies called %d times, want 1", mockSvc.listCount.Load())
	}

	// Verify snapshot was cached
	if !mockCache.cached() {
		t.Error("catalog was not cached after cache miss")
	}

	// A second list within TTL serves the snapshot without a store call
	if _, err := svc.ListMovies(context.Background()); err != nil {
		t.Fatalf("second ListMovies failed: %v", err)
	}
	if mockSvc.listCount.Load() != 1 {
		t.Errorf("delegate ListMovies called %d times after second list, want 1", mockSvc.listCount.Load())
	}
}

func TestCachedMovieService_ListMovies_CacheErrorFallsBackToStore(t *testing.T) {
	storeMovies := []*model.Movie{sampleMovie()}

	mockSvc := &mockMovieService{
		listFn: func(ctx context.Context) ([]*model.Movie, error) {
			return storeMovies, nil
		},
	}
	mockCache := &mockCatalogCache{
		getFn: func(ctx context.Context) ([]*model.Movie, error) {
			return nil, errors.New("redis connection error")
		},
		setFn: func(ctx context.Context, movies []*model.Movie, ttl time.Duration) error {
			return errors.New("redis connection error")
		},
	}

	svc := NewCachedMovieService(mockSvc, mockCache, DefaultCachedMovieServiceConfig())

	got, err := svc.ListMovies(context.Background())
	if err != nil {
		t.Fatalf("ListMovies should not fail on cache error: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("len = %d, want 1", len(got))
	}
}

func TestCachedMovieService_ListMovies_StoreFailurePropagates(t *testing.T) {
	mockSvc := &mockMovieService{
		listFn: func(ctx context.Context) ([]*model.Movie, error) {
			return nil, errors.New("connection refused")
		},
	}
	mockCache := newMockCatalogCache()

	svc := NewCachedMovieService(mockSvc, mockCache, DefaultCachedMovieServiceConfig())

	if _, err := svc.ListMovies(context.Background()); err == nil {
		t.Fatal("expected store error to propagate, got nil")
	}
	if mockCache.cached() {
		t.Error("nothing should be cached after a store failure")
	}
}

func TestCachedMovieService_ListMovies_UsesConfiguredTTL(t *testing.T) {
	var gotTTL time.Duration
	mockCache := &mockCatalogCache{
		setFn: func(ctx context.Context, movies []*model.Movie, ttl time.Duration) error {
			gotTTL = ttl
			return nil
		},
	}
	mockSvc := &mockMovieService{}

	svc := NewCachedMovieService(mockSvc, mockCache, CachedMovieServiceConfig{CacheTTL: 10 * time.Second})

	if _, err := svc.ListMovies(context.Background()); err != nil {
		t.Fatalf("ListMovies failed: %v", err)
	}
	if gotTTL != 10*time.Second {
		t.Errorf("TTL = %v, want 10s", gotTTL)
	}
}

func TestCachedMovieService_SearchMovies_BypassesCache(t *testing.T) {
	movie := sampleMovie()

	mockSvc := &mockMovieService{
		searchFn: func(ctx context.Context, query string) ([]*model.Movie, error) {
			return []*model.Movie{movie}, nil
		},
	}
	mockCache := &mockCatalogCache{
		getFn: func(ctx context.Context) ([]*model.Movie, error) {
			t.Error("search must never read the cache")
			return nil, nil
		},
		setFn: func(ctx context.Context, movies []*model.Movie, ttl time.Duration) error {
			t.Error("search results must never be cached")
			return nil
		},
	}

	svc := NewCachedMovieService(mockSvc, mockCache, DefaultCachedMovieServiceConfig())

	got, err := svc.SearchMovies(context.Background(), "sci")
	if err != nil {
		t.Fatalf("SearchMovies failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != movie.ID {
		t.Errorf("SearchMovies = %v, want [%v]", got, movie.ID)
	}
}

func TestCachedMovieService_CreateMovie_InvalidatesBeforeInsert(t *testing.T) {
	created := sampleMovie()

	var order []string
	var mu sync.Mutex
	record := func(step string) {
		mu.Lock()
		order = append(order, step)
		mu.Unlock()
	}

	mockSvc := &mockMovieService{
		createFn: func(ctx context.Context, fields model.MovieFields) (*model.Movie, error) {
			record("insert")
			return created, nil
		},
	}
	mockCache := &mockCatalogCache{
		invalidateFn: func(ctx context.Context) error {
			record("invalidate")
			return nil
		},
	}

	svc := NewCachedMovieService(mockSvc, mockCache, DefaultCachedMovieServiceConfig())

	got, err := svc.CreateMovie(context.Background(), model.MovieFields{Title: created.Title})
	if err != nil {
		t.Fatalf("CreateMovie failed: %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("ID = %v, want %v", got.ID, created.ID)
	}

	if len(order) != 2 || order[0] != "invalidate" || order[1] != "insert" {
		t.Errorf("call order = %v, want [invalidate insert]", order)
	}
}

func TestCachedMovieService_CreateMovie_FailedInsertLeavesCacheEmpty(t *testing.T) {
	mockSvc := &mockMovieService{
		createFn: func(ctx context.Context, fields model.MovieFields) (*model.Movie, error) {
			return nil, errors.New("insert failed")
		},
	}
	mockCache := newMockCatalogCache()
	mockCache.seed([]*model.Movie{sampleMovie()})

	svc := NewCachedMovieService(mockSvc, mockCache, DefaultCachedMovieServiceConfig())

	if _, err := svc.CreateMovie(context.Background(), model.MovieFields{Title: "X"}); err == nil {
		t.Fatal("expected insert error, got nil")
	}

	// Invalidate ran before the failed insert; an empty cache is the
	// safe state and the next list reads fresh from the store.
	if mockCache.cached() {
		t.Error("cache should be empty after invalidate-then-failed-insert")
	}
}

func TestCachedMovieService_UpdateMovie_InvalidatesAfterSuccess(t *testing.T) {
	updated := sampleMovie()

	mockSvc := &mockMovieService{
		updateFn: func(ctx context.Context, id uuid.UUID, update model.MovieUpdate) (*model.Movie, error) {
			return updated, nil
		},
	}
	mockCache := newMockCatalogCache()
	mockCache.seed([]*model.Movie{sampleMovie()})

	svc := NewCachedMovieService(mockSvc, mockCache, DefaultCachedMovieServiceConfig())

	title := "Renamed"
	got, err := svc.UpdateMovie(context.Background(), updated.ID, model.MovieUpdate{Title: &title})
	if err != nil {
		t.Fatalf("UpdateMovie failed: %v", err)
	}
	if got.ID != updated.ID {
		t.Errorf("ID = %v, want %v", got.ID, updated.ID)
	}

	if mockCache.cached() {
		t.Error("cache was not invalidated after a successful update")
	}
}

func TestCachedMovieService_UpdateMovie_NotFoundKeepsCache(t *testing.T) {
	mockSvc := &mockMovieService{
		updateFn: func(ctx context.Context, id uuid.UUID, update model.MovieUpdate) (*model.Movie, error) {
			return nil, repository.ErrMovieNotFound
		},
	}
	mockCache := newMockCatalogCache()
	mockCache.seed([]*model.Movie{sampleMovie()})

	svc := NewCachedMovieService(mockSvc, mockCache, DefaultCachedMovieServiceConfig())

	title := "X"
	_, err := svc.UpdateMovie(context.Background(), uuid.New(), model.MovieUpdate{Title: &title})
	if !errors.Is(err, repository.ErrMovieNotFound) {
		t.Fatalf("error = %v, want ErrMovieNotFound", err)
	}

	// No state changed, so the snapshot stays valid.
	if !mockCache.cached() {
		t.Error("cache must not be invalidated when the update target does not exist")
	}
}

func TestCachedMovieService_RemoveMovie_InvalidatesAfterSuccess(t *testing.T) {
	removed := sampleMovie()

	mockSvc := &mockMovieService{
		removeFn: func(ctx context.Context, id uuid.UUID) (*model.Movie, error) {
			return removed, nil
		},
	}
	mockCache := newMockCatalogCache()
	mockCache.seed([]*model.Movie{removed})

	svc := NewCachedMovieService(mockSvc, mockCache, DefaultCachedMovieServiceConfig())

	got, err := svc.RemoveMovie(context.Background(), removed.ID)
	if err != nil {
		t.Fatalf("RemoveMovie failed: %v", err)
	}
	if got.ID != removed.ID {
		t.Errorf("ID = %v, want %v", got.ID, removed.ID)
	}

	if mockCache.cached() {
		t.Error("cache was not invalidated after a successful remove")
	}
}

func TestCachedMovieService_RemoveMovie_NotFoundKeepsCache(t *testing.T) {
	mockSvc := &mockMovieService{
		removeFn: func(ctx context.Context, id uuid.UUID) (*model.Movie, error) {
			return nil, repository.ErrMovieNotFound
		},
	}
	mockCache := newMockCatalogCache()
	mockCache.seed([]*model.Movie{sampleMovie()})

	svc := NewCachedMovieService(mockSvc, mockCache, DefaultCachedMovieServiceConfig())

	_, err := svc.RemoveMovie(context.Background(), uuid.New())
	if !errors.Is(err, repository.ErrMovieNotFound) {
		t.Fatalf("error = %v, want ErrMovieNotFound", err)
	}

	if !mockCache.cached() {
		t.Error("cache must not be invalidated when the remove target does not exist")
	}
}

func TestCachedMovieService_InvalidationFailureDoesNotMaskWrite(t *testing.T) {
	removed := sampleMovie()

	mockSvc := &mockMovieService{
		removeFn: func(ctx context.Context, id uuid.UUID) (*model.Movie, error) {
			return removed, nil
		},
	}
	mockCache := &mockCatalogCache{
		invalidateFn: func(ctx context.Context) error {
			return errors.New("redis connection error")
		},
	}

	svc := NewCachedMovieService(mockSvc, mockCache, DefaultCachedMovieServiceConfig())

	got, err := svc.RemoveMovie(context.Background(), removed.ID)
	if err != nil {
		t.Fatalf("RemoveMovie should not fail on invalidation error: %v", err)
	}
	if got.ID != removed.ID {
		t.Errorf("ID = %v, want %v", got.ID, removed.ID)
	}
}

func TestCachedMovieService_ListMovies_Singleflight(t *testing.T) {
	storeMovies := []*model.Movie{sampleMovie()}

	// Add delay to simulate a slow store query
	mockSvc := &mockMovieService{
		listFn: func(ctx context.Context) ([]*model.Movie, error) {
			time.Sleep(50 * time.Millisecond)
			return storeMovies, nil
		},
	}
	mockCache := newMockCatalogCache()

	svc := NewCachedMovieService(mockSvc, mockCache, DefaultCachedMovieServiceConfig())

	// Launch multiple concurrent requests
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.ListMovies(context.Background()); err != nil {
				t.Errorf("ListMovies failed: %v", err)
			}
		}()
	}

	wg.Wait()

	// Singleflight should coalesce the misses into one store read
	callCount := mockSvc.listCount.Load()
	if callCount != 1 {
		t.Errorf("delegate ListMovies called %d times, want 1 (singleflight should coalesce)", callCount)
	}
}
