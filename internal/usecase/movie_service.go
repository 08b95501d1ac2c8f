package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/movielobby/catalog/internal/domain/model"
	"github.com/movielobby/catalog/internal/domain/repository"
	"github.com/movielobby/catalog/internal/infrastructure/metrics"
)

// MovieService defines the interface for movie catalog business logic.
type MovieService interface {
	// ListMovies retrieves the full catalog.
	ListMovies(ctx context.Context) ([]*model.Movie, error)

	// SearchMovies retrieves movies whose title or genre contains the
	// query as a case-insensitive substring.
	SearchMovies(ctx context.Context, query string) ([]*model.Movie, error)

	// CreateMovie adds a movie to the catalog and returns the stored
	// record including its assigned ID.
	CreateMovie(ctx context.Context, fields model.MovieFields) (*model.Movie, error)

	// UpdateMovie applies a partial update to a movie.
	// Returns repository.ErrMovieNotFound if the ID is unknown.
	UpdateMovie(ctx context.Context, id uuid.UUID, update model.MovieUpdate) (*model.Movie, error)

	// RemoveMovie deletes a movie permanently and returns its last state.
	// Returns repository.ErrMovieNotFound if the ID is unknown.
	RemoveMovie(ctx context.Context, id uuid.UUID) (*model.Movie, error)
}

type movieService struct {
	repo   repository.MovieRepository
	events repository.EventPublisher
}

// NewMovieService creates a new MovieService instance.
func NewMovieService(repo repository.MovieRepository, events repository.EventPublisher) MovieService {
	return &movieService{
		repo:   repo,
		events: events,
	}
}

// ListMovies retrieves the full catalog from the store.
func (s *movieService) ListMovies(ctx context.Context) ([]*model.Movie, error) {
	movies, err := s.repo.List(ctx)
	if err != nil {
		metrics.CatalogOperationsTotal.WithLabelValues(metrics.CatalogOpList, metrics.CatalogStatusError).Inc()
		return nil, fmt.Errorf("list movies: %w", err)
	}

	metrics.CatalogOperationsTotal.WithLabelValues(metrics.CatalogOpList, metrics.CatalogStatusSuccess).Inc()
	return movies, nil
}

// SearchMovies queries the store directly.
func (s *movieService) SearchMovies(ctx context.Context, query string) ([]*model.Movie, error) {
	movies, err := s.repo.Search(ctx, query)
	if err != nil {
		metrics.CatalogOperationsTotal.WithLabelValues(metrics.CatalogOpSearch, metrics.CatalogStatusError).Inc()
		return nil, fmt.Errorf("search movies: %w", err)
	}

	metrics.CatalogOperationsTotal.WithLabelValues(metrics.CatalogOpSearch, metrics.CatalogStatusSuccess).Inc()
	return movies, nil
}

// CreateMovie persists a new movie. The store assigns the ID.
func (s *movieService) CreateMovie(ctx context.Context, fields model.MovieFields) (*model.Movie, error) {
	movie, err := s.repo.Insert(ctx, fields)
	if err != nil {
		metrics.CatalogOperationsTotal.WithLabelValues(metrics.CatalogOpCreate, metrics.CatalogStatusError).Inc()
		return nil, fmt.Errorf("create movie: %w", err)
	}

	metrics.CatalogOperationsTotal.WithLabelValues(metrics.CatalogOpCreate, metrics.CatalogStatusSuccess).Inc()
	s.publishEvent(ctx, repository.EventMovieCreated, movie.ID)

	return movie, nil
}

// UpdateMovie applies a partial update. NotFound propagates untouched so
// callers can distinguish it from store failures.
func (s *movieService) UpdateMovie(ctx context.Context, id uuid.UUID, update model.MovieUpdate) (*model.Movie, error) {
	movie, err := s.repo.UpdateByID(ctx, id, update)
	if err != nil {
		metrics.CatalogOperationsTotal.WithLabelValues(metrics.CatalogOpUpdate, updateStatus(err)).Inc()
		return nil, err
	}

	metrics.CatalogOperationsTotal.WithLabelValues(metrics.CatalogOpUpdate, metrics.CatalogStatusSuccess).Inc()
	s.publishEvent(ctx, repository.EventMovieUpdated, movie.ID)

	return movie, nil
}

// RemoveMovie deletes a movie and returns its last known state.
func (s *movieService) RemoveMovie(ctx context.Context, id uuid.UUID) (*model.Movie, error) {
	movie, err := s.repo.DeleteByID(ctx, id)
	if err != nil {
		metrics.CatalogOperationsTotal.WithLabelValues(metrics.CatalogOpRemove, updateStatus(err)).Inc()
		return nil, err
	}

	metrics.CatalogOperationsTotal.WithLabelValues(metrics.CatalogOpRemove, metrics.CatalogStatusSuccess).Inc()
	s.publishEvent(ctx, repository.EventMovieRemoved, movie.ID)

	return movie, nil
}

// updateStatus maps a write error to its metric label.
func updateStatus(err error) string {
	if errors.Is(err, repository.ErrMovieNotFound) {
		return metrics.CatalogStatusNotFound
	}
	return metrics.CatalogStatusError
}

// publishEvent announces a committed change. The store is the source of
// truth, so a publish failure is logged and never fails the write.
func (s *movieService) publishEvent(ctx context.Context, eventType repository.EventType, movieID uuid.UUID) {
	event := repository.CatalogEvent{
		Type:       eventType,
		MovieID:    movieID,
		OccurredAt: time.Now().UTC(),
	}

	if err := s.events.PublishCatalogEvent(ctx, event); err != nil {
		slog.Warn("failed to publish catalog event",
			"type", eventType,
			"movie_id", movieID,
			"error", err,
		)
	}
}
