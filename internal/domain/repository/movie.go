package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/movielobby/catalog/internal/domain/model"
)

// MovieRepository defines the interface for movie persistence operations.
// Implementations should be provided by the infrastructure layer (e.g., PostgreSQL).
type MovieRepository interface {
	// List retrieves every movie in the catalog.
	// Returns an empty slice if the catalog is empty.
	List(ctx context.Context) ([]*model.Movie, error)

	// Search retrieves movies whose title or genre contains the query
	// as a case-insensitive substring. The matching semantics are part
	// of this contract; callers must not depend on any richer query
	// language of the backing store.
	Search(ctx context.Context, query string) ([]*model.Movie, error)

	// Insert persists a new movie. The repository assigns the ID and
	// timestamps and returns the stored record.
	Insert(ctx context.Context, fields model.MovieFields) (*model.Movie, error)

	// UpdateByID applies a partial update to an existing movie. Fields
	// that are nil in the update are left unchanged.
	// Returns ErrMovieNotFound if no movie has the given ID.
	UpdateByID(ctx context.Context, id uuid.UUID, update model.MovieUpdate) (*model.Movie, error)

	// DeleteByID removes a movie permanently and returns its last
	// stored state. Returns ErrMovieNotFound if no movie has the given ID.
	DeleteByID(ctx context.Context, id uuid.UUID) (*model.Movie, error)
}
