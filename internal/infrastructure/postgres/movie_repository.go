package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/movielobby/catalog/internal/domain/model"
	"github.com/movielobby/catalog/internal/domain/repository"
)

// DBTX is an interface that abstracts pgxpool.Pool and pgx.Tx for testability.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// MovieRepository implements repository.MovieRepository using PostgreSQL.
type MovieRepository struct {
	db DBTX
}

// NewMovieRepository creates a new MovieRepository instance.
func NewMovieRepository(db DBTX) *MovieRepository {
	return &MovieRepository{db: db}
}

const movieColumns = "id, title, genre, rating, streaming_link, created_at, updated_at"

// List retrieves every movie in the catalog, newest first.
func (r *MovieRepository) List(ctx context.Context) ([]*model.Movie, error) {
	const query = `
		SELECT ` + movieColumns + `
		FROM movies
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query movies: %w", err)
	}
	defer rows.Close()

	return r.collectMovies(rows)
}

// Search retrieves movies whose title or genre contains the query as a
// case-insensitive substring. ILIKE keeps the matching semantics in SQL;
// the pattern is passed as a bind parameter, never interpolated.
func (r *MovieRepository) Search(ctx context.Context, query string) ([]*model.Movie, error) {
	const sql = `
		SELECT ` + movieColumns + `
		FROM movies
		WHERE title ILIKE '%' || $1 || '%' OR genre ILIKE '%' || $1 || '%'
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, sql, query)
	if err != nil {
		return nil, fmt.Errorf("failed to search movies: %w", err)
	}
	defer rows.Close()

	return r.collectMovies(rows)
}

// Insert persists a new movie, assigning its ID and timestamps.
func (r *MovieRepository) Insert(ctx context.Context, fields model.MovieFields) (*model.Movie, error) {
	const query = `
		INSERT INTO movies (id, title, genre, rating, streaming_link, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		RETURNING ` + movieColumns + `
	`

	movie, err := r.scanMovie(r.db.QueryRow(ctx, query,
		uuid.New(),
		fields.Title,
		fields.Genre,
		fields.Rating,
		fields.StreamingLink,
		time.Now(),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to insert movie: %w", err)
	}

	return movie, nil
}

// UpdateByID applies a partial update. COALESCE keeps columns whose
// parameters are NULL, so omitted fields are never cleared.
func (r *MovieRepository) UpdateByID(ctx context.Context, id uuid.UUID, update model.MovieUpdate) (*model.Movie, error) {
	const query = `
		UPDATE movies
		SET title          = COALESCE($2, title),
		    genre          = COALESCE($3, genre),
		    rating         = COALESCE($4, rating),
		    streaming_link = COALESCE($5, streaming_link),
		    updated_at     = $6
		WHERE id = $1
		RETURNING ` + movieColumns + `
	`

	movie, err := r.scanMovie(r.db.QueryRow(ctx, query,
		id,
		update.Title,
		update.Genre,
		update.Rating,
		update.StreamingLink,
		time.Now(),
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrMovieNotFound
		}
		return nil, fmt.Errorf("failed to update movie: %w", err)
	}

	return movie, nil
}

// DeleteByID removes a movie permanently and returns its last stored state.
func (r *MovieRepository) DeleteByID(ctx context.Context, id uuid.UUID) (*model.Movie, error) {
	const query = `
		DELETE FROM movies
		WHERE id = $1
		RETURNING ` + movieColumns + `
	`

	movie, err := r.scanMovie(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrMovieNotFound
		}
		return nil, fmt.Errorf("failed to delete movie: %w", err)
	}

	return movie, nil
}

// scanMovie scans a single row into a Movie model.
func (r *MovieRepository) scanMovie(row pgx.Row) (*model.Movie, error) {
	var movie model.Movie

	err := row.Scan(
		&movie.ID,
		&movie.Title,
		&movie.Genre,
		&movie.Rating,
		&movie.StreamingLink,
		&movie.CreatedAt,
		&movie.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &movie, nil
}

// collectMovies drains rows into a movie list.
func (r *MovieRepository) collectMovies(rows pgx.Rows) ([]*model.Movie, error) {
	movies := []*model.Movie{}
	for rows.Next() {
		movie, err := r.scanMovie(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan movie: %w", err)
		}
		movies = append(movies, movie)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating movies: %w", err)
	}

	return movies, nil
}

// Compile-time verification that MovieRepository implements repository.MovieRepository.
var _ repository.MovieRepository = (*MovieRepository)(nil)
