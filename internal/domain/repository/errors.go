package repository

import "errors"

var (
	// ErrMovieNotFound is returned when a movie cannot be found.
	ErrMovieNotFound = errors.New("movie not found")
)
