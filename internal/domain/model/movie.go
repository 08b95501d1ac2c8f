package model

import (
	"errors"
	"net/url"
	"time"

	"github.com/google/uuid"
)

// Movie represents a catalog entry in the domain.
type Movie struct {
	ID            uuid.UUID
	Title         string
	Genre         string
	Rating        float64
	StreamingLink string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

var (
	ErrEmptyTitle       = errors.New("title cannot be empty")
	ErrEmptyGenre       = errors.New("genre cannot be empty")
	ErrInvalidStreaming = errors.New("streaming link is not a valid URL")
	ErrTitleTooLong     = errors.New("title exceeds maximum length of 255 characters")
)

const maxTitleLength = 255

// MovieFields carries the caller-supplied attributes of a movie.
// The ID is never part of it: identifiers are assigned by the store.
type MovieFields struct {
	Title         string
	Genre         string
	Rating        float64
	StreamingLink string
}

// Validate checks the fields against the catalog's invariants.
func (f MovieFields) Validate() error {
	if f.Title == "" {
		return ErrEmptyTitle
	}
	if len(f.Title) > maxTitleLength {
		return ErrTitleTooLong
	}
	if f.Genre == "" {
		return ErrEmptyGenre
	}
	if !validLink(f.StreamingLink) {
		return ErrInvalidStreaming
	}
	return nil
}

// MovieUpdate describes a partial update. Nil fields are left untouched;
// a field can never be cleared by omission.
type MovieUpdate struct {
	Title         *string
	Genre         *string
	Rating        *float64
	StreamingLink *string
}

// IsEmpty reports whether the update would change nothing.
func (u MovieUpdate) IsEmpty() bool {
	return u.Title == nil && u.Genre == nil && u.Rating == nil && u.StreamingLink == nil
}

// Validate checks only the fields that are present.
func (u MovieUpdate) Validate() error {
	if u.Title != nil {
		if *u.Title == "" {
			return ErrEmptyTitle
		}
		if len(*u.Title) > maxTitleLength {
			return ErrTitleTooLong
		}
	}
	if u.Genre != nil && *u.Genre == "" {
		return ErrEmptyGenre
	}
	if u.StreamingLink != nil && !validLink(*u.StreamingLink) {
		return ErrInvalidStreaming
	}
	return nil
}

func validLink(link string) bool {
	u, err := url.Parse(link)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}
