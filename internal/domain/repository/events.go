package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EventType identifies the kind of catalog change.
type EventType string

const (
	EventMovieCreated EventType = "movie.created"
	EventMovieUpdated EventType = "movie.updated"
	EventMovieRemoved EventType = "movie.removed"
)

// CatalogEvent describes a committed change to the movie catalog.
// Downstream consumers (recommendation feeds, search indexers) receive
// it after the store write has succeeded.
type CatalogEvent struct {
	Type       EventType `json:"type"`
	MovieID    uuid.UUID `json:"movie_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// EventPublisher defines the interface for announcing catalog changes.
// Implementations should be provided by the infrastructure layer (e.g., RabbitMQ).
type EventPublisher interface {
	// PublishCatalogEvent sends a catalog change event to the queue.
	PublishCatalogEvent(ctx context.Context, event CatalogEvent) error

	// Close gracefully closes the connection to the message broker.
	Close() error
}
