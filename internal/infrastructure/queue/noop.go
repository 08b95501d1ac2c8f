package queue

import (
	"context"

	"github.com/movielobby/catalog/internal/domain/repository"
)

// NoopPublisher discards catalog events. Used when no broker is configured,
// so the catalog service works standalone.
type NoopPublisher struct{}

// NewNoopPublisher creates a publisher that drops every event.
func NewNoopPublisher() *NoopPublisher {
	return &NoopPublisher{}
}

func (*NoopPublisher) PublishCatalogEvent(context.Context, repository.CatalogEvent) error {
	return nil
}

func (*NoopPublisher) Close() error {
	return nil
}

var _ repository.EventPublisher = (*NoopPublisher)(nil)
