package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/movielobby/catalog/internal/domain/model"
	"github.com/redis/go-redis/v9"
)

const (
	// moviesCacheKey is the single key holding the serialized catalog snapshot.
	moviesCacheKey = "movies"
)

// movieJSON is the JSON representation of a Movie for caching.
// Using an explicit struct avoids coupling to the domain model's JSON tags.
type movieJSON struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	Genre         string  `json:"genre"`
	Rating        float64 `json:"rating"`
	StreamingLink string  `json:"streaming_link"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     string  `json:"updated_at"`
}

// RedisCatalogCache implements CatalogCache using Redis as the backing store.
type RedisCatalogCache struct {
	client *redis.Client
}

// NewRedisCatalogCache creates a new Redis-backed catalog cache.
func NewRedisCatalogCache(client *redis.Client) *RedisCatalogCache {
	return &RedisCatalogCache{
		client: client,
	}
}

// GetMovies retrieves the catalog snapshot from Redis.
// Returns nil, nil on cache miss.
func (c *RedisCatalogCache) GetMovies(ctx context.Context) ([]*model.Movie, error) {
	data, err := c.client.Get(ctx, moviesCacheKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // Cache miss
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}

	movies, err := c.deserialize(data)
	if err != nil {
		return nil, fmt.Errorf("deserialize movies: %w", err)
	}

	return movies, nil
}

// SetMovies stores the catalog snapshot in Redis with the specified TTL.
func (c *RedisCatalogCache) SetMovies(ctx context.Context, movies []*model.Movie, ttl time.Duration) error {
	data, err := c.serialize(movies)
	if err != nil {
		return fmt.Errorf("serialize movies: %w", err)
	}

	if err := c.client.Set(ctx, moviesCacheKey, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}

	return nil
}

// Invalidate drops the catalog snapshot from Redis.
func (c *RedisCatalogCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, moviesCacheKey).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}

	return nil
}

// serialize converts a movie list to JSON bytes.
func (c *RedisCatalogCache) serialize(movies []*model.Movie) ([]byte, error) {
	entries := make([]movieJSON, 0, len(movies))
	for _, m := range movies {
		entries = append(entries, movieJSON{
			ID:            m.ID.String(),
			Title:         m.Title,
			Genre:         m.Genre,
			Rating:        m.Rating,
			StreamingLink: m.StreamingLink,
			CreatedAt:     m.CreatedAt.Format(time.RFC3339Nano),
			UpdatedAt:     m.UpdatedAt.Format(time.RFC3339Nano),
		})
	}
	return json.Marshal(entries)
}

// deserialize converts JSON bytes to a movie list.
func (c *RedisCatalogCache) deserialize(data []byte) ([]*model.Movie, error) {
	var entries []movieJSON
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}

	movies := make([]*model.Movie, 0, len(entries))
	for _, e := range entries {
		id, err := uuid.Parse(e.ID)
		if err != nil {
			return nil, fmt.Errorf("parse movie ID: %w", err)
		}

		createdAt, err := time.Parse(time.RFC3339Nano, e.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("parse created_at: %w", err)
		}

		updatedAt, err := time.Parse(time.RFC3339Nano, e.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("parse updated_at: %w", err)
		}

		movies = append(movies, &model.Movie{
			ID:            id,
			Title:         e.Title,
			Genre:         e.Genre,
			Rating:        e.Rating,
			StreamingLink: e.StreamingLink,
			CreatedAt:     createdAt,
			UpdatedAt:     updatedAt,
		})
	}

	return movies, nil
}

// Compile-time verification that RedisCatalogCache implements CatalogCache.
var _ CatalogCache = (*RedisCatalogCache)(nil)
