package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/ferbdev/ferbflix/internal/domain/model"
	"github.com/ferbdev/ferbflix/internal/infrastructure/metrics"
)

// filmListKey is the Redis key under which the unfiltered listing lives.
// Filtered queries are never cached, so a single key suffices and
// invalidation after a mutation is one DEL.
const filmListKey = "films:all"

// filmJSON is the JSON representation of a Film for caching.
// Using an explicit struct avoids coupling to the domain model's fields.
type filmJSON struct {
	ID             string `json:"id"`
	VietnameseName string `json:"vietnameseName"`
	EnglishName    string `json:"englishName"`
	EpisodeCount   int    `json:"episodeCount"`
	ImageURL       string `json:"imageUrl"`
	FilmURL        string `json:"filmUrl"`
	Status         string `json:"status"`
	CreatedAt      string `json:"createdAt"`
	UpdatedAt      string `json:"updatedAt"`
}

// RedisFilmListCache implements FilmListCache using Redis as the backing store.
type RedisFilmListCache struct {
	client *redis.Client
}

// NewRedisFilmListCache creates a new Redis-backed film list cache.
func NewRedisFilmListCache(client *redis.Client) *RedisFilmListCache {
	return &RedisFilmListCache{
		client: client,
	}
}

// GetList retrieves the cached film listing.
// Returns nil, nil on cache miss.
func (c *RedisFilmListCache) GetList(ctx context.Context) ([]*model.Film, error) {
	data, err := c.client.Get(ctx, filmListKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpGet, metrics.CacheStatusMiss).Inc()
			return nil, nil
		}
		metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpGet, metrics.CacheStatusError).Inc()
		return nil, fmt.Errorf("redis get: %w", err)
	}

	films, err := deserializeList(data)
	if err != nil {
		metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpGet, metrics.CacheStatusError).Inc()
		return nil, fmt.Errorf("deserialize film list: %w", err)
	}

	metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpGet, metrics.CacheStatusHit).Inc()
	return films, nil
}

// SetList stores the film listing with the specified TTL.
func (c *RedisFilmListCache) SetList(ctx context.Context, films []*model.Film, ttl time.Duration) error {
	data, err := serializeList(films)
	if err != nil {
		return fmt.Errorf("serialize film list: %w", err)
	}

	if err := c.client.Set(ctx, filmListKey, data, ttl).Err(); err != nil {
		metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpSet, metrics.CacheStatusError).Inc()
		return fmt.Errorf("redis set: %w", err)
	}

	metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpSet, metrics.CacheStatusSuccess).Inc()
	return nil
}

// InvalidateList removes the cached film listing.
func (c *RedisFilmListCache) InvalidateList(ctx context.Context) error {
	if err := c.client.Del(ctx, filmListKey).Err(); err != nil {
		metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpDelete, metrics.CacheStatusError).Inc()
		return fmt.Errorf("redis del: %w", err)
	}

	metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpDelete, metrics.CacheStatusSuccess).Inc()
	return nil
}

func serializeList(films []*model.Film) ([]byte, error) {
	out := make([]filmJSON, 0, len(films))
	for _, f := range films {
		out = append(out, filmJSON{
			ID:             f.ID.String(),
			VietnameseName: f.VietnameseName,
			EnglishName:    f.EnglishName,
			EpisodeCount:   f.EpisodeCount,
			ImageURL:       f.ImageURL,
			FilmURL:        f.FilmURL,
			Status:         string(f.Status),
			CreatedAt:      f.CreatedAt.Format(time.RFC3339Nano),
			UpdatedAt:      f.UpdatedAt.Format(time.RFC3339Nano),
		})
	}
	return json.Marshal(out)
}

func deserializeList(data []byte) ([]*model.Film, error) {
	var raw []filmJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	films := make([]*model.Film, 0, len(raw))
	for _, v := range raw {
		id, err := uuid.Parse(v.ID)
		if err != nil {
			return nil, fmt.Errorf("parse film ID: %w", err)
		}
		createdAt, err := time.Parse(time.RFC3339Nano, v.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("parse createdAt: %w", err)
		}
		updatedAt, err := time.Parse(time.RFC3339Nano, v.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("parse updatedAt: %w", err)
		}

		films = append(films, &model.Film{
			ID:             id,
			VietnameseName: v.VietnameseName,
			EnglishName:    v.EnglishName,
			EpisodeCount:   v.EpisodeCount,
			ImageURL:       v.ImageURL,
			FilmURL:        v.FilmURL,
			Status:         model.Status(v.Status),
			CreatedAt:      createdAt,
			UpdatedAt:      updatedAt,
		})
	}
	return films, nil
}

// Compile-time verification that RedisFilmListCache implements FilmListCache.
var _ FilmListCache = (*RedisFilmListCache)(nil)
