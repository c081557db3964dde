package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/ferbdev/ferbflix/internal/domain/model"
	"github.com/ferbdev/ferbflix/internal/infrastructure/cache"
	"github.com/ferbdev/ferbflix/internal/infrastructure/metrics"
)

// CachedFilmServiceConfig holds configuration for CachedFilmService.
type CachedFilmServiceConfig struct {
	// ListTTL is the TTL for the cached unfiltered listing.
	ListTTL time.Duration
}

// DefaultCachedFilmServiceConfig returns the default configuration.
func DefaultCachedFilmServiceConfig() CachedFilmServiceConfig {
	return CachedFilmServiceConfig{
		ListTTL: time.Minute,
	}
}

// cachedFilmService wraps FilmService with caching for the unfiltered
// listing, which is what the UI loads on every visit. Filtered queries go
// straight to the database; their key space is unbounded and invalidation
// would require tracking every combination.
type cachedFilmService struct {
	delegate FilmService
	cache    cache.FilmListCache
	sfGroup  singleflight.Group

	listTTL time.Duration
}

// NewCachedFilmService creates a new CachedFilmService wrapping the provided FilmService.
func NewCachedFilmService(
	delegate FilmService,
	listCache cache.FilmListCache,
	cfg CachedFilmServiceConfig,
) FilmService {
	return &cachedFilmService{
		delegate: delegate,
		cache:    listCache,
		listTTL:  cfg.ListTTL,
	}
}

// ListFilms serves the unfiltered listing cache-aside; anything with a
// filter is delegated directly. Singleflight coalesces concurrent
// unfiltered fetches so a cold cache triggers one database query.
func (s *cachedFilmService) ListFilms(ctx context.Context, input ListFilmsInput) ([]*model.Film, error) {
	if input.Search != "" || model.Status(input.Status).IsValid() {
		return s.delegate.ListFilms(ctx, input)
	}

	result, err, shared := s.sfGroup.Do("films:all", func() (any, error) {
		return s.listWithCache(ctx)
	})

	if shared {
		metrics.SingleflightRequestsTotal.WithLabelValues(metrics.SingleflightShared).Inc()
	} else {
		metrics.SingleflightRequestsTotal.WithLabelValues(metrics.SingleflightInitiated).Inc()
	}

	if err != nil {
		return nil, err
	}
	return result.([]*model.Film), nil
}

// listWithCache implements the cache-aside pattern for the full listing.
func (s *cachedFilmService) listWithCache(ctx context.Context) ([]*model.Film, error) {
	films, err := s.cache.GetList(ctx)
	if err != nil {
		slog.Warn("cache get failed, falling back to database",
			"error", err,
		)
	}
	if films != nil {
		return films, nil
	}

	films, err = s.delegate.ListFilms(ctx, ListFilmsInput{})
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetList(ctx, films, s.listTTL); err != nil {
		slog.Warn("failed to cache film list",
			"error", err,
		)
	}

	return films, nil
}

// CreateFilm delegates, then invalidates the cached listing.
func (s *cachedFilmService) CreateFilm(ctx context.Context, input model.CreateFilmInput) (*model.Film, error) {
	film, err := s.delegate.CreateFilm(ctx, input)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return film, nil
}

// UpdateFilm delegates, then invalidates the cached listing.
func (s *cachedFilmService) UpdateFilm(ctx context.Context, id uuid.UUID, patch model.UpdateFilmInput) (*model.Film, error) {
	film, err := s.delegate.UpdateFilm(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return film, nil
}

// DeleteFilm delegates, then invalidates the cached listing.
func (s *cachedFilmService) DeleteFilm(ctx context.Context, id uuid.UUID) error {
	if err := s.delegate.DeleteFilm(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// invalidate drops the cached listing. Failure is logged, not propagated:
// the mutation already succeeded and the entry expires on its own.
func (s *cachedFilmService) invalidate(ctx context.Context) {
	if err := s.cache.InvalidateList(ctx); err != nil {
		slog.Warn("failed to invalidate film list cache",
			"error", err,
		)
	}
}
