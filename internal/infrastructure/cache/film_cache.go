package cache

import (
	"context"
	"time"

	"github.com/ferbdev/ferbflix/internal/domain/model"
)

// FilmListCache defines the interface for caching the unfiltered film
// listing. Implementations handle serialization transparently.
type FilmListCache interface {
	// GetList retrieves the cached listing.
	// Returns nil, nil on cache miss.
	GetList(ctx context.Context) ([]*model.Film, error)

	// SetList stores the listing with the specified TTL.
	SetList(ctx context.Context, films []*model.Film, ttl time.Duration) error

	// InvalidateList removes the cached listing.
	// Returns nil if nothing was cached.
	InvalidateList(ctx context.Context) error
}
