package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/ferbdev/ferbflix/internal/domain/model"
)

// ListFilter restricts a film listing. Zero values mean "no filter".
type ListFilter struct {
	// Search matches films whose Vietnamese or English name contains the
	// text, case-insensitively.
	Search string
	// Status, when set, must be a valid member of the closed status set.
	// Validation happens above this layer.
	Status model.Status
}

// FilmRepository defines the interface for film persistence operations.
// Implementations are provided by the infrastructure layer (PostgreSQL).
type FilmRepository interface {
	// Create persists a new film entity.
	// Returns ErrDuplicateFilm if a film with the same ID already exists.
	Create(ctx context.Context, film *model.Film) error

	// GetByID retrieves a film by its unique identifier.
	// Returns nil and ErrFilmNotFound if the film does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Film, error)

	// List retrieves films matching the filter, newest first.
	// Returns an empty slice when nothing matches.
	List(ctx context.Context, filter ListFilter) ([]*model.Film, error)

	// Update persists changes to an existing film entity.
	// Returns ErrFilmNotFound if the film does not exist.
	Update(ctx context.Context, film *model.Film) error

	// Delete permanently removes a film.
	// Returns ErrFilmNotFound if the film does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}
