package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/ferbdev/ferbflix/internal/domain/model"
	"github.com/ferbdev/ferbflix/internal/domain/repository"
)

// ListFilmsInput contains the optional filters for listing films.
// Status arrives as the raw query-string value; anything outside the
// closed status set means the filter is simply not applied.
type ListFilmsInput struct {
	Search string
	Status string
}

// FilmService defines the interface for film business logic operations.
type FilmService interface {
	// ListFilms returns films matching the filters, newest first.
	// An unrecognized status value is ignored, never an error.
	ListFilms(ctx context.Context, input ListFilmsInput) ([]*model.Film, error)

	// CreateFilm validates the input and persists a new film.
	CreateFilm(ctx context.Context, input model.CreateFilmInput) (*model.Film, error)

	// UpdateFilm applies the supplied fields of the patch to an existing
	// film and persists the result.
	UpdateFilm(ctx context.Context, id uuid.UUID, patch model.UpdateFilmInput) (*model.Film, error)

	// DeleteFilm permanently removes a film.
	DeleteFilm(ctx context.Context, id uuid.UUID) error
}

type filmService struct {
	repo repository.FilmRepository
}

// NewFilmService creates a new FilmService instance.
func NewFilmService(repo repository.FilmRepository) FilmService {
	return &filmService{repo: repo}
}

// ListFilms returns films matching the filters, ordered by recency.
func (s *filmService) ListFilms(ctx context.Context, input ListFilmsInput) ([]*model.Film, error) {
	filter := repository.ListFilter{
		Search: input.Search,
	}
	if status := model.Status(input.Status); status.IsValid() {
		filter.Status = status
	}

	films, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list films: %w", err)
	}
	return films, nil
}

// CreateFilm validates the input and persists a new film.
// Validation errors surface before any persistence call.
func (s *filmService) CreateFilm(ctx context.Context, input model.CreateFilmInput) (*model.Film, error) {
	film, err := model.NewFilm(input)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, film); err != nil {
		return nil, fmt.Errorf("create film: %w", err)
	}

	return film, nil
}

// UpdateFilm loads the film, applies the patch and persists the result.
func (s *filmService) UpdateFilm(ctx context.Context, id uuid.UUID, patch model.UpdateFilmInput) (*model.Film, error) {
	film, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	film.ApplyPatch(patch)

	if err := s.repo.Update(ctx, film); err != nil {
		return nil, fmt.Errorf("update film: %w", err)
	}

	return film, nil
}

// DeleteFilm permanently removes a film.
func (s *filmService) DeleteFilm(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	return nil
}
