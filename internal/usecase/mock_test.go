package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ferbdev/ferbflix/internal/domain/model"
	"github.com/ferbdev/ferbflix/internal/domain/repository"
)

// mockFilmRepository provides a configurable mock for FilmRepository.
type mockFilmRepository struct {
	createFn  func(ctx context.Context, film *model.Film) error
	getByIDFn func(ctx context.Context, id uuid.UUID) (*model.Film, error)
	listFn    func(ctx context.Context, filter repository.ListFilter) ([]*model.Film, error)
	updateFn  func(ctx context.Context, film *model.Film) error
	deleteFn  func(ctx context.Context, id uuid.UUID) error
}

func (m *mockFilmRepository) Create(ctx context.Context, film *model.Film) error {
	if m.createFn != nil {
		return m.createFn(ctx, film)
	}
	return nil
}

func (m *mockFilmRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Film, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockFilmRepository) List(ctx context.Context, filter repository.ListFilter) ([]*model.Film, error) {
	if m.listFn != nil {
		return m.listFn(ctx, filter)
	}
	return nil, nil
}

func (m *mockFilmRepository) Update(ctx context.Context, film *model.Film) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, film)
	}
	return nil
}

func (m *mockFilmRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

// testFilm builds a valid film for test fixtures.
func testFilm(name string, status model.Status, createdAt time.Time) *model.Film {
	return &model.Film{
		ID:             uuid.New(),
		VietnameseName: name,
		EnglishName:    name + " (EN)",
		EpisodeCount:   12,
		ImageURL:       "http://x/" + name + ".jpg",
		FilmURL:        "http://x/" + name,
		Status:         status,
		CreatedAt:      createdAt,
		UpdatedAt:      createdAt,
	}
}
