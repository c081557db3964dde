package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ferbdev/ferbflix/internal/domain/model"
	"github.com/ferbdev/ferbflix/internal/domain/repository"
	"github.com/ferbdev/ferbflix/internal/infrastructure/metrics"
)

// DBTX is an interface that abstracts pgxpool.Pool and pgx.Tx for testability.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// FilmRepository implements repository.FilmRepository using PostgreSQL.
type FilmRepository struct {
	db DBTX
}

// NewFilmRepository creates a new FilmRepository instance.
func NewFilmRepository(db DBTX) *FilmRepository {
	return &FilmRepository{db: db}
}

const filmColumns = "id, vietnamese_name, english_name, episode_count, image_url, film_url, status, created_at, updated_at"

// Create persists a new film entity.
func (r *FilmRepository) Create(ctx context.Context, film *model.Film) error {
	const query = `
		INSERT INTO films (id, vietnamese_name, english_name, episode_count, image_url, film_url, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.Exec(ctx, query,
		film.ID,
		film.VietnameseName,
		film.EnglishName,
		film.EpisodeCount,
		film.ImageURL,
		film.FilmURL,
		film.Status.String(),
		film.CreatedAt,
		film.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return repository.ErrDuplicateFilm
		}
		return fmt.Errorf("failed to create film: %w", err)
	}

	metrics.DBQueriesTotal.WithLabelValues(metrics.DBQueryInsert, metrics.TableFilms).Inc()
	return nil
}

// GetByID retrieves a film by its unique identifier.
func (r *FilmRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Film, error) {
	const query = `
		SELECT ` + filmColumns + `
		FROM films
		WHERE id = $1
	`

	film, err := scanFilm(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrFilmNotFound
		}
		return nil, fmt.Errorf("failed to get film by ID: %w", err)
	}

	metrics.DBQueriesTotal.WithLabelValues(metrics.DBQuerySelect, metrics.TableFilms).Inc()
	return film, nil
}

// List retrieves films matching the filter, most recently created first.
// The search term matches either name case-insensitively as a substring
// (ILIKE, so "café" matches "Café Story" while "CAFE" does not — folding
// follows Postgres lower(), no diacritic normalization).
func (r *FilmRepository) List(ctx context.Context, filter repository.ListFilter) ([]*model.Film, error) {
	query := `
		SELECT ` + filmColumns + `
		FROM films
	`

	var (
		conds []string
		args  []any
	)
	if filter.Search != "" {
		args = append(args, "%"+escapeLike(filter.Search)+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(vietnamese_name ILIKE $%d OR english_name ILIKE $%d)", n, n))
	}
	if filter.Status != "" {
		args = append(args, filter.Status.String())
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query films: %w", err)
	}
	defer rows.Close()

	films := make([]*model.Film, 0)
	for rows.Next() {
		film, err := scanFilm(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan film: %w", err)
		}
		films = append(films, film)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating films: %w", err)
	}

	metrics.DBQueriesTotal.WithLabelValues(metrics.DBQuerySelect, metrics.TableFilms).Inc()
	return films, nil
}

// Update persists changes to an existing film entity.
func (r *FilmRepository) Update(ctx context.Context, film *model.Film) error {
	const query = `
		UPDATE films
		SET vietnamese_name = $2, english_name = $3, episode_count = $4, image_url = $5, film_url = $6, status = $7, updated_at = $8
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query,
		film.ID,
		film.VietnameseName,
		film.EnglishName,
		film.EpisodeCount,
		film.ImageURL,
		film.FilmURL,
		film.Status.String(),
		film.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update film: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return repository.ErrFilmNotFound
	}

	metrics.DBQueriesTotal.WithLabelValues(metrics.DBQueryUpdate, metrics.TableFilms).Inc()
	return nil
}

// Delete permanently removes a film.
func (r *FilmRepository) Delete(ctx context.Context, id uuid.UUID) error {
	const query = `
		DELETE FROM films
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete film: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return repository.ErrFilmNotFound
	}

	metrics.DBQueriesTotal.WithLabelValues(metrics.DBQueryDelete, metrics.TableFilms).Inc()
	return nil
}

// scanFilm scans a single row into a Film model.
func scanFilm(row pgx.Row) (*model.Film, error) {
	var (
		film   model.Film
		status string
	)

	err := row.Scan(
		&film.ID,
		&film.VietnameseName,
		&film.EnglishName,
		&film.EpisodeCount,
		&film.ImageURL,
		&film.FilmURL,
		&status,
		&film.CreatedAt,
		&film.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	film.Status = model.Status(status)
	return &film, nil
}

// escapeLike escapes LIKE metacharacters so user input matches literally.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}

// Compile-time verification that FilmRepository implements repository.FilmRepository.
var _ repository.FilmRepository = (*FilmRepository)(nil)
