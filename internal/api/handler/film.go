package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ferbdev/ferbflix/internal/domain/model"
	"github.com/ferbdev/ferbflix/internal/domain/repository"
	"github.com/ferbdev/ferbflix/internal/usecase"
)

// Fixed wire messages. Clients key off these strings, so they never carry
// internal error detail.
const (
	msgFetchFailed       = "Failed to fetch films"
	msgCreateFailed      = "Failed to create film"
	msgUpdateFailed      = "Failed to update film"
	msgDeleteFailed      = "Failed to delete film"
	msgAllFieldsRequired = "All fields are required"
	msgInvalidStatus     = "Invalid status value"
	msgInvalidBody       = "Invalid request body"
	msgFilmNotFound      = "Film not found"
	msgFilmDeleted       = "Film deleted successfully"
)

// Request/Response types

// episodeCount accepts both a JSON number and a numeric string, matching
// the coercion the form-driven clients rely on.
type episodeCount int

func (e *episodeCount) UnmarshalJSON(data []byte) error {
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		n = json.Number(s)
	}
	if n == "" {
		*e = 0
		return nil
	}
	v, err := n.Int64()
	if err != nil {
		return err
	}
	*e = episodeCount(v)
	return nil
}

type CreateFilmRequest struct {
	VietnameseName string       `json:"vietnameseName"`
	EnglishName    string       `json:"englishName"`
	EpisodeCount   episodeCount `json:"episodeCount"`
	ImageURL       string       `json:"imageUrl"`
	FilmURL        string       `json:"filmUrl"`
	Status         string       `json:"status"`
}

type UpdateFilmRequest struct {
	VietnameseName string       `json:"vietnameseName"`
	EnglishName    string       `json:"englishName"`
	EpisodeCount   episodeCount `json:"episodeCount"`
	ImageURL       string       `json:"imageUrl"`
	FilmURL        string       `json:"filmUrl"`
	Status         string       `json:"status"`
}

type FilmResponse struct {
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

// FilmHandler handles film-related HTTP requests.
type FilmHandler struct {
	svc    usecase.FilmService
	logger *slog.Logger
}

// NewFilmHandler creates a new FilmHandler.
func NewFilmHandler(svc usecase.FilmService, logger *slog.Logger) *FilmHandler {
	return &FilmHandler{svc: svc, logger: logger}
}

// List handles GET /films
func (h *FilmHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	films, err := h.svc.ListFilms(r.Context(), usecase.ListFilmsInput{
		Search: q.Get("search"),
		Status: q.Get("status"),
	})
	if err != nil {
		h.logger.Error("failed to fetch films", slog.Any("error", err))
		Error(w, http.StatusInternalServerError, msgFetchFailed)
		return
	}

	// Always an array on the wire, never null.
	resp := make([]FilmResponse, 0, len(films))
	for _, film := range films {
		resp = append(resp, toFilmResponse(film))
	}

	JSON(w, http.StatusOK, resp)
}

// Create handles POST /films
func (h *FilmHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateFilmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	film, err := h.svc.CreateFilm(r.Context(), model.CreateFilmInput{
		VietnameseName: req.VietnameseName,
		EnglishName:    req.EnglishName,
		EpisodeCount:   int(req.EpisodeCount),
		ImageURL:       req.ImageURL,
		FilmURL:        req.FilmURL,
		Status:         model.Status(req.Status),
	})
	if err != nil {
		switch {
		case errors.Is(err, model.ErrAllFieldsRequired):
			Error(w, http.StatusBadRequest, msgAllFieldsRequired)
		case errors.Is(err, model.ErrInvalidStatus):
			Error(w, http.StatusBadRequest, msgInvalidStatus)
		default:
			h.logger.Error("failed to create film", slog.Any("error", err))
			Error(w, http.StatusInternalServerError, msgCreateFailed)
		}
		return
	}

	JSON(w, http.StatusCreated, toFilmResponse(film))
}

// Update handles PATCH /films/{id}
func (h *FilmHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		// A malformed id cannot name any record.
		Error(w, http.StatusNotFound, msgFilmNotFound)
		return
	}

	var req UpdateFilmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	film, err := h.svc.UpdateFilm(r.Context(), id, model.UpdateFilmInput{
		VietnameseName: req.VietnameseName,
		EnglishName:    req.EnglishName,
		EpisodeCount:   int(req.EpisodeCount),
		ImageURL:       req.ImageURL,
		FilmURL:        req.FilmURL,
		Status:         model.Status(req.Status),
	})
	if err != nil {
		if errors.Is(err, repository.ErrFilmNotFound) {
			Error(w, http.StatusNotFound, msgFilmNotFound)
			return
		}
		h.logger.Error("failed to update film",
			slog.String("film_id", id.String()),
			slog.Any("error", err),
		)
		Error(w, http.StatusInternalServerError, msgUpdateFailed)
		return
	}

	JSON(w, http.StatusOK, toFilmResponse(film))
}

// Delete handles DELETE /films/{id}
func (h *FilmHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		Error(w, http.StatusNotFound, msgFilmNotFound)
		return
	}

	if err := h.svc.DeleteFilm(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrFilmNotFound) {
			Error(w, http.StatusNotFound, msgFilmNotFound)
			return
		}
		h.logger.Error("failed to delete film",
			slog.String("film_id", id.String()),
			slog.Any("error", err),
		)
		Error(w, http.StatusInternalServerError, msgDeleteFailed)
		return
	}

	JSON(w, http.StatusOK, MessageResponse{Message: msgFilmDeleted})
}

func toFilmResponse(f *model.Film) FilmResponse {
	return FilmResponse{
		ID:             f.ID.String(),
		VietnameseName: f.VietnameseName,
		EnglishName:    f.EnglishName,
		EpisodeCount:   f.EpisodeCount,
		ImageURL:       f.ImageURL,
		FilmURL:        f.FilmURL,
		Status:         f.Status.String(),
		CreatedAt:      f.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      f.UpdatedAt.Format(time.RFC3339),
	}
}
