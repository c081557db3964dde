package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Status represents the watch/download state of a film.
type Status string

const (
	StatusCompleted    Status = "COMPLETED"
	StatusNotCompleted Status = "NOT_COMPLETED"
	StatusDownloaded   Status = "DOWNLOADED"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusCompleted, StatusNotCompleted, StatusDownloaded:
		return true
	default:
		return false
	}
}

func (s Status) String() string {
	return string(s)
}

// Film represents a catalog entry in the domain.
type Film struct {
	ID             uuid.UUID
	VietnameseName string
	EnglishName    string
	EpisodeCount   int
	ImageURL       string
	FilmURL        string
	Status         Status
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

var (
	ErrAllFieldsRequired = errors.New("all fields are required")
	ErrInvalidStatus     = errors.New("invalid status value")
)

// CreateFilmInput contains the fields required to create a film.
// Every field is mandatory; a zero value fails the same as an absent one.
type CreateFilmInput struct {
	VietnameseName string
	EnglishName    string
	EpisodeCount   int
	ImageURL       string
	FilmURL        string
	Status         Status
}

// NewFilm validates the input and returns a new Film with a fresh ID and
// CreatedAt == UpdatedAt.
func NewFilm(input CreateFilmInput) (*Film, error) {
	if !supplied(input.VietnameseName) ||
		!supplied(input.EnglishName) ||
		input.EpisodeCount < 1 ||
		!supplied(input.ImageURL) ||
		!supplied(input.FilmURL) ||
		!supplied(string(input.Status)) {
		return nil, ErrAllFieldsRequired
	}
	if !input.Status.IsValid() {
		return nil, ErrInvalidStatus
	}

	now := time.Now()
	return &Film{
		ID:             uuid.New(),
		VietnameseName: input.VietnameseName,
		EnglishName:    input.EnglishName,
		EpisodeCount:   input.EpisodeCount,
		ImageURL:       input.ImageURL,
		FilmURL:        input.FilmURL,
		Status:         input.Status,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// UpdateFilmInput is a partial update. A zero-valued field means "leave
// unchanged" — there is no way to set EpisodeCount to 0 or clear a text
// field through a patch. That mirrors the upstream API contract and is
// kept intentionally; see supplied.
type UpdateFilmInput struct {
	VietnameseName string
	EnglishName    string
	EpisodeCount   int
	ImageURL       string
	FilmURL        string
	Status         Status
}

// ApplyPatch applies the supplied fields of the patch to the film and
// refreshes UpdatedAt. A supplied Status outside the closed set is dropped
// silently rather than rejected.
func (f *Film) ApplyPatch(patch UpdateFilmInput) {
	if supplied(patch.VietnameseName) {
		f.VietnameseName = patch.VietnameseName
	}
	if supplied(patch.EnglishName) {
		f.EnglishName = patch.EnglishName
	}
	if patch.EpisodeCount > 0 {
		f.EpisodeCount = patch.EpisodeCount
	}
	if supplied(patch.ImageURL) {
		f.ImageURL = patch.ImageURL
	}
	if supplied(patch.FilmURL) {
		f.FilmURL = patch.FilmURL
	}
	if supplied(string(patch.Status)) && patch.Status.IsValid() {
		f.Status = patch.Status
	}
	f.UpdatedAt = time.Now()
}

// supplied is the single place where the "empty means leave unchanged"
// rule lives. Both create validation and patch application go through it.
func supplied(s string) bool {
	return s != ""
}
