package repository

import "errors"

var (
	// ErrFilmNotFound is returned when a film cannot be found.
	ErrFilmNotFound = errors.New("film not found")

	// ErrDuplicateFilm is returned when attempting to create a film that already exists.
	ErrDuplicateFilm = errors.New("film already exists")
)
