package domain

import "errors"

// Watch entry validation errors
var (
	ErrInvalidRating      = errors.New("rating must be between 0 and 10")
	ErrInvalidWatchedDate = errors.New("invalid watched date")
)

// Movie errors
var (
	ErrMovieNotFound = errors.New("movie not found")
)
