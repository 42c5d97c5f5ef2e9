package models

import "errors"

// Expected operation outcomes. Handlers map these to HTTP statuses; anything
// not in this list is treated as an internal failure.
var (
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("already exists")
	ErrValidation      = errors.New("validation error")
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrMissingActor refuses any attributed mutation (album deletion) that
	// arrives without an acting user.
	ErrMissingActor = errors.New("missing acting user")

	// ErrAlreadySelected is returned when a daily album already exists for the
	// requested date. Selection is one-shot per day.
	ErrAlreadySelected = errors.New("album of the day already selected")

	// ErrNoEligibleAlbum is returned when every album in the pool has already
	// been featured inside the lookback window.
	ErrNoEligibleAlbum = errors.New("no eligible album for selection")
)
