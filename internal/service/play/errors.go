package play

import "errors"

// Play service errors
var (
	// ErrGameNotFound is returned when no live game has the requested ID.
	ErrGameNotFound = errors.New("game not found")

	// ErrNotOwned is returned when a live game belongs to another user.
	ErrNotOwned = errors.New("game belongs to another user")
)
