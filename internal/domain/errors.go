package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrEmptyDeck is returned when a game is started with a deck that has no cards.
	ErrEmptyDeck = errors.New("deck has no cards")

	// ErrInvalidDifficulty is returned when a difficulty is not one of the known levels.
	ErrInvalidDifficulty = errors.New("invalid difficulty")

	// ErrInvalidGameMode is returned when a game mode is not recognized.
	ErrInvalidGameMode = errors.New("invalid game mode")

	// ErrUnauthorized is returned when an operation is not permitted.
	ErrUnauthorized = errors.New("unauthorized operation")
)
