package game

import "errors"

// Session errors. Each is returned without changing session state.
var (
	// ErrWrongMode is returned when an operation does not apply to the session's mode.
	ErrWrongMode = errors.New("operation not available in this game mode")

	// ErrSessionComplete is returned for any mutation after the last card.
	ErrSessionComplete = errors.New("game session is complete")

	// ErrAnswerRevealed is returned when the current card has already been answered.
	ErrAnswerRevealed = errors.New("answer already revealed")

	// ErrNotRevealed is returned by Next before the current card is answered.
	ErrNotRevealed = errors.New("current card has not been answered")

	// ErrSessionClosed is returned for any operation on a closed session.
	ErrSessionClosed = errors.New("game session is closed")

	// errStale marks a timer or generation callback for a card the session has left.
	errStale = errors.New("stale callback")
)
