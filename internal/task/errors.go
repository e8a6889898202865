package task

import (
	"errors"
	"fmt"
)

// Task construction errors
var (
	ErrNilResult = errors.New("game result cannot be nil")
	ErrNilSaver  = errors.New("result saver cannot be nil")
	ErrNilQueue  = errors.New("task queue cannot be nil")
)

// PersistenceError records a failed attempt to persist a finished game.
type PersistenceError struct {
	Operation string // The operation that failed (e.g., "save_result")
	SessionID string // The game session whose result was being saved
	Err       error  // Original error
}

// Error implements the error interface for PersistenceError.
func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s for session %s failed: %v", e.Operation, e.SessionID, e.Err)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *PersistenceError) Unwrap() error {
	return e.Err
}
