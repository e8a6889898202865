package friend

import (
	"errors"
	"fmt"
)

// Friend-mode errors
var (
	// ErrBlankQuestion is returned when the quiz master submits an empty question.
	ErrBlankQuestion = errors.New("question cannot be blank")

	// ErrBlankAnswer is returned when the player submits an empty answer.
	ErrBlankAnswer = errors.New("answer cannot be blank")

	// ErrInvalidTransition is returned when an operation is not allowed in the current phase.
	ErrInvalidTransition = errors.New("invalid friend-mode transition")
)

// TransitionError reports an operation attempted in the wrong phase.
type TransitionError struct {
	Operation string
	Phase     Phase
}

// Error implements the error interface for TransitionError.
func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s not allowed in phase %s", e.Operation, e.Phase)
}

// Unwrap lets callers match ErrInvalidTransition with errors.Is.
func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}
