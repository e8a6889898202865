// Package scoring implements the points policy shared by every game mode.
// All functions are pure; a Service only carries the parameters.
package scoring

import "github.com/scrynotes/memorygame/internal/domain"

// Answer describes a single judged answer as seen by the scoring policy.
type Answer struct {
	Difficulty domain.Difficulty
	// PriorStreak is the session streak before this answer is applied.
	PriorStreak int
	Mode        domain.GameMode
	Correct     bool
	// SecondsRemaining is read from the countdown at submission; only used in speed rounds.
	SecondsRemaining float64
}

// Service defines the interface for scoring operations
type Service interface {
	// Points returns the points awarded for a single-player answer.
	Points(a Answer) int

	// FriendPoints returns the points awarded for a friend-mode judgment.
	FriendPoints(correct bool) int
}

// defaultService is the standard implementation of the Service interface
type defaultService struct {
	params *Params
}

// NewDefaultService creates a new scoring service with default parameters
func NewDefaultService() Service {
	return &defaultService{
		params: NewDefaultParams(),
	}
}

// NewServiceWithParams creates a new scoring service with custom parameters
func NewServiceWithParams(params *Params) Service {
	if params == nil {
		params = NewDefaultParams()
	}
	return &defaultService{
		params: params,
	}
}

// Points implements the Service interface
func (s *defaultService) Points(a Answer) int {
	return calculatePoints(a, s.params)
}

// FriendPoints implements the Service interface
func (s *defaultService) FriendPoints(correct bool) int {
	return friendPoints(correct, s.params)
}

// Points scores an answer with the default parameters.
func Points(a Answer) int {
	return calculatePoints(a, NewDefaultParams())
}
