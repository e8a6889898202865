package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for GameResult
var (
	ErrEmptyResultUserID = errors.New("game result user ID cannot be empty")
	ErrResultDeckMissing = errors.New("game result for a deck mode must reference a deck")
	ErrNegativeResult    = errors.New("game result counters cannot be negative")
)

// CardOutcome records whether a single card was answered correctly during a game.
type CardOutcome struct {
	CardID  uuid.UUID `json:"card_id"`
	Correct bool      `json:"correct"`
}

// GameResult is the terminal summary a finished game hands to the result store.
// DeckID is uuid.Nil for friend-mode games, which are not played from a deck.
type GameResult struct {
	ID             uuid.UUID     `json:"id"`
	SessionID      uuid.UUID     `json:"session_id"`
	DeckID         uuid.UUID     `json:"deck_id"`
	UserID         uuid.UUID     `json:"user_id"`
	Mode           GameMode      `json:"mode"`
	Score          int           `json:"score"`
	CorrectAnswers int           `json:"correct_answers"`
	TotalCards     int           `json:"total_cards"`
	MaxStreak      int           `json:"max_streak"`
	TimeTakenMs    int64         `json:"time_taken_ms"`
	CardOutcomes   []CardOutcome `json:"card_outcomes,omitempty"`
	PlayedAt       time.Time     `json:"played_at"`
}

// Validate checks if the GameResult has valid data.
func (r *GameResult) Validate() error {
	if r.UserID == uuid.Nil {
		return ErrEmptyResultUserID
	}
	if !r.Mode.IsValid() {
		return ErrInvalidGameMode
	}
	if r.Mode.UsesDeck() && r.DeckID == uuid.Nil {
		return ErrResultDeckMissing
	}
	if r.Score < 0 || r.CorrectAnswers < 0 || r.TotalCards < 0 || r.MaxStreak < 0 || r.TimeTakenMs < 0 {
		return ErrNegativeResult
	}
	return nil
}
