package domain

import "fmt"

// GameMode identifies how a game is played.
type GameMode string

// Supported game modes
const (
	GameModeFlashcard  GameMode = "flashcard"
	GameModeQuiz       GameMode = "quiz"
	GameModeSpeedRound GameMode = "speed_round"
	GameModeFriend     GameMode = "friend"
)

// IsValid reports whether m is a known game mode.
func (m GameMode) IsValid() bool {
	switch m {
	case GameModeFlashcard, GameModeQuiz, GameModeSpeedRound, GameModeFriend:
		return true
	default:
		return false
	}
}

// UsesDeck reports whether the mode draws its questions from a deck.
func (m GameMode) UsesDeck() bool {
	return m == GameModeFlashcard || m == GameModeQuiz || m == GameModeSpeedRound
}

// HasOptions reports whether the mode presents multiple-choice options.
func (m GameMode) HasOptions() bool {
	return m == GameModeQuiz || m == GameModeSpeedRound
}

// ParseGameMode converts a string into a GameMode.
func ParseGameMode(s string) (GameMode, error) {
	m := GameMode(s)
	if !m.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidGameMode, s)
	}
	return m, nil
}
