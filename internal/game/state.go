package game

import (
	"github.com/google/uuid"
	"github.com/scrynotes/memorygame/internal/domain"
)

// Phase is the position of a session in its per-card cycle.
type Phase string

// Session phases
const (
	PhaseAwaitingAnswer Phase = "awaiting_answer"
	PhaseRevealed       Phase = "revealed"
	PhaseComplete       Phase = "complete"
)

// CardView is the player-facing view of the current card. Answer is only
// filled in once the card is revealed, or in flashcard mode where the player
// flips the card themselves.
type CardView struct {
	ID         uuid.UUID         `json:"id"`
	Question   string            `json:"question"`
	Answer     string            `json:"answer,omitempty"`
	Hint       string            `json:"hint,omitempty"`
	Category   string            `json:"category,omitempty"`
	Difficulty domain.Difficulty `json:"difficulty"`
}

// State is an immutable snapshot of a session.
type State struct {
	SessionID uuid.UUID       `json:"session_id"`
	DeckID    uuid.UUID       `json:"deck_id"`
	DeckTitle string          `json:"deck_title"`
	Mode      domain.GameMode `json:"mode"`
	Phase     Phase           `json:"phase"`

	CurrentIndex int       `json:"current_index"`
	TotalCards   int       `json:"total_cards"`
	Card         *CardView `json:"card,omitempty"`

	Options        []string `json:"options,omitempty"`
	OptionsReady   bool     `json:"options_ready"`
	SelectedAnswer string   `json:"selected_answer,omitempty"`

	LastAnswerCorrect bool `json:"last_answer_correct"`
	LastPoints        int  `json:"last_points"`

	Score            int `json:"score"`
	CorrectAnswers   int `json:"correct_answers"`
	IncorrectAnswers int `json:"incorrect_answers"`
	Streak           int `json:"streak"`
	MaxStreak        int `json:"max_streak"`

	// TimeRemainingMs is the speed-round countdown; zero in other modes.
	TimeRemainingMs int64 `json:"time_remaining_ms"`

	IsComplete bool               `json:"is_complete"`
	Closed     bool               `json:"closed"`
	Result     *domain.GameResult `json:"result,omitempty"`

	// Version increases with every change and orders snapshots delivered to observers.
	Version uint64 `json:"version"`
}
