package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Difficulty represents how hard a flashcard is. It determines the base
// number of points a correct answer is worth.
type Difficulty string

// Possible difficulty values
const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Points returns the base point value of the difficulty, or 0 for an unknown level.
func (d Difficulty) Points() int {
	switch d {
	case DifficultyEasy:
		return 10
	case DifficultyMedium:
		return 20
	case DifficultyHard:
		return 30
	default:
		return 0
	}
}

// IsValid reports whether d is one of the known difficulty levels.
func (d Difficulty) IsValid() bool {
	return d.Points() > 0
}

// ParseDifficulty converts a case-insensitive string into a Difficulty.
// An empty string yields DifficultyMedium.
func ParseDifficulty(s string) (Difficulty, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DifficultyMedium, nil
	}
	d := Difficulty(s)
	if !d.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidDifficulty, s)
	}
	return d, nil
}

// Card-specific validation errors
var (
	// ErrCardQuestionEmpty is returned when a card has a blank question.
	ErrCardQuestionEmpty = errors.New("card question cannot be empty")

	// ErrCardAnswerEmpty is returned when a card has a blank answer.
	ErrCardAnswerEmpty = errors.New("card answer cannot be empty")
)

// FlashCard is a single question/answer pair. Cards are treated as immutable
// values during a game; the review counters are maintained by the deck store.
type FlashCard struct {
	ID            uuid.UUID  `json:"id"`
	Question      string     `json:"question"`
	Answer        string     `json:"answer"`
	Hint          string     `json:"hint,omitempty"`
	Category      string     `json:"category,omitempty"`
	Difficulty    Difficulty `json:"difficulty"`
	TimesReviewed int        `json:"times_reviewed"`
	TimesCorrect  int        `json:"times_correct"`
}

// NewFlashCard creates a validated FlashCard with a fresh ID.
func NewFlashCard(question, answer string, difficulty Difficulty) (FlashCard, error) {
	card := FlashCard{
		ID:         uuid.New(),
		Question:   strings.TrimSpace(question),
		Answer:     strings.TrimSpace(answer),
		Difficulty: difficulty,
	}
	if err := card.Validate(); err != nil {
		return FlashCard{}, err
	}
	return card, nil
}

// Validate checks if the FlashCard has valid data.
func (c FlashCard) Validate() error {
	if strings.TrimSpace(c.Question) == "" {
		return ErrCardQuestionEmpty
	}
	if strings.TrimSpace(c.Answer) == "" {
		return ErrCardAnswerEmpty
	}
	if !c.Difficulty.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidDifficulty, c.Difficulty)
	}
	return nil
}

// Matches reports whether candidate is an acceptable answer for the card.
// Comparison ignores surrounding whitespace and letter case.
func (c FlashCard) Matches(candidate string) bool {
	return NormalizeAnswer(candidate) == NormalizeAnswer(c.Answer)
}

// NormalizeAnswer returns the canonical form used for answer comparison.
func NormalizeAnswer(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
