package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for CardDeck
var (
	ErrEmptyDeckID     = errors.New("deck ID cannot be empty")
	ErrEmptyDeckUserID = errors.New("deck user ID cannot be empty")
	ErrEmptyDeckTitle  = errors.New("deck title cannot be empty")
)

// CardDeck is a named, ordered collection of flashcards owned by a user.
// TimesPlayed and BestScore are maintained by the deck store when game
// results are saved.
type CardDeck struct {
	ID          uuid.UUID   `json:"id"`
	UserID      uuid.UUID   `json:"user_id"`
	Title       string      `json:"title"`
	Cards       []FlashCard `json:"cards"`
	TimesPlayed int         `json:"times_played"`
	BestScore   int         `json:"best_score"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// NewCardDeck creates a new CardDeck with the given owner, title and cards.
// It generates a new UUID for the deck and sets the creation/update timestamps.
// Returns an error if validation fails.
func NewCardDeck(userID uuid.UUID, title string, cards []FlashCard) (*CardDeck, error) {
	now := time.Now().UTC()
	deck := &CardDeck{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     strings.TrimSpace(title),
		Cards:     cards,
		CreatedAt: now,
		UpdatedAt: now,
	}

	for i := range deck.Cards {
		if deck.Cards[i].ID == uuid.Nil {
			deck.Cards[i].ID = uuid.New()
		}
	}

	if err := deck.Validate(); err != nil {
		return nil, err
	}

	return deck, nil
}

// Validate checks if the CardDeck has valid data.
// A deck needs at least one card to be playable.
func (d *CardDeck) Validate() error {
	if d.ID == uuid.Nil {
		return ErrEmptyDeckID
	}
	if d.UserID == uuid.Nil {
		return ErrEmptyDeckUserID
	}
	if d.Title == "" {
		return ErrEmptyDeckTitle
	}
	if len(d.Cards) == 0 {
		return ErrEmptyDeck
	}
	for i, card := range d.Cards {
		if err := card.Validate(); err != nil {
			return fmt.Errorf("card %d: %w", i, err)
		}
	}
	return nil
}

// Answers returns the answers of every card in deck order.
func (d *CardDeck) Answers() []string {
	answers := make([]string, 0, len(d.Cards))
	for _, card := range d.Cards {
		answers = append(answers, card.Answer)
	}
	return answers
}
