package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/scrynotes/memorygame/internal/domain"
)

// DeckStore defines the interface for deck persistence.
type DeckStore interface {
	// Create saves a deck and its cards. It must run inside a transaction
	// to keep the deck and its cards consistent; see RunInTransaction.
	Create(ctx context.Context, deck *domain.CardDeck) error

	// GetByID retrieves a deck with its cards in deck order.
	// Returns ErrDeckNotFound if the deck does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.CardDeck, error)

	// ListByUser returns the user's decks, newest first, with their cards.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.CardDeck, error)

	// RecordPlay increments the deck's times played, raises its best score
	// to score when higher, and bumps the review counters of every card in outcomes.
	// Returns ErrDeckNotFound if the deck does not exist.
	RecordPlay(ctx context.Context, deckID uuid.UUID, score int, outcomes []domain.CardOutcome) error

	// WithTx returns a DeckStore that runs its queries on tx.
	WithTx(tx *sql.Tx) DeckStore
}
