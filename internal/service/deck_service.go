package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/scrynotes/memorygame/internal/domain"
	"github.com/scrynotes/memorygame/internal/generation"
	"github.com/scrynotes/memorygame/internal/platform/logger"
	"github.com/scrynotes/memorygame/internal/store"
)

// DeckService provides deck-related operations
type DeckService interface {
	// CreateDeck validates and stores a new deck owned by userID.
	CreateDeck(ctx context.Context, userID uuid.UUID, title string, cards []domain.FlashCard) (*domain.CardDeck, error)

	// CreateDeckFromText parses text into flashcards and stores them as a new deck.
	CreateDeckFromText(ctx context.Context, userID uuid.UUID, title, text string) (*domain.CardDeck, error)

	// ListDecks returns every deck owned by userID, newest first.
	ListDecks(ctx context.Context, userID uuid.UUID) ([]*domain.CardDeck, error)

	// GetDeck returns a deck owned by userID.
	GetDeck(ctx context.Context, userID, deckID uuid.UUID) (*domain.CardDeck, error)
}

// deckServiceImpl implements the DeckService interface
type deckServiceImpl struct {
	deckStore store.DeckStore
	parser    generation.ContentParser
	logger    *slog.Logger
}

// NewDeckService creates a new DeckService.
// parser may be nil, in which case CreateDeckFromText returns ErrParserUnavailable.
func NewDeckService(
	deckStore store.DeckStore,
	parser generation.ContentParser,
	logger *slog.Logger,
) (DeckService, error) {
	if deckStore == nil {
		return nil, fmt.Errorf("%w: deckStore cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &deckServiceImpl{
		deckStore: deckStore,
		parser:    parser,
		logger:    logger.With(slog.String("component", "deck_service")),
	}, nil
}

// CreateDeck implements DeckService.CreateDeck
func (s *deckServiceImpl) CreateDeck(
	ctx context.Context,
	userID uuid.UUID,
	title string,
	cards []domain.FlashCard,
) (*domain.CardDeck, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	deck, err := domain.NewCardDeck(userID, title, cards)
	if err != nil {
		log.Debug("rejected invalid deck", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	if err := s.deckStore.Create(ctx, deck); err != nil {
		log.Error("failed to create deck",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, NewServiceError("deck", "CreateDeck", "failed to save deck", err)
	}

	log.Info("deck created",
		slog.String("deck_id", deck.ID.String()),
		slog.Int("card_count", len(deck.Cards)))
	return deck, nil
}

// CreateDeckFromText implements DeckService.CreateDeckFromText
func (s *deckServiceImpl) CreateDeckFromText(
	ctx context.Context,
	userID uuid.UUID,
	title, text string,
) (*domain.CardDeck, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if s.parser == nil {
		return nil, ErrParserUnavailable
	}

	cards, err := s.parser.ParseContent(ctx, text)
	switch {
	case err == nil:
	case errors.Is(err, generation.ErrEmptyInput):
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	case errors.Is(err, generation.ErrGenerationFailed), errors.Is(err, generation.ErrNoCardsExtracted):
		log.Warn("content parsing produced no deck", slog.String("error", err.Error()))
		return nil, NewServiceError("deck", "CreateDeckFromText", "could not build cards from text", err)
	default:
		log.Warn("content parsing failed", slog.String("error", err.Error()))
		return nil, NewServiceError("deck", "CreateDeckFromText", "could not build cards from text",
			fmt.Errorf("%w: %w", generation.ErrGenerationFailed, err))
	}

	return s.CreateDeck(ctx, userID, title, cards)
}

// ListDecks implements DeckService.ListDecks
func (s *deckServiceImpl) ListDecks(ctx context.Context, userID uuid.UUID) ([]*domain.CardDeck, error) {
	decks, err := s.deckStore.ListByUser(ctx, userID)
	if err != nil {
		return nil, NewServiceError("deck", "ListDecks", "failed to list decks", err)
	}
	return decks, nil
}

// GetDeck implements DeckService.GetDeck
func (s *deckServiceImpl) GetDeck(ctx context.Context, userID, deckID uuid.UUID) (*domain.CardDeck, error) {
	deck, err := s.deckStore.GetByID(ctx, deckID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, err
		}
		return nil, NewServiceError("deck", "GetDeck", "failed to load deck", err)
	}

	if deck.UserID != userID {
		logger.FromContextOrDefault(ctx, s.logger).Warn("deck access denied",
			slog.String("deck_id", deckID.String()),
			slog.String("user_id", userID.String()))
		return nil, ErrNotOwned
	}
	return deck, nil
}
