package game

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/scrynotes/memorygame/internal/domain"
	"github.com/scrynotes/memorygame/internal/domain/scoring"
	"github.com/scrynotes/memorygame/internal/events"
)

// OptionGenerator builds multiple-choice options. It is implemented by
// distractor.Generator.
type OptionGenerator interface {
	// FromDeck returns options drawn only from pool, or false when pool is too small.
	FromDeck(correct string, pool []string, count int) ([]string, bool)

	// GenerateOptions always returns options, falling back as needed.
	GenerateOptions(ctx context.Context, correct string, pool []string, count int) []string
}

// Engine starts single-player sessions.
type Engine struct {
	cfg     Config
	scorer  scoring.Service
	options OptionGenerator
	emitter events.EventEmitter
	logger  *slog.Logger
}

// NewEngine creates an Engine. emitter may be nil, in which case completed
// games are not published.
func NewEngine(
	cfg Config,
	scorer scoring.Service,
	options OptionGenerator,
	emitter events.EventEmitter,
	logger *slog.Logger,
) (*Engine, error) {
	if scorer == nil {
		return nil, fmt.Errorf("%w: scorer cannot be nil", domain.ErrValidation)
	}
	if options == nil {
		return nil, fmt.Errorf("%w: option generator cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Engine{
		cfg:     cfg.withDefaults(),
		scorer:  scorer,
		options: options,
		emitter: emitter,
		logger:  logger.With(slog.String("component", "game_engine")),
	}, nil
}

// SessionOption configures a single session.
type SessionOption func(*Session)

// WithObserver registers fn to receive a snapshot after every state change.
// fn is called without the session lock held and must not block for long.
func WithObserver(fn func(State)) SessionOption {
	return func(s *Session) {
		s.observer = fn
	}
}

// WithShuffleSeed makes the card order deterministic.
func WithShuffleSeed(seed int64) SessionOption {
	return func(s *Session) {
		s.rng = rand.New(rand.NewSource(seed))
	}
}

// Start begins a session over deck in mode. It returns domain.ErrEmptyDeck
// when the deck has no cards. The deck's cards are copied and shuffled once.
func (e *Engine) Start(
	ctx context.Context,
	userID uuid.UUID,
	deck *domain.CardDeck,
	mode domain.GameMode,
	opts ...SessionOption,
) (*Session, error) {
	if !mode.IsValid() || !mode.UsesDeck() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidGameMode, mode)
	}
	if deck == nil || len(deck.Cards) == 0 {
		return nil, domain.ErrEmptyDeck
	}

	cards := make([]domain.FlashCard, len(deck.Cards))
	copy(cards, deck.Cards)

	// Async work outlives the request that started the session; Close cancels it.
	sessionCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))

	s := &Session{
		id:        uuid.New(),
		userID:    userID,
		deckID:    deck.ID,
		deckTitle: deck.Title,
		mode:      mode,
		cards:     cards,
		pool:      deck.Answers(),
		cfg:       e.cfg,
		scorer:    e.scorer,
		optionGen: e.options,
		emitter:   e.emitter,
		ctx:       sessionCtx,
		cancel:    cancel,
		startTime: time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	s.logger = e.logger.With(
		slog.String("session_id", s.id.String()),
		slog.String("mode", string(mode)),
	)

	s.rng.Shuffle(len(s.cards), func(i, j int) {
		s.cards[i], s.cards[j] = s.cards[j], s.cards[i]
	})

	s.mu.Lock()
	s.prepareCardLocked()
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "game session started",
		slog.String("deck_id", deck.ID.String()),
		slog.Int("card_count", len(cards)))

	return s, nil
}
