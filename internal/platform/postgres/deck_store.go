package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/scrynotes/memorygame/internal/domain"
	"github.com/scrynotes/memorygame/internal/store"
)

// psql builds PostgreSQL queries with $n placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var deckColumns = []string{"id", "user_id", "title", "times_played", "best_score", "created_at", "updated_at"}

var cardColumns = []string{
	"id", "deck_id", "question", "answer", "hint", "category", "difficulty", "times_reviewed", "times_correct",
}

// PostgresDeckStore implements the store.DeckStore interface
// using a PostgreSQL database as the storage backend.
type PostgresDeckStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresDeckStore creates a new PostgreSQL implementation of the DeckStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresDeckStore(db store.DBTX, logger *slog.Logger) *PostgresDeckStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresDeckStore{
		db:     db,
		logger: logger.With(slog.String("component", "deck_store")),
	}
}

// Ensure PostgresDeckStore implements store.DeckStore interface
var _ store.DeckStore = (*PostgresDeckStore)(nil)

// WithTx implements store.DeckStore.WithTx
func (s *PostgresDeckStore) WithTx(tx *sql.Tx) store.DeckStore {
	return &PostgresDeckStore{db: tx, logger: s.logger}
}

// Create implements store.DeckStore.Create
func (s *PostgresDeckStore) Create(ctx context.Context, deck *domain.CardDeck) error {
	if err := deck.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	query, args, err := psql.Insert("card_decks").
		Columns(deckColumns...).
		Values(deck.ID, deck.UserID, deck.Title, deck.TimesPlayed, deck.BestScore, deck.CreatedAt, deck.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build deck insert: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		s.logger.ErrorContext(ctx, "failed to insert deck",
			slog.String("deck_id", deck.ID.String()),
			slog.String("error", err.Error()))
		return store.NewStoreError("deck", "create", "failed to insert deck", MapError(err))
	}

	insert := psql.Insert("flash_cards").Columns(
		"id", "deck_id", "question", "answer", "hint", "category", "difficulty", "times_reviewed", "times_correct", "position",
	)
	for i, c := range deck.Cards {
		insert = insert.Values(c.ID, deck.ID, c.Question, c.Answer, c.Hint, c.Category,
			string(c.Difficulty), c.TimesReviewed, c.TimesCorrect, i)
	}
	query, args, err = insert.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build card insert: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		s.logger.ErrorContext(ctx, "failed to insert cards",
			slog.String("deck_id", deck.ID.String()),
			slog.Int("card_count", len(deck.Cards)),
			slog.String("error", err.Error()))
		return store.NewStoreError("deck", "create", "failed to insert cards", MapError(err))
	}

	s.logger.DebugContext(ctx, "deck created",
		slog.String("deck_id", deck.ID.String()),
		slog.Int("card_count", len(deck.Cards)))
	return nil
}

// GetByID implements store.DeckStore.GetByID
func (s *PostgresDeckStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.CardDeck, error) {
	query, args, err := psql.Select(deckColumns...).
		From("card_decks").
		Where(sq.Eq{"id": id.String()}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build deck query: %w", err)
	}

	decks, err := s.queryDecks(ctx, query, args)
	if err != nil {
		return nil, err
	}
	if len(decks) == 0 {
		return nil, store.ErrDeckNotFound
	}
	return decks[0], nil
}

// ListByUser implements store.DeckStore.ListByUser
func (s *PostgresDeckStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.CardDeck, error) {
	query, args, err := psql.Select(deckColumns...).
		From("card_decks").
		Where(sq.Eq{"user_id": userID.String()}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build deck list query: %w", err)
	}

	return s.queryDecks(ctx, query, args)
}

// RecordPlay implements store.DeckStore.RecordPlay
func (s *PostgresDeckStore) RecordPlay(
	ctx context.Context,
	deckID uuid.UUID,
	score int,
	outcomes []domain.CardOutcome,
) error {
	query, args, err := psql.Update("card_decks").
		Set("times_played", sq.Expr("times_played + 1")).
		Set("best_score", sq.Expr("GREATEST(best_score, ?)", score)).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": deckID.String()}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build deck update: %w", err)
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return store.NewStoreError("deck", "record_play", "failed to update deck stats", MapError(err))
	}
	if err := CheckRowsAffected(result, store.ErrDeckNotFound); err != nil {
		return err
	}

	for _, o := range outcomes {
		correct := 0
		if o.Correct {
			correct = 1
		}
		query, args, err := psql.Update("flash_cards").
			Set("times_reviewed", sq.Expr("times_reviewed + 1")).
			Set("times_correct", sq.Expr("times_correct + ?", correct)).
			Where(sq.Eq{"id": o.CardID.String(), "deck_id": deckID.String()}).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build card update: %w", err)
		}
		if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
			return store.NewStoreError("flash_card", "record_play", "failed to update card counters", MapError(err))
		}
	}

	s.logger.DebugContext(ctx, "recorded deck play",
		slog.String("deck_id", deckID.String()),
		slog.Int("score", score),
		slog.Int("card_outcomes", len(outcomes)))
	return nil
}

// queryDecks runs a deck query and attaches each deck's cards.
func (s *PostgresDeckStore) queryDecks(ctx context.Context, query string, args []any) ([]*domain.CardDeck, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, store.NewStoreError("deck", "get", "failed to query decks", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	decks := make([]*domain.CardDeck, 0)
	byID := make(map[uuid.UUID]*domain.CardDeck)
	ids := make([]string, 0)
	for rows.Next() {
		d := &domain.CardDeck{}
		if err := rows.Scan(&d.ID, &d.UserID, &d.Title, &d.TimesPlayed, &d.BestScore, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, store.NewStoreError("deck", "get", "failed to scan deck", err)
		}
		d.Cards = []domain.FlashCard{}
		decks = append(decks, d)
		byID[d.ID] = d
		ids = append(ids, d.ID.String())
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("deck", "get", "failed to iterate decks", MapError(err))
	}
	if len(ids) == 0 {
		return decks, nil
	}

	cardQuery, cardArgs, err := psql.Select(cardColumns...).
		From("flash_cards").
		Where(sq.Eq{"deck_id": ids}).
		OrderBy("deck_id", "position").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build card query: %w", err)
	}

	cardRows, err := s.db.QueryContext(ctx, cardQuery, cardArgs...)
	if err != nil {
		return nil, store.NewStoreError("flash_card", "get", "failed to query cards", MapError(err))
	}
	defer func() { _ = cardRows.Close() }()

	for cardRows.Next() {
		var (
			c          domain.FlashCard
			deckID     uuid.UUID
			difficulty string
		)
		if err := cardRows.Scan(&c.ID, &deckID, &c.Question, &c.Answer, &c.Hint, &c.Category,
			&difficulty, &c.TimesReviewed, &c.TimesCorrect); err != nil {
			return nil, store.NewStoreError("flash_card", "get", "failed to scan card", err)
		}
		c.Difficulty = domain.Difficulty(difficulty)
		if d, ok := byID[deckID]; ok {
			d.Cards = append(d.Cards, c)
		}
	}
	if err := cardRows.Err(); err != nil {
		return nil, store.NewStoreError("flash_card", "get", "failed to iterate cards", MapError(err))
	}

	return decks, nil
}
