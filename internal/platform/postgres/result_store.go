package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/scrynotes/memorygame/internal/domain"
	"github.com/scrynotes/memorygame/internal/store"
)

var resultColumns = []string{
	"id", "session_id", "deck_id", "user_id", "mode", "score",
	"correct_answers", "total_cards", "max_streak", "time_taken_ms", "played_at",
}

// PostgresResultStore implements the store.ResultStore interface.
type PostgresResultStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresResultStore creates a new PostgreSQL implementation of the ResultStore interface.
func NewPostgresResultStore(db store.DBTX, logger *slog.Logger) *PostgresResultStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresResultStore{
		db:     db,
		logger: logger.With(slog.String("component", "result_store")),
	}
}

var _ store.ResultStore = (*PostgresResultStore)(nil)

// WithTx implements store.ResultStore.WithTx
func (s *PostgresResultStore) WithTx(tx *sql.Tx) store.ResultStore {
	return &PostgresResultStore{db: tx, logger: s.logger}
}

// Save implements store.ResultStore.Save
func (s *PostgresResultStore) Save(ctx context.Context, result *domain.GameResult) error {
	if err := result.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	query, args, err := psql.Insert("game_results").
		Columns(resultColumns...).
		Values(result.ID, result.SessionID, nullableUUID(result.DeckID), result.UserID, string(result.Mode),
			result.Score, result.CorrectAnswers, result.TotalCards, result.MaxStreak,
			result.TimeTakenMs, result.PlayedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build result insert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		s.logger.ErrorContext(ctx, "failed to insert game result",
			slog.String("result_id", result.ID.String()),
			slog.String("error", err.Error()))
		return store.NewStoreError("game_result", "create", "failed to insert result", MapError(err))
	}

	s.logger.DebugContext(ctx, "game result saved",
		slog.String("result_id", result.ID.String()),
		slog.String("mode", string(result.Mode)),
		slog.Int("score", result.Score))
	return nil
}

// ListByUser implements store.ResultStore.ListByUser
func (s *PostgresResultStore) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.GameResult, error) {
	builder := psql.Select(resultColumns...).
		From("game_results").
		Where(sq.Eq{"user_id": userID.String()}).
		OrderBy("played_at DESC")
	if limit > 0 {
		builder = builder.Limit(uint64(limit))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build result query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, store.NewStoreError("game_result", "list", "failed to query results", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	results := make([]*domain.GameResult, 0)
	for rows.Next() {
		var (
			r      domain.GameResult
			deckID uuid.NullUUID
			mode   string
		)
		if err := rows.Scan(&r.ID, &r.SessionID, &deckID, &r.UserID, &mode, &r.Score,
			&r.CorrectAnswers, &r.TotalCards, &r.MaxStreak, &r.TimeTakenMs, &r.PlayedAt); err != nil {
			return nil, store.NewStoreError("game_result", "list", "failed to scan result", err)
		}
		if deckID.Valid {
			r.DeckID = deckID.UUID
		}
		r.Mode = domain.GameMode(mode)
		results = append(results, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("game_result", "list", "failed to iterate results", MapError(err))
	}

	return results, nil
}

// nullableUUID maps uuid.Nil to SQL NULL.
func nullableUUID(id uuid.UUID) any {
	if id == uuid.Nil {
		return nil
	}
	return id
}
