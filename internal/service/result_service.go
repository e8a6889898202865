package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/scrynotes/memorygame/internal/domain"
	"github.com/scrynotes/memorygame/internal/platform/logger"
	"github.com/scrynotes/memorygame/internal/store"
)

// ResultService persists finished games.
type ResultService interface {
	// SaveGameResult stores the result and, for deck modes, updates the deck's
	// play statistics in the same transaction.
	SaveGameResult(ctx context.Context, result *domain.GameResult) error

	// ListResults returns the user's most recent results, newest first.
	// limit is clamped to [1, MaxResultsLimit]; zero means DefaultResultsLimit.
	ListResults(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.GameResult, error)
}

// Result history page sizes.
const (
	DefaultResultsLimit = 20
	MaxResultsLimit     = 100
)

type resultServiceImpl struct {
	db          *sql.DB
	resultStore store.ResultStore
	deckStore   store.DeckStore
	logger      *slog.Logger
}

// NewResultService creates a new ResultService.
func NewResultService(
	db *sql.DB,
	resultStore store.ResultStore,
	deckStore store.DeckStore,
	logger *slog.Logger,
) (ResultService, error) {
	if db == nil {
		return nil, fmt.Errorf("%w: db cannot be nil", domain.ErrValidation)
	}
	if resultStore == nil {
		return nil, fmt.Errorf("%w: resultStore cannot be nil", domain.ErrValidation)
	}
	if deckStore == nil {
		return nil, fmt.Errorf("%w: deckStore cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &resultServiceImpl{
		db:          db,
		resultStore: resultStore,
		deckStore:   deckStore,
		logger:      logger.With(slog.String("component", "result_service")),
	}, nil
}

// SaveGameResult implements ResultService.SaveGameResult
func (s *resultServiceImpl) SaveGameResult(ctx context.Context, result *domain.GameResult) error {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("session_id", result.SessionID.String()))

	err := store.RunInTransaction(ctx, s.db, log, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.resultStore.WithTx(tx).Save(ctx, result); err != nil {
			return err
		}
		if !result.Mode.UsesDeck() {
			return nil
		}
		return s.deckStore.WithTx(tx).RecordPlay(ctx, result.DeckID, result.Score, result.CardOutcomes)
	})
	if err != nil {
		log.Error("failed to save game result", slog.String("error", err.Error()))
		return NewServiceError("result", "SaveGameResult", "failed to save game result", err)
	}

	log.Debug("game result persisted", slog.String("mode", string(result.Mode)))
	return nil
}

// ListResults implements ResultService.ListResults
func (s *resultServiceImpl) ListResults(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.GameResult, error) {
	switch {
	case limit <= 0:
		limit = DefaultResultsLimit
	case limit > MaxResultsLimit:
		limit = MaxResultsLimit
	}

	results, err := s.resultStore.ListByUser(ctx, userID, limit)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list game results",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, NewServiceError("result", "ListResults", "failed to list game results", err)
	}
	return results, nil
}
