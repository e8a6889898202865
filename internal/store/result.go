package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/scrynotes/memorygame/internal/domain"
)

// ResultStore defines the interface for game result persistence.
type ResultStore interface {
	// Save inserts a finished game's result.
	// Returns ErrDuplicate if a result for the same session was already saved.
	Save(ctx context.Context, result *domain.GameResult) error

	// ListByUser returns the user's most recent results, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.GameResult, error)

	// WithTx returns a ResultStore that runs its queries on tx.
	WithTx(tx *sql.Tx) ResultStore
}
