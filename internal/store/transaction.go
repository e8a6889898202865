package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/scrynotes/memorygame/internal/platform/logger"
)

// TxFn does work inside a transaction opened by RunInTransaction.
type TxFn func(ctx context.Context, tx *sql.Tx) error

// RunInTransaction runs fn in one transaction and commits when it returns nil.
// An error or panic from fn rolls the transaction back; panics are re-raised.
// log carries the caller's fields (component, session) onto transaction
// failures; nil means the context logger.
func RunInTransaction(ctx context.Context, db *sql.DB, log *slog.Logger, fn TxFn) (err error) {
	if log == nil {
		log = logger.FromContextOrDefault(ctx, slog.Default())
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		log.ErrorContext(ctx, "failed to begin transaction", slog.String("error", err.Error()))
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		p := recover()
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			log.ErrorContext(ctx, "failed to roll back transaction", slog.String("error", rbErr.Error()))
			if err != nil {
				err = errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
			}
		}
		if p != nil {
			log.ErrorContext(ctx, "transaction aborted by panic", slog.Any("panic", p))
			panic(p)
		}
	}()

	if err := fn(ctx, tx); err != nil {
		log.DebugContext(ctx, "rolling back transaction", slog.String("error", err.Error()))
		return err
	}

	if err := tx.Commit(); err != nil {
		log.ErrorContext(ctx, "failed to commit transaction", slog.String("error", err.Error()))
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	committed = true
	return nil
}
