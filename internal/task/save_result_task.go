package task

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/scrynotes/memorygame/internal/domain"
	"github.com/scrynotes/memorygame/internal/store"
)

// ResultSaver persists a finished game. It is implemented by service.ResultService.
type ResultSaver interface {
	SaveGameResult(ctx context.Context, result *domain.GameResult) error
}

// SaveResultTask implements the Task interface for persisting a game result.
type SaveResultTask struct {
	id     uuid.UUID
	result *domain.GameResult
	saver  ResultSaver
	logger *slog.Logger
}

var _ Task = (*SaveResultTask)(nil)

// NewSaveResultTask creates a new task that saves result through saver.
func NewSaveResultTask(result *domain.GameResult, saver ResultSaver, logger *slog.Logger) (*SaveResultTask, error) {
	if result == nil {
		return nil, ErrNilResult
	}
	if saver == nil {
		return nil, ErrNilSaver
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &SaveResultTask{
		id:     uuid.New(),
		result: result,
		saver:  saver,
		logger: logger.With(slog.String("component", "save_result_task")),
	}, nil
}

// ID returns the task's unique identifier
func (t *SaveResultTask) ID() uuid.UUID {
	return t.id
}

// Type returns the task type identifier
func (t *SaveResultTask) Type() string {
	return TaskTypeSaveResult
}

// Execute saves the result. A result already stored for the same session is
// treated as success.
func (t *SaveResultTask) Execute(ctx context.Context) error {
	logger := t.logger.With(
		slog.String("task_id", t.id.String()),
		slog.String("session_id", t.result.SessionID.String()),
		slog.String("mode", string(t.result.Mode)),
	)

	err := t.saver.SaveGameResult(ctx, t.result)
	switch {
	case err == nil:
		logger.InfoContext(ctx, "game result saved", slog.Int("score", t.result.Score))
	case store.IsDuplicateError(err):
		logger.WarnContext(ctx, "game result already saved")
	default:
		return &PersistenceError{
			Operation: "save_result",
			SessionID: t.result.SessionID.String(),
			Err:       err,
		}
	}

	return nil
}
