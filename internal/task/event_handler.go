package task

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/scrynotes/memorygame/internal/domain"
	"github.com/scrynotes/memorygame/internal/events"
)

// ResultEventHandler implements events.EventHandler. It turns game
// completion events into SaveResultTasks and enqueues them without blocking
// the emitting engine.
type ResultEventHandler struct {
	saver  ResultSaver
	queue  TaskQueueWriter
	logger *slog.Logger
}

var _ events.EventHandler = (*ResultEventHandler)(nil)

// NewResultEventHandler creates a handler that enqueues result tasks on queue.
func NewResultEventHandler(saver ResultSaver, queue TaskQueueWriter, logger *slog.Logger) (*ResultEventHandler, error) {
	if saver == nil {
		return nil, ErrNilSaver
	}
	if queue == nil {
		return nil, ErrNilQueue
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &ResultEventHandler{
		saver:  saver,
		queue:  queue,
		logger: logger.With(slog.String("component", "result_event_handler")),
	}, nil
}

// HandleEvent processes completion events and ignores every other type.
func (h *ResultEventHandler) HandleEvent(ctx context.Context, event *events.Event) error {
	if event.Type != events.TypeGameCompleted && event.Type != events.TypeFriendGameCompleted {
		h.logger.DebugContext(ctx, "ignoring event with unsupported type",
			slog.String("event_type", event.Type),
			slog.String("event_id", event.ID.String()))
		return nil
	}

	var result domain.GameResult
	if err := event.UnmarshalPayload(&result); err != nil {
		h.logger.ErrorContext(ctx, "failed to unmarshal payload",
			slog.String("error", err.Error()),
			slog.String("event_id", event.ID.String()))
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	t, err := NewSaveResultTask(&result, h.saver, h.logger)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	if err := h.queue.Enqueue(t); err != nil {
		h.logger.ErrorContext(ctx, "failed to enqueue result task",
			slog.String("error", err.Error()),
			slog.String("session_id", result.SessionID.String()),
			slog.String("event_id", event.ID.String()))
		return &PersistenceError{
			Operation: "enqueue_result",
			SessionID: result.SessionID.String(),
			Err:       err,
		}
	}

	h.logger.DebugContext(ctx, "result task enqueued",
		slog.String("task_id", t.ID().String()),
		slog.String("session_id", result.SessionID.String()),
		slog.String("event_id", event.ID.String()))
	return nil
}
