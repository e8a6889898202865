package task

import (
	"context"

	"github.com/google/uuid"
)

// TaskTypeSaveResult identifies tasks that persist a finished game.
const TaskTypeSaveResult = "save_result"

// Task is one unit of background work run by the WorkerPool.
type Task interface {
	// ID identifies the task in logs.
	ID() uuid.UUID
	// Type names the kind of work, e.g. TaskTypeSaveResult.
	Type() string
	// Execute does the work. Errors go to the pool's error handler.
	Execute(ctx context.Context) error
}

// TaskQueueReader is the consuming side of a queue.
type TaskQueueReader interface {
	GetChannel() <-chan Task
}

// TaskQueueWriter is the producing side of a queue. Enqueue fails rather
// than blocks when the queue is full or closed.
type TaskQueueWriter interface {
	Enqueue(task Task) error
	Close()
}
