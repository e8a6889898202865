// Package task runs background work off the gameplay path. Finished games
// are turned into SaveResultTasks, buffered on a bounded TaskQueue and
// executed by a WorkerPool, so a slow or failing database never blocks a
// player.
package task
