// Package game implements the single-player session engine used by the
// flashcard, quiz and speed-round modes.
//
// A Session walks a shuffled copy of a deck one card at a time. Each card is
// answered (or skipped, or timed out), revealed for a short delay, and then
// advanced past. When the last card is advanced the session completes and
// emits a game.completed event carrying the domain.GameResult.
//
// Sessions are safe for concurrent use. Timer and option-generation
// callbacks run on their own goroutines; each carries the card generation it
// was started for and is ignored once the session has moved on.
package game
