// Package friend implements the two-person hot-seat mode. One participant,
// the quiz master, writes a question; the device is handed to the player,
// who answers; it is handed back, and the quiz master judges the answer.
//
// The hand-off phases are explicit states that must be confirmed by a
// person. While one is active, State hides the question and the answer so
// the wrong participant never sees them.
package friend
