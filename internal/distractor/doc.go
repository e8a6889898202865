// Package distractor builds multiple-choice option lists for quiz questions.
//
// Wrong answers are drawn from the other answers in the deck when there are
// enough of them. Otherwise the external generation service is asked for
// more, and if that fails a fixed pool of generic placeholders is used so a
// quiz is never unplayable.
package distractor
