// Package generation defines the ports to the external text-generation
// service (an LLM such as Gemini): producing multiple-choice distractors for
// quiz questions and parsing freeform study text into flashcards. Adapters
// live under internal/platform; the game engine only depends on these
// interfaces.
package generation
