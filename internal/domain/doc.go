// Package domain contains the core game entities and value objects: flashcards,
// decks, play modes and the results a finished game produces. It is independent
// of any storage or delivery mechanism.
package domain
