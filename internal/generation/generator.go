package generation

import (
	"context"

	"github.com/scrynotes/memorygame/internal/domain"
)

// DistractorGenerator produces plausible wrong answers for a quiz question.
type DistractorGenerator interface {
	// GenerateDistractors returns up to count wrong answers for correctAnswer.
	// Implementations may return fewer values than requested; callers are
	// expected to filter and top up the result.
	GenerateDistractors(ctx context.Context, correctAnswer string, count int) ([]string, error)
}

// ContentParser builds flashcards from freeform text.
type ContentParser interface {
	// ParseContent extracts question/answer pairs from text.
	// It returns ErrNoCardsExtracted (possibly wrapped) when nothing usable was found.
	ParseContent(ctx context.Context, text string) ([]domain.FlashCard, error)
}

// Generator is implemented by adapters that serve both ports.
type Generator interface {
	DistractorGenerator
	ContentParser
}
