package distractor

import (
	"context"
	"log/slog"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/scrynotes/memorygame/internal/domain"
	"github.com/scrynotes/memorygame/internal/generation"
)

// DefaultOptionCount is the number of options shown for a quiz question.
const DefaultOptionCount = 4

// DefaultPlaceholders are used when neither the deck nor the generation
// service can supply enough distractors.
var DefaultPlaceholders = []string{
	"None of the above",
	"All of the above",
	"Cannot be determined",
	"Not enough information",
	"Both A and B",
}

// Generator produces option lists that contain the correct answer exactly once.
// It is safe for concurrent use.
type Generator struct {
	source       generation.DistractorGenerator
	logger       *slog.Logger
	placeholders []string

	mu  sync.Mutex
	rng *rand.Rand
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed makes shuffling deterministic.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.rng = rand.New(rand.NewSource(seed))
	}
}

// WithPlaceholders replaces the generic fallback pool.
func WithPlaceholders(placeholders []string) Option {
	return func(g *Generator) {
		g.placeholders = placeholders
	}
}

// NewGenerator creates a Generator. source may be nil, in which case decks
// that are too small go straight to the placeholder pool.
func NewGenerator(source generation.DistractorGenerator, logger *slog.Logger, opts ...Option) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	g := &Generator{
		source:       source,
		logger:       logger.With(slog.String("component", "distractor_generator")),
		placeholders: DefaultPlaceholders,
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// FromDeck builds options using only in-deck answers. The boolean is false
// when pool holds fewer than count-1 distinct distractors, in which case no
// options are returned.
func (g *Generator) FromDeck(correct string, pool []string, count int) ([]string, bool) {
	if count <= 1 {
		return []string{correct}, true
	}

	candidates := g.shuffled(uniqueExcluding(correct, pool, nil))
	if len(candidates) < count-1 {
		return nil, false
	}
	return g.withCorrect(correct, candidates[:count-1]), true
}

// GenerateOptions returns count options for correct. It prefers in-deck
// answers, then asks the generation service once, then falls back to
// placeholders. It never returns an error.
func (g *Generator) GenerateOptions(ctx context.Context, correct string, pool []string, count int) []string {
	if options, ok := g.FromDeck(correct, pool, count); ok {
		return options
	}

	need := count - 1
	if g.source == nil {
		return g.fallback(correct, need)
	}

	generated, err := g.source.GenerateDistractors(ctx, correct, need)
	if err != nil {
		g.logger.WarnContext(ctx, "distractor generation failed, using placeholders",
			slog.String("error", err.Error()))
		return g.fallback(correct, need)
	}

	selected := uniqueExcluding(correct, generated, nil)
	if len(selected) == 0 {
		g.logger.WarnContext(ctx, "distractor generation returned no usable values, using placeholders")
		return g.fallback(correct, need)
	}
	if len(selected) > need {
		selected = selected[:need]
	}

	// Top up a short generated list from the deck, then the placeholders.
	if len(selected) < need {
		selected = append(selected, g.shuffled(uniqueExcluding(correct, pool, selected))...)
	}
	if len(selected) < need {
		selected = append(selected, uniqueExcluding(correct, g.placeholders, selected)...)
	}
	if len(selected) > need {
		selected = selected[:need]
	}

	return g.withCorrect(correct, selected)
}

// fallback returns placeholders plus the correct answer.
func (g *Generator) fallback(correct string, need int) []string {
	selected := uniqueExcluding(correct, g.placeholders, nil)
	if len(selected) > need {
		selected = selected[:need]
	}
	return g.withCorrect(correct, selected)
}

// withCorrect appends correct to distractors and shuffles the result.
func (g *Generator) withCorrect(correct string, distractors []string) []string {
	options := make([]string, 0, len(distractors)+1)
	options = append(options, distractors...)
	options = append(options, correct)
	return g.shuffled(options)
}

// shuffled shuffles values in place and returns them.
func (g *Generator) shuffled(values []string) []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rng.Shuffle(len(values), func(i, j int) {
		values[i], values[j] = values[j], values[i]
	})
	return values
}

// uniqueExcluding returns the trimmed, non-blank values of pool that differ
// from correct and from every entry in taken, compared case-insensitively.
// Order of first occurrence is preserved.
func uniqueExcluding(correct string, pool []string, taken []string) []string {
	seen := make(map[string]struct{}, len(pool)+len(taken)+1)
	seen[domain.NormalizeAnswer(correct)] = struct{}{}
	for _, t := range taken {
		seen[domain.NormalizeAnswer(t)] = struct{}{}
	}

	out := make([]string, 0, len(pool))
	for _, v := range pool {
		v = strings.TrimSpace(v)
		key := domain.NormalizeAnswer(v)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, v)
	}
	return out
}
