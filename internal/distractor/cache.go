package distractor

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"strconv"

	"github.com/scrynotes/memorygame/internal/domain"
	"github.com/scrynotes/memorygame/internal/generation"
)

// Cache stores generated distractor lists.
type Cache interface {
	// Get returns the cached values; the boolean is false on a miss.
	Get(ctx context.Context, key string) ([]string, bool, error)
	Set(ctx context.Context, key string, values []string) error
}

// CachedSource decorates a generation.DistractorGenerator with a cache so the
// same answer is only sent to the external service once. Cache failures are
// logged and never fail a request.
type CachedSource struct {
	next   generation.DistractorGenerator
	cache  Cache
	logger *slog.Logger
}

var _ generation.DistractorGenerator = (*CachedSource)(nil)

// NewCachedSource wraps next with cache.
func NewCachedSource(next generation.DistractorGenerator, cache Cache, logger *slog.Logger) *CachedSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedSource{
		next:   next,
		cache:  cache,
		logger: logger.With(slog.String("component", "distractor_cache")),
	}
}

// GenerateDistractors implements generation.DistractorGenerator.
func (c *CachedSource) GenerateDistractors(ctx context.Context, correctAnswer string, count int) ([]string, error) {
	key := CacheKey(correctAnswer, count)

	values, ok, err := c.cache.Get(ctx, key)
	if err != nil {
		c.logger.WarnContext(ctx, "distractor cache read failed", slog.String("error", err.Error()))
	} else if ok && len(values) > 0 {
		c.logger.DebugContext(ctx, "distractor cache hit", slog.String("key", key))
		return values, nil
	}

	values, err = c.next.GenerateDistractors(ctx, correctAnswer, count)
	if err != nil {
		return nil, err
	}

	if err := c.cache.Set(ctx, key, values); err != nil {
		c.logger.WarnContext(ctx, "distractor cache write failed", slog.String("error", err.Error()))
	}
	return values, nil
}

// CacheKey derives the cache key from the normalized answer and the requested count.
func CacheKey(correctAnswer string, count int) string {
	sum := sha256.Sum256([]byte(domain.NormalizeAnswer(correctAnswer)))
	return hex.EncodeToString(sum[:16]) + ":" + strconv.Itoa(count)
}
