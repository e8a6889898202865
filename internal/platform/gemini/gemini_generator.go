package gemini

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"sync"
	"text/template"
	"time"

	"github.com/scrynotes/memorygame/internal/config"
	"github.com/scrynotes/memorygame/internal/domain"
	"github.com/scrynotes/memorygame/internal/generation"
	"google.golang.org/genai"
)

//go:embed prompts/*.tmpl
var promptFS embed.FS

// GeminiGenerator implements generation.DistractorGenerator and
// generation.ContentParser using Google's Gemini API.
type GeminiGenerator struct {
	// logger is used for structured logging
	logger *slog.Logger

	// config contains LLM-specific configuration
	config config.LLMConfig

	// templates holds the parsed prompt templates
	templates *template.Template

	// models issues GenerateContent calls
	models modelClient

	// rngMu guards rng, which provides backoff jitter
	rngMu sync.Mutex
	rng   *rand.Rand
}

var _ generation.Generator = (*GeminiGenerator)(nil)

// NewGeminiGenerator creates a new instance of GeminiGenerator backed by a real genai client.
func NewGeminiGenerator(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*GeminiGenerator, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v",
			generation.ErrInvalidConfig, err)
	}

	return newGenerator(logger, cfg, client.Models)
}

// newGenerator wires a generator around any model client.
func newGenerator(logger *slog.Logger, cfg config.LLMConfig, models modelClient) (*GeminiGenerator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if models == nil {
		return nil, ErrNilModels
	}
	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}
	if cfg.MaxParsedCards <= 0 {
		cfg.MaxParsedCards = 50
	}

	templates, err := template.ParseFS(promptFS, "prompts/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse prompt templates: %v",
			generation.ErrInvalidConfig, err)
	}

	return &GeminiGenerator{
		logger:    logger.With(slog.String("component", "gemini_generator")),
		config:    cfg,
		templates: templates,
		models:    models,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}, nil
}

// GenerateDistractors asks the model for count wrong answers to correctAnswer.
func (g *GeminiGenerator) GenerateDistractors(ctx context.Context, correctAnswer string, count int) ([]string, error) {
	correctAnswer = strings.TrimSpace(correctAnswer)
	if correctAnswer == "" || count <= 0 {
		return nil, generation.ErrEmptyInput
	}

	prompt, err := g.renderPrompt(ctx, "distractors.tmpl", distractorPromptData{
		CorrectAnswer: correctAnswer,
		Count:         count,
	})
	if err != nil {
		return nil, err
	}

	var response DistractorResponse
	if err := g.callGeminiWithRetry(ctx, prompt, distractorSchema, &response); err != nil {
		return nil, err
	}

	distractors := make([]string, 0, len(response.Distractors))
	for _, d := range response.Distractors {
		if d = strings.TrimSpace(d); d != "" {
			distractors = append(distractors, d)
		}
	}
	if len(distractors) == 0 {
		return nil, fmt.Errorf("%w: no distractors in response", generation.ErrInvalidResponse)
	}
	if len(distractors) > count {
		distractors = distractors[:count]
	}

	g.logger.DebugContext(ctx, "generated distractors",
		slog.Int("requested", count),
		slog.Int("returned", len(distractors)))

	return distractors, nil
}

// ParseContent extracts flashcards from freeform text.
func (g *GeminiGenerator) ParseContent(ctx context.Context, text string) ([]domain.FlashCard, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, generation.ErrEmptyInput
	}

	prompt, err := g.renderPrompt(ctx, "parse.tmpl", parsePromptData{
		Text:     text,
		MaxCards: g.config.MaxParsedCards,
	})
	if err != nil {
		return nil, err
	}

	var response CardsResponse
	if err := g.callGeminiWithRetry(ctx, prompt, cardsSchema, &response); err != nil {
		return nil, err
	}

	return g.toFlashCards(ctx, response)
}

// toFlashCards converts the model output into domain cards, skipping unusable entries.
func (g *GeminiGenerator) toFlashCards(ctx context.Context, response CardsResponse) ([]domain.FlashCard, error) {
	cards := make([]domain.FlashCard, 0, len(response.Cards))
	for i, schema := range response.Cards {
		if len(cards) >= g.config.MaxParsedCards {
			break
		}

		difficulty, err := domain.ParseDifficulty(schema.Difficulty)
		if err != nil {
			difficulty = domain.DifficultyMedium
		}

		card, err := domain.NewFlashCard(schema.Question, schema.Answer, difficulty)
		if err != nil {
			g.logger.DebugContext(ctx, "skipping unusable card from response",
				slog.Int("index", i),
				slog.String("reason", err.Error()))
			continue
		}
		card.Hint = strings.TrimSpace(schema.Hint)
		card.Category = strings.TrimSpace(schema.Category)
		cards = append(cards, card)
	}

	if len(cards) == 0 {
		return nil, generation.ErrNoCardsExtracted
	}

	g.logger.InfoContext(ctx, "parsed content into flashcards",
		slog.Int("card_count", len(cards)))

	return cards, nil
}

// renderPrompt executes the named embedded template.
func (g *GeminiGenerator) renderPrompt(ctx context.Context, name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := g.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to execute prompt template %s: %w", name, err)
	}

	g.logger.DebugContext(ctx, "prompt generated",
		slog.String("template_name", name),
		slog.Int("prompt_length", buf.Len()))

	return buf.String(), nil
}
