package gemini

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/scrynotes/memorygame/internal/config"
	"github.com/scrynotes/memorygame/internal/domain"
	"github.com/scrynotes/memorygame/internal/generation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

// fakeModels replays queued responses and records the prompts it received.
type fakeModels struct {
	mu        sync.Mutex
	responses []*genai.GenerateContentResponse
	errs      []error
	prompts   []string
	configs   []*genai.GenerateContentConfig
}

func (f *fakeModels) GenerateContent(
	_ context.Context,
	_ string,
	contents []*genai.Content,
	cfg *genai.GenerateContentConfig,
) (*genai.GenerateContentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(contents) > 0 && len(contents[0].Parts) > 0 {
		f.prompts = append(f.prompts, contents[0].Parts[0].Text)
	}
	f.configs = append(f.configs, cfg)

	i := len(f.prompts) - 1
	var err error
	if i < len(f.errs) {
		err = f.errs[i]
	}
	if err != nil {
		return nil, err
	}
	if i < len(f.responses) {
		return f.responses[i], nil
	}
	return f.responses[len(f.responses)-1], nil
}

func (f *fakeModels) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: text}}},
		}},
	}
}

func testConfig() config.LLMConfig {
	return config.LLMConfig{
		ModelName:      "gemini-test",
		MaxRetries:     2,
		RetryBaseDelay: time.Millisecond,
		MaxParsedCards: 10,
	}
}

func newTestGenerator(t *testing.T, models modelClient) *GeminiGenerator {
	t.Helper()
	g, err := newGenerator(slog.New(slog.NewTextHandler(io.Discard, nil)), testConfig(), models)
	require.NoError(t, err)
	return g
}

func TestNewGeminiGeneratorRequiresAPIKey(t *testing.T) {
	t.Parallel()

	_, err := NewGeminiGenerator(context.Background(), slog.Default(), config.LLMConfig{ModelName: "m"})
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)
}

func TestNewGeneratorValidation(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	_, err := newGenerator(nil, testConfig(), &fakeModels{})
	assert.Error(t, err)

	_, err = newGenerator(logger, testConfig(), nil)
	assert.ErrorIs(t, err, ErrNilModels)

	cfg := testConfig()
	cfg.ModelName = ""
	_, err = newGenerator(logger, cfg, &fakeModels{})
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)
}

func TestGenerateDistractors(t *testing.T) {
	t.Parallel()

	models := &fakeModels{responses: []*genai.GenerateContentResponse{
		textResponse(`{"distractors": ["London", " ", "Berlin", "Madrid", "Rome"]}`),
	}}
	g := newTestGenerator(t, models)

	got, err := g.GenerateDistractors(context.Background(), "Paris", 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"London", "Berlin", "Madrid"}, got)

	require.Equal(t, 1, models.calls())
	assert.Contains(t, models.prompts[0], `"Paris"`)
	assert.Contains(t, models.prompts[0], "exactly 3 wrong answers")
	assert.Equal(t, "application/json", models.configs[0].ResponseMIMEType)
	assert.Same(t, distractorSchema, models.configs[0].ResponseSchema)
}

func TestGenerateDistractorsEmptyInput(t *testing.T) {
	t.Parallel()

	g := newTestGenerator(t, &fakeModels{})
	_, err := g.GenerateDistractors(context.Background(), "  ", 3)
	assert.ErrorIs(t, err, generation.ErrEmptyInput)
}

func TestGenerateDistractorsRetriesTransientErrors(t *testing.T) {
	t.Parallel()

	models := &fakeModels{
		errs: []error{errors.New("503 unavailable"), nil},
		responses: []*genai.GenerateContentResponse{
			nil,
			textResponse(`{"distractors": ["Lyon"]}`),
		},
	}
	g := newTestGenerator(t, models)

	got, err := g.GenerateDistractors(context.Background(), "Paris", 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"Lyon"}, got)
	assert.Equal(t, 2, models.calls())
}

func TestGenerateDistractorsGivesUpAfterMaxRetries(t *testing.T) {
	t.Parallel()

	boom := errors.New("connection reset")
	models := &fakeModels{errs: []error{boom, boom, boom, boom}}
	g := newTestGenerator(t, models)

	_, err := g.GenerateDistractors(context.Background(), "Paris", 3)
	assert.ErrorIs(t, err, generation.ErrGenerationFailed)
	assert.Equal(t, 3, models.calls())
}

func TestGenerateDistractorsPermanentErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		resp    *genai.GenerateContentResponse
		wantErr error
	}{
		{
			name:    "malformed json",
			resp:    textResponse(`{"distractors": [`),
			wantErr: generation.ErrInvalidResponse,
		},
		{
			name:    "no candidates",
			resp:    &genai.GenerateContentResponse{},
			wantErr: generation.ErrInvalidResponse,
		},
		{
			name: "safety block",
			resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
				FinishReason: genai.FinishReasonSafety,
			}}},
			wantErr: generation.ErrContentBlocked,
		},
		{
			name:    "empty distractor list",
			resp:    textResponse(`{"distractors": []}`),
			wantErr: generation.ErrInvalidResponse,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			models := &fakeModels{responses: []*genai.GenerateContentResponse{tc.resp}}
			g := newTestGenerator(t, models)

			_, err := g.GenerateDistractors(context.Background(), "Paris", 3)
			assert.ErrorIs(t, err, tc.wantErr)
			assert.Equal(t, 1, models.calls(), "permanent errors are not retried")
		})
	}
}

func TestParseContent(t *testing.T) {
	t.Parallel()

	models := &fakeModels{responses: []*genai.GenerateContentResponse{textResponse(`{"cards": [
		{"question": "Capital of France?", "answer": "Paris", "difficulty": "easy", "category": "Geography"},
		{"question": "", "answer": "orphan"},
		{"question": "Speed of light?", "answer": "299792 km/s", "hint": "about 300k", "difficulty": "extreme"}
	]}`)}}
	g := newTestGenerator(t, models)

	cards, err := g.ParseContent(context.Background(), "France's capital is Paris. Light travels fast.")
	require.NoError(t, err)
	require.Len(t, cards, 2)

	assert.Equal(t, "Paris", cards[0].Answer)
	assert.Equal(t, domain.DifficultyEasy, cards[0].Difficulty)
	assert.Equal(t, "Geography", cards[0].Category)
	assert.Equal(t, domain.DifficultyMedium, cards[1].Difficulty)
	assert.Equal(t, "about 300k", cards[1].Hint)
	assert.Contains(t, models.prompts[0], "France's capital is Paris.")
}

func TestParseContentNoCards(t *testing.T) {
	t.Parallel()

	models := &fakeModels{responses: []*genai.GenerateContentResponse{textResponse(`{"cards": []}`)}}
	g := newTestGenerator(t, models)

	_, err := g.ParseContent(context.Background(), "nothing to learn here")
	assert.ErrorIs(t, err, generation.ErrNoCardsExtracted)

	_, err = g.ParseContent(context.Background(), "")
	assert.ErrorIs(t, err, generation.ErrEmptyInput)
}

func TestCallCancelledDuringBackoff(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.RetryBaseDelay = time.Hour
	models := &fakeModels{errs: []error{errors.New("unavailable")}}
	g, err := newGenerator(slog.New(slog.NewTextHandler(io.Discard, nil)), cfg, models)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = g.GenerateDistractors(ctx, "Paris", 3)
	assert.ErrorIs(t, err, generation.ErrTransientFailure)
}
