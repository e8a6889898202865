package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/scrynotes/memorygame/internal/generation"
	"google.golang.org/genai"
)

const (
	defaultMaxRetries = 3
	defaultBaseDelay  = 2 * time.Second
)

// callGeminiWithRetry makes a call to the Gemini API with exponential backoff retry logic
// and decodes the JSON response into out.
//
// Transient errors are retried up to config.MaxRetries times with a delay of
// baseDelay * 2^attempt * (0.5 + rand(0, 0.5)). Permanent errors (content blocked
// by safety filters, malformed responses) are returned immediately.
func (g *GeminiGenerator) callGeminiWithRetry(
	ctx context.Context,
	prompt string,
	schema *genai.Schema,
	out any,
) error {
	maxRetries := g.config.MaxRetries
	if maxRetries < 0 {
		g.logger.WarnContext(ctx, "invalid max retries value, using default",
			slog.Int("max_retries", defaultMaxRetries))
		maxRetries = defaultMaxRetries
	}
	baseDelay := g.config.RetryBaseDelay
	if baseDelay <= 0 {
		baseDelay = defaultBaseDelay
	}

	genConfig := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
	}

	for attempt := 0; ; attempt++ {
		attemptNum := attempt + 1
		g.logger.InfoContext(ctx, "making Gemini API call",
			slog.Int("attempt", attemptNum),
			slog.Int("max_attempts", maxRetries+1))

		err := g.generateOnce(ctx, prompt, genConfig, out)
		if err == nil {
			g.logger.InfoContext(ctx, "Gemini API call successful",
				slog.Int("attempt", attemptNum))
			return nil
		}

		g.logger.ErrorContext(ctx, "Gemini API call failed",
			slog.Int("attempt", attemptNum),
			slog.String("error", err.Error()))

		if !errors.Is(err, generation.ErrTransientFailure) {
			return err
		}

		if attempt >= maxRetries {
			g.logger.WarnContext(ctx, "maximum retry attempts reached",
				slog.Int("max_retries", maxRetries))
			return fmt.Errorf("%w: exceeded maximum retry attempts (%d)",
				generation.ErrGenerationFailed, maxRetries)
		}

		delay := g.backoff(baseDelay, attempt)
		g.logger.InfoContext(ctx, "retrying after delay",
			slog.Int("attempt", attemptNum),
			slog.Duration("delay", delay))

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			g.logger.WarnContext(ctx, "API call cancelled during retry delay",
				slog.Int("attempt", attemptNum),
				slog.String("ctx_err", ctx.Err().Error()))
			return fmt.Errorf("%w: %v", generation.ErrTransientFailure, ctx.Err())
		}
	}
}

// generateOnce performs a single GenerateContent call and classifies its outcome.
func (g *GeminiGenerator) generateOnce(
	ctx context.Context,
	prompt string,
	genConfig *genai.GenerateContentConfig,
	out any,
) error {
	callCtx := ctx
	if g.config.RequestTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, g.config.RequestTimeout)
		defer cancel()
	}

	resp, err := g.models.GenerateContent(callCtx, g.config.ModelName, genai.Text(prompt), genConfig)
	if err != nil {
		return fmt.Errorf("%w: %v", generation.ErrTransientFailure, err)
	}

	text, err := responseText(resp)
	if err != nil {
		return err
	}

	if err := json.Unmarshal([]byte(text), out); err != nil {
		return fmt.Errorf("%w: failed to parse JSON response: %v", generation.ErrInvalidResponse, err)
	}
	return nil
}

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	switch {
	case resp == nil:
		return "", fmt.Errorf("%w: nil response", generation.ErrInvalidResponse)
	case len(resp.Candidates) == 0:
		return "", fmt.Errorf("%w: no content generated", generation.ErrInvalidResponse)
	case resp.Candidates[0].FinishReason == genai.FinishReasonSafety:
		return "", fmt.Errorf("%w: finish reason %s", generation.ErrContentBlocked, resp.Candidates[0].FinishReason)
	case resp.Candidates[0].Content == nil:
		return "", fmt.Errorf("%w: empty content in response", generation.ErrInvalidResponse)
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}
	if strings.TrimSpace(sb.String()) == "" {
		return "", fmt.Errorf("%w: empty text in response", generation.ErrInvalidResponse)
	}
	return sb.String(), nil
}

// backoff returns the jittered delay before the next attempt.
func (g *GeminiGenerator) backoff(base time.Duration, attempt int) time.Duration {
	g.rngMu.Lock()
	jitter := 0.5 + g.rng.Float64()*0.5
	g.rngMu.Unlock()

	return time.Duration(float64(base) * math.Pow(2, float64(attempt)) * jitter)
}
