package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/phrazzld/lingodrift-api/internal/config"
	"github.com/phrazzld/lingodrift-api/internal/generation"
	"github.com/phrazzld/lingodrift-api/internal/platform/logger"
	"github.com/phrazzld/lingodrift-api/internal/service"
	"google.golang.org/genai"
)

// maxBackoff caps a single retry delay.
const maxBackoff = 30 * time.Second

// generateFunc sends a prompt to the model and returns its raw response.
type generateFunc func(ctx context.Context, prompt string) (*genai.GenerateContentResponse, error)

// Generator drafts exams with Gemini.
type Generator struct {
	logger     *slog.Logger
	generate   generateFunc
	maxRetries int
	baseDelay  time.Duration
}

// NewGenerator returns a Gemini-backed generator, or generation.Disabled when
// cfg carries no API key.
func NewGenerator(ctx context.Context, cfg config.LLMConfig, logger *slog.Logger) (generation.ExamDraftGenerator, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if !cfg.DraftsEnabled() {
		logger.Info("gemini api key not set, exam drafts disabled")
		return generation.Disabled{}, nil
	}
	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", generation.ErrInvalidConfig, err)
	}

	model := cfg.ModelName
	generate := func(ctx context.Context, prompt string) (*genai.GenerateContentResponse, error) {
		return client.Models.GenerateContent(ctx, model, genai.Text(prompt), &genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
		})
	}

	logger.Info("gemini exam draft generator ready", "model", model)
	return newGenerator(generate, cfg.MaxRetries, time.Duration(cfg.RetryDelaySeconds)*time.Second, logger), nil
}

func newGenerator(generate generateFunc, maxRetries int, baseDelay time.Duration, logger *slog.Logger) *Generator {
	if maxRetries < 0 {
		maxRetries = 0
	}
	if baseDelay <= 0 {
		baseDelay = 2 * time.Second
	}
	return &Generator{
		logger:     logger.With(slog.String("component", "gemini_generator")),
		generate:   generate,
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
	}
}

// GenerateDraft implements generation.ExamDraftGenerator.
func (g *Generator) GenerateDraft(ctx context.Context, req generation.DraftRequest) (*service.ExamSpec, error) {
	log := logger.FromContextOrDefault(ctx, g.logger)

	req = req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	prompt, err := renderPrompt(req)
	if err != nil {
		return nil, err
	}
	log.Debug("exam draft prompt rendered", "level", req.Level, "prompt_length", len(prompt))

	text, err := g.callWithRetry(ctx, prompt)
	if err != nil {
		return nil, err
	}

	spec, err := parseDraft(text, req)
	if err != nil {
		log.Warn("model returned an unusable draft", "error", err, "response_length", len(text))
		return nil, err
	}

	log.Info("exam draft generated", "level", req.Level, "sections", len(spec.Sections))
	return spec, nil
}

// callWithRetry calls the model up to maxRetries+1 times. Blocked or
// malformed answers fail at once; API errors are retried when transient.
func (g *Generator) callWithRetry(ctx context.Context, prompt string) (string, error) {
	log := logger.FromContextOrDefault(ctx, g.logger)

	for attempt := 0; ; attempt++ {
		resp, err := g.generate(ctx, prompt)
		if err == nil {
			return responseText(resp)
		}

		log.Warn("gemini call failed", "error", err, "attempt", attempt+1, "max_attempts", g.maxRetries+1)
		if !isTransient(err) {
			return "", fmt.Errorf("%w: %v", generation.ErrInvalidResponse, err)
		}
		if attempt >= g.maxRetries {
			return "", fmt.Errorf("%w: exceeded maximum retry attempts (%d): %v",
				generation.ErrTransientFailure, g.maxRetries, err)
		}

		delay := g.backoff(attempt)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return "", fmt.Errorf("%w: %v", generation.ErrTransientFailure, ctx.Err())
		}
	}
}

// backoff returns baseDelay * 2^attempt scaled by a jitter factor in [0.5, 1).
func (g *Generator) backoff(attempt int) time.Duration {
	d := float64(g.baseDelay) * math.Pow(2, float64(attempt))
	d *= 0.5 + rand.Float64()*0.5
	if d > float64(maxBackoff) {
		return maxBackoff
	}
	return time.Duration(d)
}

// isTransient reports whether an API error is worth retrying: rate limits,
// server errors and transport failures.
func isTransient(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= http.StatusInternalServerError
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return apiErrPtr.Code == http.StatusTooManyRequests || apiErrPtr.Code >= http.StatusInternalServerError
	}
	return true
}
