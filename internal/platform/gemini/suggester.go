package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/phrazzld/locale-api/internal/config"
	"github.com/phrazzld/locale-api/internal/platform/logger"
	"github.com/phrazzld/locale-api/internal/redact"
	"google.golang.org/genai"
)

// contentGenerator is the subset of *genai.Models the suggester calls.
type contentGenerator interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// Suggester drafts translations with a Gemini model.
type Suggester struct {
	models     contentGenerator
	model      string
	maxRetries int
	baseDelay  time.Duration
	logger     *slog.Logger
	rng        *rand.Rand

	// wait blocks for d or until ctx is done. Replaced in tests.
	wait func(ctx context.Context, d time.Duration) error
}

// NewSuggester creates a Suggester backed by the Gemini API.
func NewSuggester(ctx context.Context, cfg config.LLMConfig, logger *slog.Logger) (*Suggester, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", ErrInvalidConfig, err)
	}

	return newSuggester(client.Models, cfg, logger)
}

func newSuggester(models contentGenerator, cfg config.LLMConfig, logger *slog.Logger) (*Suggester, error) {
	if models == nil {
		return nil, fmt.Errorf("%w: content generator cannot be nil", ErrInvalidConfig)
	}
	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", ErrInvalidConfig)
	}
	if logger == nil {
		logger = slog.Default()
	}

	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	delaySeconds := cfg.RetryDelaySeconds
	if delaySeconds < 1 {
		delaySeconds = 1
	}

	return &Suggester{
		models:     models,
		model:      cfg.ModelName,
		maxRetries: maxRetries,
		baseDelay:  time.Duration(delaySeconds) * time.Second,
		logger:     logger.With(slog.String("component", "gemini_suggester")),
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
		wait:       waitContext,
	}, nil
}

// Suggest translates text into the language langID.
func (s *Suggester) Suggest(ctx context.Context, text, langID string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptySourceText
	}

	prompt, err := buildPrompt(text, langID)
	if err != nil {
		return "", err
	}

	return s.generateWithRetry(ctx, prompt)
}

// generateWithRetry calls the model, retrying failed calls up to maxRetries
// times with backoff baseDelay * 2^attempt * [0.5, 1.0). A response that
// arrives but is unusable is never retried.
func (s *Suggester) generateWithRetry(ctx context.Context, prompt string) (string, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	contents := []*genai.Content{{
		Role:  "user",
		Parts: []*genai.Part{{Text: prompt}},
	}}
	genConfig := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: systemInstruction}}},
		Temperature:       genai.Ptr[float32](0.2),
	}

	for attempt := 0; ; attempt++ {
		log.DebugContext(ctx, "calling Gemini API",
			slog.Int("attempt", attempt+1),
			slog.Int("max_attempts", s.maxRetries+1))

		resp, err := s.models.GenerateContent(ctx, s.model, contents, genConfig)
		if err == nil {
			return extractText(resp)
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}

		log.WarnContext(ctx, "Gemini API call failed",
			slog.Int("attempt", attempt+1),
			slog.String("error", redact.Error(err)))

		if attempt >= s.maxRetries {
			return "", fmt.Errorf("%w: exceeded maximum retry attempts (%d): %v",
				ErrTransientFailure, s.maxRetries, err)
		}

		backoff := float64(s.baseDelay) * math.Pow(2, float64(attempt))
		delay := time.Duration(backoff * (0.5 + s.rng.Float64()*0.5))
		if err := s.wait(ctx, delay); err != nil {
			return "", fmt.Errorf("%w: %v", ErrTransientFailure, err)
		}
	}
}

// extractText returns the trimmed text of the first candidate.
func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		if resp != nil && resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			return "", fmt.Errorf("%w: prompt blocked (%s)", ErrContentBlocked, resp.PromptFeedback.BlockReason)
		}
		return "", fmt.Errorf("%w: no candidates", ErrInvalidResponse)
	}

	candidate := resp.Candidates[0]
	if candidate == nil {
		return "", fmt.Errorf("%w: nil candidate", ErrInvalidResponse)
	}
	if candidate.FinishReason == genai.FinishReasonSafety {
		return "", ErrContentBlocked
	}
	if candidate.Content == nil {
		return "", fmt.Errorf("%w: empty content", ErrInvalidResponse)
	}

	var b strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil {
			b.WriteString(part.Text)
		}
	}

	text := strings.TrimSpace(b.String())
	if len(text) >= 2 && text[0] == '"' && text[len(text)-1] == '"' {
		text = strings.TrimSpace(text[1 : len(text)-1])
	}
	if text == "" {
		return "", fmt.Errorf("%w: no text in response", ErrInvalidResponse)
	}
	return text, nil
}

func waitContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
