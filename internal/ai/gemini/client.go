package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/spigell/interview-reporter/internal/ai"
	"github.com/spigell/interview-reporter/internal/utils"
)

const (
	ProviderName = "gemini"

	defaultModel      = "gemini-2.5-flash"
	defaultMaxRetries = 2
	retryBaseDelay    = 2 * time.Second
	// Longer server-requested delays are not retried.
	maxQuotaDelay = 10 * time.Second
)

var (
	sleep = func(ctx context.Context, d time.Duration) error {
		return utils.WaitFor(ctx, d)
	}

	retryAfterPattern = regexp.MustCompile(`(?i)retry (?:after|in) (\d+(?:\.\d+)?)\s*s`)
)

type modelClient interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Generator wraps the Google GenAI client with the fixed report decoding configuration.
type Generator struct {
	models     modelClient
	model      string
	maxRetries int
	decoding   ai.Decoding
	logger     *zap.Logger
}

// NewGenerator creates a new Generator configured for the Gemini API backend.
func NewGenerator(ctx context.Context, apiKey, model string, maxRetries int, logger *zap.Logger) (*Generator, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return newGenerator(client.Models, model, maxRetries, logger), nil
}

func newGenerator(models modelClient, model string, maxRetries int, logger *zap.Logger) *Generator {
	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Generator{
		models:     models,
		model:      model,
		maxRetries: maxRetries,
		decoding:   ai.DefaultDecoding(),
		logger:     logger,
	}
}

// Generate sends the prompt to Gemini and returns the decoded text.
// Every failure is reported as ai.ErrGenerationFailure.
func (g *Generator) Generate(ctx context.Context, prompt string, maxTokens int) (*ai.Generation, error) {
	text, err := g.generate(ctx, prompt, maxTokens)
	if err != nil {
		return nil, ai.Failure(ProviderName, err)
	}

	return &ai.Generation{Text: text, Provider: ProviderName, Model: g.model}, nil
}

func (g *Generator) generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if g == nil || g.models == nil {
		return "", errors.New("gemini generator is not initialized")
	}

	if strings.TrimSpace(prompt) == "" {
		return "", errors.New("prompt must not be empty")
	}

	config := g.config(maxTokens)

	var lastErr error
	for attempt := 1; attempt <= g.maxRetries; attempt++ {
		resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(prompt), config)
		if err == nil {
			return responseText(resp)
		}

		lastErr = fmt.Errorf("generate content: %w", err)

		delay, retry := retryDelay(err, attempt)
		if !retry || attempt == g.maxRetries {
			break
		}

		g.logger.Debug("retrying gemini request",
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(err),
		)

		if err := sleep(ctx, delay); err != nil {
			return "", err
		}
	}

	return "", lastErr
}

func (g *Generator) config(maxTokens int) *genai.GenerateContentConfig {
	d := g.decoding
	return &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(float32(d.Temperature)),
		TopP:             genai.Ptr(float32(d.TopP)),
		CandidateCount:   int32(d.Candidates),
		FrequencyPenalty: genai.Ptr(float32(d.FrequencyPenalty)),
		StopSequences:    d.StopSequences,
		Seed:             genai.Ptr(int32(d.Seed)),
		MaxOutputTokens:  int32(ai.NormalizeMaxTokens(maxTokens)),
	}
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", errors.New("gemini api returned no response")
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil {
			continue
		}
		switch candidate.FinishReason {
		case genai.FinishReasonSafety, genai.FinishReasonRecitation, genai.FinishReasonBlocklist, genai.FinishReasonProhibitedContent, genai.FinishReasonSPII:
			return "", fmt.Errorf("content blocked (%s)", candidate.FinishReason)
		}
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
		// Only the first candidate is used.
		if builder.Len() > 0 {
			break
		}
	}

	output := ai.StripControlTokens(builder.String())
	if output == "" {
		return "", errors.New("gemini api returned empty response")
	}

	return output, nil
}

// retryDelay reports whether err is transient and how long to wait before the next attempt.
func retryDelay(err error, attempt int) (time.Duration, bool) {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		var apiErrPtr *genai.APIError
		if !errors.As(err, &apiErrPtr) || apiErrPtr == nil {
			return 0, false
		}
		apiErr = *apiErrPtr
	}

	if apiErr.Code != http.StatusTooManyRequests && apiErr.Code < http.StatusInternalServerError {
		return 0, false
	}

	delay := time.Duration(attempt) * retryBaseDelay
	if requested, ok := requestedDelay(apiErr.Message); ok {
		if requested > maxQuotaDelay {
			return 0, false
		}
		delay = requested
	}

	return delay, true
}

func requestedDelay(message string) (time.Duration, bool) {
	match := retryAfterPattern.FindStringSubmatch(message)
	if match == nil {
		return 0, false
	}

	seconds, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return 0, false
	}

	return time.Duration(seconds * float64(time.Second)), true
}
