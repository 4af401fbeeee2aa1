package evaluation

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spigell/interview-reporter/internal/ai"
	"github.com/spigell/interview-reporter/internal/logger"
	"github.com/spigell/interview-reporter/internal/transcript"
	"github.com/spigell/interview-reporter/internal/utils"
)

// Mode tells which path produced an Outcome.
type Mode string

const (
	ModeNormal   Mode = "normal"
	ModeFallback Mode = "fallback"
)

const defaultMaxLogLength = 200

// Outcome is the result of one evaluation run.
type Outcome struct {
	Schema   Schema
	Mode     Mode
	Provider string
	Model    string
	Raw      string
	// Cause is set in fallback mode.
	Cause error
}

// Evaluator turns a transcript into an evaluation schema using a generator.
type Evaluator struct {
	generator ai.Generator
	maxTokens int
	maxLogLen int
	logger    *zap.Logger
}

func NewEvaluator(generator ai.Generator, maxTokens, maxLogLength int, log *zap.Logger) *Evaluator {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Evaluator{
		generator: generator,
		maxTokens: ai.NormalizeMaxTokens(maxTokens),
		maxLogLen: maxLogLength,
		logger:    log,
	}
}

// Evaluate returns an error only for an invalid transcript.
// Generation and extraction problems produce a fallback Outcome instead.
func (e *Evaluator) Evaluate(ctx context.Context, t *transcript.Transcript) (*Outcome, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	outcome, err := e.evaluate(ctx, t)
	if err != nil {
		e.logger.Warn("evaluation fell back to defaults", zap.Error(err))
		return fallback(err), nil
	}

	logger.WithProvider(e.logger, outcome.Provider, outcome.Model).Info("evaluation completed",
		zap.Stringer("rating", outcome.Schema.Rating),
	)

	return outcome, nil
}

func (e *Evaluator) evaluate(ctx context.Context, t *transcript.Transcript) (outcome *Outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			outcome = nil
			err = fmt.Errorf("%w: extraction panicked: %v", ai.ErrGenerationFailure, r)
		}
	}()

	if e.generator == nil {
		return nil, fmt.Errorf("%w: generator is not configured", ai.ErrGenerationFailure)
	}

	prompt := BuildPrompt(t)

	e.logger.Debug("generate content request",
		zap.Int("turns", t.Len()),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, e.maxLogLen)),
	)

	generation, err := e.generator.Generate(ctx, prompt, e.maxTokens)
	if err != nil {
		return nil, ai.Failure("generator", err)
	}
	if generation == nil {
		return nil, fmt.Errorf("%w: generator returned no output", ai.ErrGenerationFailure)
	}

	e.logger.Debug("generate content response",
		zap.String("provider", generation.Provider),
		zap.Int("response_length", utf8.RuneCountInString(generation.Text)),
		zap.String("response_preview", utils.TruncateForLog(generation.Text, e.maxLogLen)),
	)

	return &Outcome{
		Schema:   Extract(generation.Text),
		Mode:     ModeNormal,
		Provider: generation.Provider,
		Model:    generation.Model,
		Raw:      generation.Text,
	}, nil
}

func fallback(cause error) *Outcome {
	if cause == nil {
		cause = errors.New("unknown failure")
	}

	return &Outcome{
		Schema: DefaultSchema(),
		Mode:   ModeFallback,
		Cause:  cause,
	}
}
