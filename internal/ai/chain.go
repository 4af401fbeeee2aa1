package ai

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Factory builds a named generator on demand.
type Factory struct {
	Name string
	New  func(ctx context.Context) (Generator, error)
}

// Chain tries provider factories in priority order. The first success wins.
type Chain struct {
	factories []Factory
	logger    *zap.Logger
}

// NewChain creates a provider chain. A nil logger is replaced with a no-op logger.
func NewChain(logger *zap.Logger, factories ...Factory) *Chain {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Chain{factories: factories, logger: logger}
}

// Names returns the provider names in priority order.
func (c *Chain) Names() []string {
	names := make([]string, 0, len(c.factories))
	for _, f := range c.factories {
		names = append(names, f.Name)
	}
	return names
}

// Generate returns the output of the first provider that succeeds.
// All failures are joined into a single ErrGenerationFailure.
func (c *Chain) Generate(ctx context.Context, prompt string, maxTokens int) (*Generation, error) {
	if len(c.factories) == 0 {
		return nil, fmt.Errorf("%w: no providers configured", ErrGenerationFailure)
	}

	var errs []error
	for _, factory := range c.factories {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		generation, err := c.try(ctx, factory, prompt, maxTokens)
		if err == nil {
			return generation, nil
		}

		c.logger.Warn("generation provider failed",
			zap.String("provider", factory.Name),
			zap.Error(err),
		)
		errs = append(errs, fmt.Errorf("%s: %w", factory.Name, err))
	}

	return nil, fmt.Errorf("%w: all providers failed: %w", ErrGenerationFailure, errors.Join(errs...))
}

func (c *Chain) try(ctx context.Context, factory Factory, prompt string, maxTokens int) (*Generation, error) {
	if factory.New == nil {
		return nil, errors.New("provider factory is not defined")
	}

	generator, err := factory.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("create provider: %w", err)
	}

	generation, err := generator.Generate(ctx, prompt, maxTokens)
	if err != nil {
		return nil, err
	}
	if generation == nil {
		return nil, errors.New("provider returned no output")
	}
	if generation.Provider == "" {
		generation.Provider = factory.Name
	}

	return generation, nil
}
