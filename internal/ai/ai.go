package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrGenerationFailure marks any failure of the text-generation capability.
var ErrGenerationFailure = errors.New("generation failure")

// DefaultMaxTokens is the token budget used when none is configured.
const DefaultMaxTokens = 512

// Generation is the decoded model output.
type Generation struct {
	Text     string
	Provider string
	Model    string
}

// Generator is the text-generation capability consumed by the evaluation pipeline.
type Generator interface {
	Generate(ctx context.Context, prompt string, maxTokens int) (*Generation, error)
}

// Decoding is the fixed decoding configuration applied by every provider.
type Decoding struct {
	Temperature      float64
	TopP             float64
	Candidates       int
	FrequencyPenalty float64
	StopSequences    []string
	Seed             int
}

// DefaultDecoding returns the decoding configuration used for reports.
func DefaultDecoding() Decoding {
	return Decoding{
		Temperature:      0.7,
		TopP:             0.9,
		Candidates:       1,
		FrequencyPenalty: 0.3,
		StopSequences:    []string{"\n\n\n"},
		Seed:             42,
	}
}

// Failure wraps err so that errors.Is(err, ErrGenerationFailure) holds.
func Failure(provider string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrGenerationFailure) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", ErrGenerationFailure, provider, err)
}

var controlTokens = []string{
	"<|endoftext|>",
	"<|im_start|>",
	"<|im_end|>",
	"<|eot_id|>",
	"<s>",
	"</s>",
	"<pad>",
	"<eos>",
	"<bos>",
}

// StripControlTokens removes model control tokens from decoded text.
func StripControlTokens(text string) string {
	for _, token := range controlTokens {
		text = strings.ReplaceAll(text, token, "")
	}
	return strings.TrimSpace(text)
}

// NormalizeMaxTokens falls back to DefaultMaxTokens for non-positive budgets.
func NormalizeMaxTokens(maxTokens int) int {
	if maxTokens <= 0 {
		return DefaultMaxTokens
	}
	return maxTokens
}
