// Package openai provides a generation provider backed by the OpenAI chat completions API.
package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/shared"

	"github.com/spigell/interview-reporter/internal/ai"
)

const (
	ProviderName = "openai"

	defaultModel = "gpt-4o-mini"
)

type completer interface {
	New(ctx context.Context, body oai.ChatCompletionNewParams, opts ...option.RequestOption) (*oai.ChatCompletion, error)
}

// Generator implements ai.Generator on top of OpenAI chat completions.
type Generator struct {
	completions completer
	model       string
	decoding    ai.Decoding
}

// NewGenerator constructs a Generator. baseURL is optional and allows OpenAI-compatible servers.
func NewGenerator(apiKey, model, baseURL string) (*Generator, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("openai api key is required")
	}

	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL = strings.TrimSpace(baseURL); baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	client := oai.NewClient(opts...)
	return newGenerator(&client.Chat.Completions, model), nil
}

func newGenerator(completions completer, model string) *Generator {
	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}

	return &Generator{
		completions: completions,
		model:       model,
		decoding:    ai.DefaultDecoding(),
	}
}

// Generate implements ai.Generator.
func (g *Generator) Generate(ctx context.Context, prompt string, maxTokens int) (*ai.Generation, error) {
	if g == nil || g.completions == nil {
		return nil, ai.Failure(ProviderName, errors.New("openai generator is not initialized"))
	}
	if strings.TrimSpace(prompt) == "" {
		return nil, ai.Failure(ProviderName, errors.New("prompt must not be empty"))
	}

	resp, err := g.completions.New(ctx, g.buildParams(prompt, maxTokens))
	if err != nil {
		return nil, ai.Failure(ProviderName, fmt.Errorf("chat completion: %w", err))
	}
	if resp == nil || len(resp.Choices) == 0 {
		return nil, ai.Failure(ProviderName, errors.New("empty choices in response"))
	}

	text := ai.StripControlTokens(resp.Choices[0].Message.Content)
	if text == "" {
		return nil, ai.Failure(ProviderName, errors.New("empty completion"))
	}

	return &ai.Generation{Text: text, Provider: ProviderName, Model: g.model}, nil
}

func (g *Generator) buildParams(prompt string, maxTokens int) oai.ChatCompletionNewParams {
	d := g.decoding
	params := oai.ChatCompletionNewParams{
		Model:               shared.ChatModel(g.model),
		Messages:            []oai.ChatCompletionMessageParamUnion{oai.UserMessage(prompt)},
		Temperature:         param.NewOpt(d.Temperature),
		TopP:                param.NewOpt(d.TopP),
		N:                   param.NewOpt(int64(d.Candidates)),
		FrequencyPenalty:    param.NewOpt(d.FrequencyPenalty),
		Seed:                param.NewOpt(int64(d.Seed)),
		MaxCompletionTokens: param.NewOpt(int64(ai.NormalizeMaxTokens(maxTokens))),
	}
	if len(d.StopSequences) > 0 {
		params.Stop = oai.ChatCompletionNewParamsStopUnion{OfStringArray: d.StopSequences}
	}

	return params
}
