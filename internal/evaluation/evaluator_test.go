package evaluation

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/interview-reporter/internal/ai"
	"github.com/spigell/interview-reporter/internal/transcript"
)

type stubGenerator struct {
	response   string
	err        error
	panicWith  any
	lastPrompt string
	lastTokens int
	calls      int
}

func (s *stubGenerator) Generate(_ context.Context, prompt string, maxTokens int) (*ai.Generation, error) {
	s.calls++
	s.lastPrompt = prompt
	s.lastTokens = maxTokens
	if s.panicWith != nil {
		panic(s.panicWith)
	}
	if s.err != nil {
		return nil, s.err
	}
	return &ai.Generation{Text: s.response, Provider: "stub", Model: "stub-model"}, nil
}

func oneTurn() *transcript.Transcript {
	return &transcript.Transcript{Turns: []transcript.Turn{{Role: "a", Content: "hi"}}}
}

func TestEvaluatorNormalPath(t *testing.T) {
	stub := &stubGenerator{response: "Skills: Good\nExperience: None\nStrengths: X\nWeaknesses: Y\nJob Fit: Z\nCandidate Rating (1-10): 7"}
	evaluator := NewEvaluator(stub, 0, 0, zap.NewNop())

	outcome, err := evaluator.Evaluate(context.Background(), oneTurn())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := Schema{Skills: "Good", Experience: "None", Strengths: "X", Weaknesses: "Y", JobFit: "Z", Rating: 7}
	if outcome.Schema != want {
		t.Fatalf("unexpected schema: %+v", outcome.Schema)
	}
	if outcome.Mode != ModeNormal || outcome.Provider != "stub" || outcome.Cause != nil {
		t.Fatalf("unexpected outcome metadata: %+v", outcome)
	}
	if stub.lastTokens != ai.DefaultMaxTokens {
		t.Fatalf("expected default token budget, got %d", stub.lastTokens)
	}
	if !strings.Contains(stub.lastPrompt, "A: hi") {
		t.Fatalf("expected transcript in prompt: %s", stub.lastPrompt)
	}
}

func TestEvaluatorFallsBackOnGenerationFailure(t *testing.T) {
	core, observed := observer.New(zapcore.WarnLevel)
	stub := &stubGenerator{err: errors.New("out of memory")}
	evaluator := NewEvaluator(stub, 256, 0, zap.New(core))

	outcome, err := evaluator.Evaluate(context.Background(), oneTurn())
	if err != nil {
		t.Fatalf("generation failures must not surface: %v", err)
	}

	if outcome.Mode != ModeFallback {
		t.Fatalf("expected fallback mode, got %s", outcome.Mode)
	}
	if outcome.Schema != DefaultSchema() {
		t.Fatalf("expected default schema, got %+v", outcome.Schema)
	}
	if !errors.Is(outcome.Cause, ai.ErrGenerationFailure) {
		t.Fatalf("expected generation failure cause, got %v", outcome.Cause)
	}
	if stub.lastTokens != 256 {
		t.Fatalf("expected configured token budget, got %d", stub.lastTokens)
	}
	if observed.FilterMessage("evaluation fell back to defaults").Len() != 1 {
		t.Fatalf("expected a fallback warning")
	}
}

func TestEvaluatorFallsBackOnPanic(t *testing.T) {
	stub := &stubGenerator{panicWith: "tokenizer exploded"}
	evaluator := NewEvaluator(stub, 0, 0, nil)

	outcome, err := evaluator.Evaluate(context.Background(), oneTurn())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Mode != ModeFallback || outcome.Schema != DefaultSchema() {
		t.Fatalf("expected fallback outcome, got %+v", outcome)
	}
}

func TestEvaluatorFallsBackWithoutGenerator(t *testing.T) {
	outcome, err := NewEvaluator(nil, 0, 0, nil).Evaluate(context.Background(), oneTurn())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Mode != ModeFallback {
		t.Fatalf("expected fallback mode, got %s", outcome.Mode)
	}
}

func TestEvaluatorRejectsInvalidTranscriptBeforeGenerating(t *testing.T) {
	stub := &stubGenerator{response: "Skills: A"}
	evaluator := NewEvaluator(stub, 0, 0, nil)

	bad := &transcript.Transcript{Turns: []transcript.Turn{{Role: "a", Content: "hi"}, {Role: "", Content: "x"}}}

	outcome, err := evaluator.Evaluate(context.Background(), bad)
	if !errors.Is(err, transcript.ErrInvalidTranscript) {
		t.Fatalf("expected invalid transcript error, got %v", err)
	}
	if outcome != nil {
		t.Fatalf("expected no outcome, got %+v", outcome)
	}
	if stub.calls != 0 {
		t.Fatalf("expected no generation calls, got %d", stub.calls)
	}
}

func TestEvaluatorSchemaIsAlwaysComplete(t *testing.T) {
	responses := []string{
		"",
		"nothing useful",
		"Weaknesses: none\nSkills: many",
		"Skills: a\nSkills: b\nSkills: c",
		"Candidate Rating (1-10): 42",
	}

	for _, response := range responses {
		evaluator := NewEvaluator(&stubGenerator{response: response}, 0, 0, nil)
		outcome, err := evaluator.Evaluate(context.Background(), oneTurn())
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", response, err)
		}
		for _, field := range Fields() {
			if outcome.Schema.Value(field) == "" {
				t.Fatalf("field %q empty for response %q", field, response)
			}
		}
		if !outcome.Schema.Rating.Valid() {
			t.Fatalf("rating out of range for response %q", response)
		}
	}
}
