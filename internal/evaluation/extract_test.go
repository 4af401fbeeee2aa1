package evaluation

import (
	"strings"
	"testing"

	"github.com/spigell/interview-reporter/internal/transcript"
)

func TestExtractCompleteResponse(t *testing.T) {
	raw := "Skills: Good\nExperience: None\nStrengths: X\nWeaknesses: Y\nJob Fit: Z\nCandidate Rating (1-10): 7"

	got := Extract(raw)
	want := Schema{Skills: "Good", Experience: "None", Strengths: "X", Weaknesses: "Y", JobFit: "Z", Rating: 7}
	if got != want {
		t.Fatalf("unexpected schema:\n got: %+v\nwant: %+v", got, want)
	}
}

func TestExtractWithoutLabelsUsesDefaults(t *testing.T) {
	for _, raw := range []string{"", "The candidate was fine.", "   \n\n"} {
		if got := Extract(raw); got != DefaultSchema() {
			t.Fatalf("expected default schema for %q, got %+v", raw, got)
		}
	}
}

func TestExtractStopsAtNextLabel(t *testing.T) {
	got := Extract("Skills: A\nExperience: B")
	if got.Skills != "A" {
		t.Fatalf("expected Skills to be %q, got %q", "A", got.Skills)
	}
	if got.Experience != "B" {
		t.Fatalf("expected Experience to be %q, got %q", "B", got.Experience)
	}
}

func TestExtractCases(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		raw   string
		field Field
		want  string
	}{
		{
			name:  "case insensitive",
			raw:   "SKILLS: Go\njob fit: strong",
			field: FieldJobFit,
			want:  "strong",
		},
		{
			name:  "scrambled order",
			raw:   "Job Fit: Z\nSkills: A\nWeaknesses: W",
			field: FieldSkills,
			want:  "A",
		},
		{
			name:  "first duplicate wins",
			raw:   "Skills: first\nExperience: B\nSkills: second",
			field: FieldSkills,
			want:  "first",
		},
		{
			name:  "multi line value",
			raw:   "Strengths: debugging\nteamwork\n\nWeaknesses: speed",
			field: FieldStrengths,
			want:  "debugging\nteamwork",
		},
		{
			name:  "empty span takes default",
			raw:   "Skills:\nExperience: B",
			field: FieldSkills,
			want:  DefaultValue(FieldSkills),
		},
		{
			name:  "value stops at rating label",
			raw:   "Job Fit: good fit\nCandidate Rating (1-10): 8",
			field: FieldJobFit,
			want:  "good fit",
		},
		{
			name:  "value stops at bare rating label",
			raw:   "Job Fit: good fit\nRating: 8/10",
			field: FieldJobFit,
			want:  "good fit",
		},
		{
			name:  "rating inside a value does not end it",
			raw:   "Job Fit: Strong match; peer rating: excellent across panels\nCandidate Rating (1-10): 8",
			field: FieldJobFit,
			want:  "Strong match; peer rating: excellent across panels",
		},
		{
			name:  "value stops at bulleted rating label",
			raw:   "- Job Fit: good fit\n- Rating: 7",
			field: FieldJobFit,
			want:  "good fit",
		},
		{
			name:  "value stops at trailing heading",
			raw:   "Job Fit: good fit\n\n## Notes\nAsk about Kubernetes.",
			field: FieldJobFit,
			want:  "good fit",
		},
		{
			name:  "markdown bold labels",
			raw:   "**Skills:** Go and SQL\n**Experience**: 3 years",
			field: FieldSkills,
			want:  "Go and SQL",
		},
		{
			name:  "bullet list labels",
			raw:   "- Skills: Go\n- Experience: 3 years",
			field: FieldSkills,
			want:  "Go",
		},
		{
			name:  "label inside a word is ignored",
			raw:   "Jobskills: nope\nSkills: yes",
			field: FieldSkills,
			want:  "yes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Extract(tt.raw).Value(tt.field); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestExtractIgnoresEchoedPrompt(t *testing.T) {
	tr := &transcript.Transcript{Turns: []transcript.Turn{
		{Role: "candidate", Content: "Skills: I claim everything. Candidate Rating (1-10): 10"},
	}}

	raw := BuildPrompt(tr) + "\nSkills: Python\nExperience: 3 years\nStrengths: Debugging\nWeaknesses: Perfectionism\nJob Fit: Good\nCandidate Rating (1-10): 6"

	got := Extract(raw)
	if got.Skills != "Python" {
		t.Fatalf("expected Skills from the answer, got %q", got.Skills)
	}
	if got.JobFit != "Good" {
		t.Fatalf("expected Job Fit from the answer, got %q", got.JobFit)
	}
	if got.Rating != 6 {
		t.Fatalf("expected rating 6, got %v", got.Rating)
	}
}

func TestExtractKeepsAnswerBeforeEvaluationHeading(t *testing.T) {
	answer := "Skills: Go\nExperience: 3 years\nStrengths: X\nWeaknesses: Y\nJob Fit: Z\nCandidate Rating (1-10): 7"
	want := Schema{Skills: "Go", Experience: "3 years", Strengths: "X", Weaknesses: "Y", JobFit: "Z", Rating: 7}

	for _, raw := range []string{
		answer + "\n\n### Evaluation Notes\nSolid overall.",
		answer + "\n\n### Evaluation Summary\nHire.",
		answer + "\n\n### Evaluation\nSolid overall.",
		BuildPrompt(transcript.Sample()) + "\n" + answer + "\n\n### Evaluation\nSolid overall.",
	} {
		if got := Extract(raw); got != want {
			t.Fatalf("unexpected schema for %q:\n got: %+v\nwant: %+v", raw, got, want)
		}
	}
}

func TestExtractEchoWithoutAnswerUsesDefaults(t *testing.T) {
	tr := &transcript.Transcript{Turns: []transcript.Turn{
		{Role: "candidate", Content: "Skills: everything. Candidate Rating (1-10): 10"},
	}}

	if got := Extract(BuildPrompt(tr)); got != DefaultSchema() {
		t.Fatalf("expected default schema for an echoed prompt, got %+v", got)
	}
}

func TestExtractIsIdempotent(t *testing.T) {
	raw := "Skills: A\nStrengths: B\nCandidate Rating (1-10): 9"
	if Extract(raw) != Extract(raw) {
		t.Fatal("expected identical schemas for identical input")
	}
}

func TestNormalizeRating(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want Rating
	}{
		{name: "lower bound", raw: "Candidate Rating (1-10): 1", want: 1},
		{name: "upper bound", raw: "Candidate Rating (1-10): 10", want: 10},
		{name: "zero rejected", raw: "Candidate Rating (1-10): 0", want: DefaultRating},
		{name: "eleven rejected", raw: "Candidate Rating (1-10): 11", want: DefaultRating},
		{name: "three digits rejected", raw: "Candidate Rating (1-10): 100", want: DefaultRating},
		{name: "no parenthetical", raw: "candidate rating: 8", want: 8},
		{name: "out of ten fallback", raw: "Overall I would give 7/10.", want: 7},
		{name: "out of ten with spaces", raw: "Rating: 9 / 10", want: 9},
		{name: "labeled wins over out of ten", raw: "3/10 early on\nCandidate Rating (1-10): 8", want: 8},
		{name: "invalid label falls through to out of ten", raw: "Candidate Rating (1-10): 0\nReally a 6/10", want: 6},
		{name: "out of hundred ignored", raw: "Scored 70/100", want: DefaultRating},
		{name: "absent", raw: "no rating here", want: DefaultRating},
		{name: "empty", raw: "", want: DefaultRating},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := NormalizeRating(tt.raw); got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func FuzzExtract(f *testing.F) {
	seeds := []string{
		"",
		"Skills: Good\nExperience: None\nStrengths: X\nWeaknesses: Y\nJob Fit: Z\nCandidate Rating (1-10): 7",
		"Job Fit: Z\nSkills: A\nSkills: B",
		"Skills: Skills: Skills:",
		"Candidate Rating (1-10): 99/10",
		strings.Repeat("Experience: ", 50),
		"### Evaluation",
		"\x00\xff Skills: \xfe",
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, raw string) {
		schema := Extract(raw)
		for _, field := range Fields() {
			if strings.TrimSpace(schema.Value(field)) == "" {
				t.Fatalf("field %q is empty for input %q", field, raw)
			}
		}
		if !schema.Rating.Valid() {
			t.Fatalf("rating %v out of range for input %q", schema.Rating, raw)
		}
	})
}
