package evaluation

import (
	_ "embed"
	"strings"

	"github.com/spigell/interview-reporter/internal/transcript"
)

//go:embed prompt.md
var promptTemplate string

// EchoBoundary closes every prompt. Text up to its last occurrence is treated as an echoed prompt.
const EchoBoundary = "### Evaluation"

var labelHints = map[Field]string{
	FieldSkills:     "<technical and soft skills the candidate demonstrated>",
	FieldExperience: "<relevant experience the candidate described>",
	FieldStrengths:  "<the candidate's main strengths>",
	FieldWeaknesses: "<the candidate's main weaknesses or gaps>",
	FieldJobFit:     "<how well the candidate fits the role>",
}

const ratingHint = "<a single integer from 1 to 10>"

// BuildPrompt renders the transcript and the fixed instruction block into one prompt.
func BuildPrompt(t *transcript.Transcript) string {
	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Transcript:\n{{TRANSCRIPT}}\n\n{{LABELS}}\n\n" + EchoBoundary + "\n"
	}

	prompt := strings.ReplaceAll(template, "{{TRANSCRIPT}}", renderTranscript(t))
	prompt = strings.ReplaceAll(prompt, "{{LABELS}}", renderLabels())
	return prompt
}

func renderTranscript(t *transcript.Transcript) string {
	if t == nil {
		return ""
	}

	lines := make([]string, 0, len(t.Turns))
	for _, turn := range t.Turns {
		lines = append(lines, turn.Speaker()+": "+turn.Content)
	}
	return strings.Join(lines, "\n")
}

func renderLabels() string {
	lines := make([]string, 0, len(fieldOrder)+1)
	for _, f := range fieldOrder {
		lines = append(lines, string(f)+": "+labelHints[f])
	}
	lines = append(lines, RatingLabel+": "+ratingHint)
	return strings.Join(lines, "\n")
}
