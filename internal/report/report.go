package report

import (
	"fmt"
	"strings"

	"github.com/spigell/interview-reporter/internal/evaluation"
	"github.com/spigell/interview-reporter/internal/transcript"
)

const (
	DefaultTitle = "Interview Report"

	SummaryTitle         = "Evaluation Summary"
	RecommendationsTitle = "Recommendations"
	TranscriptTitle      = "Transcript"
	RatingRowLabel       = "Candidate Rating"

	DefaultRecommendations = "Use this evaluation as one input alongside structured scoring and " +
		"feedback from other interviewers. Follow up on the listed weaknesses in the next round, " +
		"and verify claimed skills and experience with a practical exercise or reference check."
)

// SectionKind identifies how a section is laid out.
type SectionKind string

const (
	KindTitle      SectionKind = "title"
	KindTable      SectionKind = "table"
	KindParagraph  SectionKind = "paragraph"
	KindTranscript SectionKind = "transcript"
)

// Row is one line of the summary table.
type Row struct {
	Label string
	Value string
}

// Entry is one transcript turn in the breakdown.
type Entry struct {
	Speaker string
	Content string
}

// Section is a single rendering unit.
type Section struct {
	Kind    SectionKind
	Title   string
	Text    string
	Rows    []Row
	Entries []Entry
}

// Metadata describes the document as a whole.
type Metadata struct {
	Title   string
	Subject string
	RunID   string
}

// Document is an assembled report. It is immutable once built.
type Document struct {
	meta     Metadata
	sections []Section
}

// Options customize static report content.
type Options struct {
	Title           string
	Recommendations string
	RunID           string
}

// Assemble builds the report sections in fixed order:
// title, summary table, recommendations, transcript breakdown.
func Assemble(t *transcript.Transcript, schema evaluation.Schema, opts Options) *Document {
	title := strings.TrimSpace(opts.Title)
	if title == "" {
		title = DefaultTitle
	}

	recommendations := strings.TrimSpace(opts.Recommendations)
	if recommendations == "" {
		recommendations = DefaultRecommendations
	}

	fields := evaluation.Fields()
	rows := make([]Row, 0, len(fields)+1)
	for _, f := range fields {
		rows = append(rows, Row{Label: string(f), Value: schema.Value(f)})
	}
	rows = append(rows, Row{Label: RatingRowLabel, Value: FormatRating(schema.Rating)})

	var entries []Entry
	if t != nil {
		entries = make([]Entry, 0, len(t.Turns))
		for _, turn := range t.Turns {
			entries = append(entries, Entry{Speaker: turn.Speaker(), Content: turn.Content})
		}
	}

	subject := "Candidate evaluation"
	if opts.RunID != "" {
		subject = fmt.Sprintf("%s (run %s)", subject, opts.RunID)
	}

	return &Document{
		meta: Metadata{Title: title, Subject: subject, RunID: opts.RunID},
		sections: []Section{
			{Kind: KindTitle, Title: title},
			{Kind: KindTable, Title: SummaryTitle, Rows: rows},
			{Kind: KindParagraph, Title: RecommendationsTitle, Text: recommendations},
			{Kind: KindTranscript, Title: TranscriptTitle, Entries: entries},
		},
	}
}

// FormatRating renders a rating as "<rating> / 10".
func FormatRating(r evaluation.Rating) string {
	return fmt.Sprintf("%s / %d", r, evaluation.MaxRating)
}

func (d *Document) Metadata() Metadata {
	return d.meta
}

// Sections returns a copy of the document sections.
func (d *Document) Sections() []Section {
	out := make([]Section, len(d.sections))
	for i, s := range d.sections {
		s.Rows = append([]Row(nil), s.Rows...)
		s.Entries = append([]Entry(nil), s.Entries...)
		out[i] = s
	}
	return out
}

// Section returns the first section of the given kind.
func (d *Document) Section(kind SectionKind) (Section, bool) {
	for _, s := range d.Sections() {
		if s.Kind == kind {
			return s, true
		}
	}
	return Section{}, false
}
