package render

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/spigell/interview-reporter/internal/report"
)

var (
	markdownEscaper = strings.NewReplacer(
		`\`, `\\`,
		"`", "\\`",
		`*`, `\*`,
		`_`, `\_`,
		`[`, `\[`,
		`]`, `\]`,
		`<`, `\<`,
		`>`, `\>`,
		`#`, `\#`,
		`|`, `\|`,
	)
	listMarker = regexp.MustCompile(`^([ \t]*)(\d+)([.)])`)
)

// Markdown writes documents as CommonMark with a GFM summary table.
type Markdown struct{}

func NewMarkdown() *Markdown {
	return &Markdown{}
}

func (m *Markdown) Format() string {
	return FormatMarkdown
}

func (m *Markdown) Render(w io.Writer, doc *report.Document) error {
	if doc == nil {
		return fmt.Errorf("markdown: document is nil")
	}
	if _, err := io.WriteString(w, markdownText(doc)); err != nil {
		return fmt.Errorf("markdown: write: %w", err)
	}
	return nil
}

func markdownText(doc *report.Document) string {
	var b strings.Builder
	for _, section := range doc.Sections() {
		switch section.Kind {
		case report.KindTitle:
			fmt.Fprintf(&b, "# %s\n\n", escapeInline(section.Title))
		case report.KindTable:
			fmt.Fprintf(&b, "## %s\n\n", escapeInline(section.Title))
			b.WriteString("| Field | Assessment |\n")
			b.WriteString("| --- | --- |\n")
			for _, row := range section.Rows {
				fmt.Fprintf(&b, "| %s | %s |\n", escapeInline(row.Label), escapeInline(row.Value))
			}
			b.WriteString("\n")
		case report.KindParagraph:
			fmt.Fprintf(&b, "## %s\n\n%s\n\n", escapeInline(section.Title), escapeBlock(section.Text))
		case report.KindTranscript:
			fmt.Fprintf(&b, "## %s\n\n", escapeInline(section.Title))
			for _, entry := range section.Entries {
				fmt.Fprintf(&b, "**%s:** %s\n\n", escapeInline(entry.Speaker), escapeBlock(entry.Content))
			}
		}
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}

// escapeInline flattens text onto one line, as required inside table cells and headings.
func escapeInline(s string) string {
	return markdownEscaper.Replace(strings.Join(strings.Fields(s), " "))
}

// escapeBlock keeps line breaks as hard breaks and stops lines from opening lists or headings.
func escapeBlock(s string) string {
	raw := strings.Split(strings.ReplaceAll(strings.TrimSpace(s), "\r\n", "\n"), "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		line = markdownEscaper.Replace(line)
		line = listMarker.ReplaceAllString(line, `$1$2\$3`)
		if strings.HasPrefix(line, "-") || strings.HasPrefix(line, "+") || strings.HasPrefix(line, "=") {
			line = `\` + line
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\\\n")
}
