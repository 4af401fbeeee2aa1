// Package render lays out assembled reports as PDF, Markdown or HTML files.
package render

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spigell/interview-reporter/internal/report"
)

const (
	FormatPDF      = "pdf"
	FormatMarkdown = "markdown"
	FormatHTML     = "html"
)

// New returns the renderer for format. An empty format is derived from the output path extension.
// wrapWidth only affects PDF output.
func New(format, path string, wrapWidth int) (report.Renderer, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = FormatFromPath(path)
	}

	switch format {
	case FormatPDF:
		return NewPDF(wrapWidth), nil
	case FormatMarkdown, "md":
		return NewMarkdown(), nil
	case FormatHTML, "htm":
		return NewHTML(), nil
	default:
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}
}

// FormatFromPath maps a file extension to a format, defaulting to PDF.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return FormatMarkdown
	case ".html", ".htm":
		return FormatHTML
	default:
		return FormatPDF
	}
}
