package render

import (
	"bytes"
	"fmt"
	"html"
	"io"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/spigell/interview-reporter/internal/report"
)

const htmlHead = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
body { font-family: Helvetica, Arial, sans-serif; max-width: 50em; margin: 2em auto; line-height: 1.4; }
table { border-collapse: collapse; width: 100%%; }
th, td { border: 1px solid #999; padding: 0.3em 0.6em; text-align: left; vertical-align: top; }
</style>
</head>
<body>
`

const htmlFoot = "</body>\n</html>\n"

// HTML converts the Markdown rendition of a document into a standalone page.
type HTML struct {
	md goldmark.Markdown
}

func NewHTML() *HTML {
	return &HTML{md: goldmark.New(goldmark.WithExtensions(extension.Table))}
}

func (h *HTML) Format() string {
	return FormatHTML
}

func (h *HTML) Render(w io.Writer, doc *report.Document) error {
	if doc == nil {
		return fmt.Errorf("html: document is nil")
	}

	var body bytes.Buffer
	if err := h.md.Convert([]byte(markdownText(doc)), &body); err != nil {
		return fmt.Errorf("html: convert: %w", err)
	}

	var out bytes.Buffer
	fmt.Fprintf(&out, htmlHead, html.EscapeString(doc.Metadata().Title))
	out.Write(body.Bytes())
	out.WriteString(htmlFoot)

	if _, err := w.Write(out.Bytes()); err != nil {
		return fmt.Errorf("html: write: %w", err)
	}
	return nil
}
