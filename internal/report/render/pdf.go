package render

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
	"github.com/mattn/go-runewidth"

	"github.com/spigell/interview-reporter/internal/report"
)

const (
	pageMargin    = 50.0
	lineHeight    = 15.0
	labelColWidth = 130.0
	cellPadding   = 4.0

	titleSize   = 16.0
	headingSize = 12.0
	bodySize    = 11.0
	fontFamily  = "Helvetica"
	creator     = "interview-reporter"
)

// PDF lays out documents on Letter pages with Helvetica text.
type PDF struct {
	wrapWidth int
	compress  bool
}

func NewPDF(wrapWidth int) *PDF {
	if wrapWidth <= 0 {
		wrapWidth = DefaultWrapWidth
	}
	return &PDF{wrapWidth: wrapWidth, compress: true}
}

func (p *PDF) Format() string {
	return FormatPDF
}

func (p *PDF) Render(w io.Writer, doc *report.Document) error {
	if doc == nil {
		return fmt.Errorf("pdf: document is nil")
	}

	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.SetCompression(p.compress)

	meta := doc.Metadata()
	pdf.SetTitle(meta.Title, true)
	pdf.SetSubject(meta.Subject, true)
	pdf.SetCreator(creator, true)

	l := &layout{
		pdf:       pdf,
		tr:        pdf.UnicodeTranslatorFromDescriptor(""),
		wrapWidth: p.wrapWidth,
	}
	pageWidth, _ := pdf.GetPageSize()
	l.contentWidth = pageWidth - 2*pageMargin

	pdf.AddPage()
	for _, section := range doc.Sections() {
		switch section.Kind {
		case report.KindTitle:
			l.title(section.Title)
		case report.KindTable:
			l.table(section)
		case report.KindParagraph:
			l.paragraph(section)
		case report.KindTranscript:
			l.transcript(section)
		}
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("pdf: layout: %w", err)
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("pdf: output: %w", err)
	}
	return nil
}

type layout struct {
	pdf          *fpdf.Fpdf
	tr           func(string) string
	wrapWidth    int
	contentWidth float64
}

func (l *layout) title(text string) {
	l.pdf.SetFont(fontFamily, "B", titleSize)
	l.pdf.CellFormat(l.contentWidth, lineHeight*1.5, l.tr(text), "", 1, "C", false, 0, "")
	l.pdf.Ln(lineHeight)
}

func (l *layout) heading(text string) {
	l.pdf.SetFont(fontFamily, "B", headingSize)
	l.pdf.CellFormat(l.contentWidth, lineHeight, l.tr(text), "", 1, "L", false, 0, "")
	l.pdf.Ln(lineHeight / 3)
}

// wrap splits text into lines that fit maxWidth points in the current font
// and stay within the configured column limit.
func (l *layout) wrap(text string, maxWidth float64) []string {
	return wrapFunc(text, func(line string) bool {
		return l.pdf.GetStringWidth(l.tr(line)) <= maxWidth && runewidth.StringWidth(line) <= l.wrapWidth
	})
}

func (l *layout) lines(lines []string) {
	for _, line := range lines {
		l.pdf.CellFormat(l.contentWidth, lineHeight, l.tr(line), "", 1, "L", false, 0, "")
	}
}

// table draws two columns; rows that would cross the bottom margin start on a new page.
func (l *layout) table(section report.Section) {
	l.heading(section.Title)

	valueWidth := l.contentWidth - labelColWidth
	_, pageHeight := l.pdf.GetPageSize()
	left, _, _, bottom := l.pdf.GetMargins()

	for _, row := range section.Rows {
		l.pdf.SetFont(fontFamily, "", bodySize)
		values := l.wrap(row.Value, valueWidth-2*cellPadding)
		height := float64(len(values))*lineHeight + cellPadding

		if l.pdf.GetY()+height > pageHeight-bottom {
			l.pdf.AddPage()
		}
		x, y := left, l.pdf.GetY()

		l.pdf.SetFont(fontFamily, "B", bodySize)
		l.pdf.Rect(x, y, labelColWidth, height, "D")
		l.pdf.SetXY(x+cellPadding, y+cellPadding/2)
		l.pdf.CellFormat(labelColWidth-2*cellPadding, lineHeight, l.tr(row.Label), "", 0, "L", false, 0, "")

		l.pdf.SetFont(fontFamily, "", bodySize)
		l.pdf.Rect(x+labelColWidth, y, valueWidth, height, "D")
		for i, value := range values {
			l.pdf.SetXY(x+labelColWidth+cellPadding, y+cellPadding/2+float64(i)*lineHeight)
			l.pdf.CellFormat(valueWidth-2*cellPadding, lineHeight, l.tr(value), "", 0, "L", false, 0, "")
		}

		l.pdf.SetXY(x, y+height)
	}
	l.pdf.Ln(lineHeight)
}

func (l *layout) paragraph(section report.Section) {
	l.heading(section.Title)
	l.pdf.SetFont(fontFamily, "", bodySize)
	l.lines(l.wrap(section.Text, l.contentWidth))
	l.pdf.Ln(lineHeight)
}

func (l *layout) transcript(section report.Section) {
	l.heading(section.Title)
	for _, entry := range section.Entries {
		l.pdf.SetFont(fontFamily, "B", bodySize)
		l.pdf.CellFormat(l.contentWidth, lineHeight, l.tr(entry.Speaker+":"), "", 1, "L", false, 0, "")
		l.pdf.SetFont(fontFamily, "", bodySize)
		l.lines(l.wrap(entry.Content, l.contentWidth))
		l.pdf.Ln(lineHeight / 2)
	}
}
