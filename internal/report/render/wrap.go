package render

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// DefaultWrapWidth is the paragraph width in display columns.
const DefaultWrapWidth = 100

// Wrap breaks text into lines no wider than width display columns.
// Existing line breaks are kept; words longer than width are split.
func Wrap(text string, width int) []string {
	if width <= 0 {
		width = DefaultWrapWidth
	}

	return wrapFunc(text, func(line string) bool {
		return runewidth.StringWidth(line) <= width
	})
}

// wrapFunc breaks text into the longest lines accepted by fits.
// A single rune is always accepted so that wrapping terminates.
func wrapFunc(text string, fits func(string) bool) []string {
	var lines []string
	for _, paragraph := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		lines = append(lines, wrapParagraph(paragraph, fits)...)
	}
	return lines
}

func wrapParagraph(paragraph string, fits func(string) bool) []string {
	words := strings.Fields(paragraph)
	if len(words) == 0 {
		return []string{""}
	}

	var (
		lines   []string
		current string
	)

	for _, word := range words {
		if current != "" {
			if candidate := current + " " + word; fits(candidate) {
				current = candidate
				continue
			}
			lines = append(lines, current)
			current = ""
		}

		if fits(word) {
			current = word
			continue
		}

		chunks := splitWord(word, fits)
		lines = append(lines, chunks[:len(chunks)-1]...)
		current = chunks[len(chunks)-1]
	}

	return append(lines, current)
}

func splitWord(word string, fits func(string) bool) []string {
	var (
		chunks  []string
		current strings.Builder
	)
	for _, r := range word {
		if current.Len() > 0 && !fits(current.String()+string(r)) {
			chunks = append(chunks, current.String())
			current.Reset()
		}
		current.WriteRune(r)
	}
	return append(chunks, current.String())
}
