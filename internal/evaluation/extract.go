package evaluation

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
)

// label is a known section header in a model response.
// A label with an empty field only delimits the preceding field.
type label struct {
	field   Field
	pattern *regexp.Regexp
}

// labelOccurrence is the position of one label match. Value text starts at end.
type labelOccurrence struct {
	field      Field
	start, end int
}

var (
	labels = buildLabels()

	// echoMarker matches the prompt's closing line only when it stands alone.
	echoMarker = regexp.MustCompile(`(?m)^[ \t]*` + regexp.QuoteMeta(EchoBoundary) + `[ \t]*$`)

	ratingPattern   = regexp.MustCompile(`(?i)\bcandidate[ \t]+rating[ \t]*(?:\([^)\n]*\))?\**[ \t]*:\**[ \t]*(\d{1,2})\b`)
	outOfTenPattern = regexp.MustCompile(`\b(\d{1,2})[ \t]*/[ \t]*10\b`)
)

func buildLabels() []label {
	result := make([]label, 0, len(fieldOrder)+3)
	for _, f := range fieldOrder {
		words := strings.Fields(string(f))
		for i, w := range words {
			words[i] = regexp.QuoteMeta(w)
		}
		result = append(result, label{
			field:   f,
			pattern: regexp.MustCompile(`(?i)\b` + strings.Join(words, `[ \t]+`) + `\**[ \t]*:`),
		})
	}

	// Boundaries without a field: the rating line, a bare "Rating:" line and any markdown heading.
	result = append(result,
		label{pattern: regexp.MustCompile(`(?i)\bcandidate[ \t]+rating[ \t]*(?:\([^)\n]*\))?\**[ \t]*:`)},
		label{pattern: regexp.MustCompile(`(?im)^[ \t]*(?:[-*+][ \t]+|\d+[.)][ \t]+)?\**rating[ \t]*(?:\([^)\n]*\))?\**[ \t]*:`)},
		label{pattern: regexp.MustCompile(`(?m)^[ \t]*#{1,6}[ \t]+\S`)},
	)

	return result
}

// Extract parses a raw model response into a complete Schema.
// It never fails: fields that cannot be found take their default value.
func Extract(raw string) Schema {
	text := afterEcho(raw)
	occurrences := scanLabels(text)

	var schema Schema
	for _, f := range fieldOrder {
		value := fieldValue(text, occurrences, f)
		if value == "" {
			value = DefaultValue(f)
		}
		schema.set(f, value)
	}

	schema.Rating = NormalizeRating(raw)
	return schema
}

// NormalizeRating returns the labeled rating, else the first "N/10", else DefaultRating.
// Values outside [1,10] are treated as absent.
func NormalizeRating(raw string) Rating {
	text := afterEcho(raw)

	if r, ok := firstRating(ratingPattern, text); ok {
		return r
	}
	if r, ok := firstRating(outOfTenPattern, text); ok {
		return r
	}

	return DefaultRating
}

func firstRating(pattern *regexp.Regexp, text string) (Rating, bool) {
	match := pattern.FindStringSubmatch(text)
	if match == nil {
		return RatingUnknown, false
	}

	n := 0
	for _, c := range match[1] {
		n = n*10 + int(c-'0')
	}

	r := Rating(n)
	if !r.Valid() {
		return RatingUnknown, false
	}
	return r, true
}

// afterEcho drops an echoed prompt. The cut is made after the last stand-alone
// marker line that is followed by a label. A marker with no labels after it only
// counts when the prompt's label block precedes it, otherwise it is the model's own heading.
func afterEcho(raw string) string {
	markers := echoMarker.FindAllStringIndex(raw, -1)

	for i := len(markers) - 1; i >= 0; i-- {
		rest := raw[markers[i][1]:]
		if hasLabel(rest) {
			return rest
		}
	}

	if n := len(markers); n > 0 && strings.Contains(raw[:markers[n-1][0]], ratingHint) {
		return raw[markers[n-1][1]:]
	}

	return raw
}

func hasLabel(text string) bool {
	for _, l := range labels {
		if l.field != "" && l.pattern.MatchString(text) {
			return true
		}
	}
	return ratingPattern.MatchString(text)
}

// scanLabels returns every label occurrence in document order.
func scanLabels(text string) []labelOccurrence {
	var occurrences []labelOccurrence
	for _, l := range labels {
		for _, loc := range l.pattern.FindAllStringIndex(text, -1) {
			occurrences = append(occurrences, labelOccurrence{field: l.field, start: loc[0], end: loc[1]})
		}
	}

	sort.SliceStable(occurrences, func(i, j int) bool {
		return occurrences[i].start < occurrences[j].start
	})

	return occurrences
}

// fieldValue takes the first occurrence of f and reads up to the next label of any kind.
func fieldValue(text string, occurrences []labelOccurrence, f Field) string {
	for i, occ := range occurrences {
		if occ.field != f {
			continue
		}

		end := len(text)
		for _, next := range occurrences[i+1:] {
			if next.start >= occ.end {
				end = next.start
				break
			}
		}

		return cleanValue(text[occ.end:end])
	}

	return ""
}

func cleanValue(s string) string {
	// Trailing list markers belong to the next label line.
	s = strings.TrimRightFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == '*' || r == '#' || r == '-'
	})
	return strings.TrimFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == '*'
	})
}
