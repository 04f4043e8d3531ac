package normalize

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// RecognizedSections is the fixed vocabulary of section names promoted to
// second-level headings, in matching order.
var RecognizedSections = []string{
	"Executive Summary",
	"Bioactivity",
	"Potency",
	"Target",
	"Disease",
	"Clinical",
	"ADME",
	"Developability",
	"Recommended",
	"Next Steps",
	"Confidence",
	"Assumptions",
}

// IsSection reports whether name is exactly a recognized section name.
func IsSection(name string) bool {
	for _, s := range RecognizedSections {
		if s == name {
			return true
		}
	}
	return false
}

// matchSection checks whether line starts with a recognized section name.
// The match is literal and case-sensitive, and the name must end at a word
// boundary so "Targeting" does not open a Target section. It returns the
// name and the remainder of the line with separator punctuation removed.
func matchSection(line string) (name, rest string, ok bool) {
	for _, s := range RecognizedSections {
		if !strings.HasPrefix(line, s) {
			continue
		}
		after := line[len(s):]
		if r, _ := utf8.DecodeRuneInString(after); after != "" && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			continue
		}
		return s, trimSeparator(after), true
	}
	return "", "", false
}

func trimSeparator(s string) string {
	s = strings.TrimLeft(s, " \t")
	for _, sep := range []string{":", "- ", "– ", "— "} {
		if strings.HasPrefix(s, sep) {
			s = strings.TrimLeft(s[len(sep):], " \t")
			break
		}
	}
	return strings.TrimRight(s, " \t")
}
