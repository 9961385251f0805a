package normalize

import (
	"strings"
	"unicode"
)

const maxTokenLength = 120

// Sanitize turns free text into a filename-safe token: letters, digits, '-' and '_' only,
// spaces become underscores, runs of underscores collapse, at most 120 characters.
func Sanitize(value string) string {
	var b strings.Builder
	for _, r := range value {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}
	s := strings.TrimRight(b.String(), " ")
	s = strings.ReplaceAll(s, " ", "_")
	for strings.Contains(s, "__") {
		s = strings.ReplaceAll(s, "__", "_")
	}
	if runes := []rune(s); len(runes) > maxTokenLength {
		s = string(runes[:maxTokenLength])
	}
	return s
}
