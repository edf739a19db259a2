package util

import (
	"strings"
	"unicode"
)

// Preview collapses s onto one line for log output and cuts it at maxRunes.
func Preview(s string, maxRunes int) string {
	if maxRunes <= 0 {
		maxRunes = 80
	}
	s = strings.Join(strings.Fields(SanitizeText(s)), " ")

	out := make([]rune, 0, len(s))
	for _, r := range s {
		if unicode.IsPrint(r) {
			out = append(out, r)
		}
	}
	if len(out) > maxRunes {
		return strings.TrimSpace(string(out[:maxRunes])) + "..."
	}
	return string(out)
}
