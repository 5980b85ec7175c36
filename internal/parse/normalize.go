package parse

import (
	"strings"
	"unicode"
)

// CleanText normalizes raw message text: Unicode format characters
// (category Cf, e.g. zero-width joiners) are removed and all separator
// characters (category Z, e.g. non-breaking or narrow spaces) become
// plain ASCII spaces. Digits, letters, punctuation and line breaks pass
// through untouched.
func CleanText(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case unicode.Is(unicode.Cf, r):
			// drop
		case unicode.IsSpace(r) && r != '\n' && r != '\r':
			b.WriteRune(' ')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
