package classify

import (
	"strings"
	"unicode"
)

// Normalize lower-cases a description and keeps only ASCII letters, digits and
// Hangul. The result is the key for learned classifications.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || unicode.Is(unicode.Hangul, r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
