package util

import (
	"regexp"
	"strings"
	"unicode"
)

var slugRe = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// ValidSlug reports whether s is lowercase kebab-case ASCII.
func ValidSlug(s string) bool {
	return len(s) <= 120 && slugRe.MatchString(s)
}

// Slugify lowercases s and joins runs of letters and digits with single
// hyphens; everything else is dropped. Non-ASCII letters are dropped too.
func Slugify(s string) string {
	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(s) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			pendingDash = false
			continue
		}
		pendingDash = true
	}
	return b.String()
}
