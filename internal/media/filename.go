package media

import (
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

const fallbackStem = "archivo"

// SanitizeFilename returns a name that is safe to use as a single path element.
// Accents are folded to their ASCII base letter, whitespace runs become "_",
// and anything outside [A-Za-z0-9._-] is dropped. The extension of the
// original name is kept (lower-cased) so classification never changes.
func SanitizeFilename(filename string) string {
	base := baseName(filename)
	origExt := filepath.Ext(base)

	stem := strings.Trim(clean(strings.TrimSuffix(base, origExt)), "._")
	if stem == "" {
		stem = fallbackStem
	}
	return stem + strings.ToLower(clean(origExt))
}

// Stem returns a sanitized filename without its extension.
func Stem(sanitized string) string {
	return strings.TrimSuffix(sanitized, filepath.Ext(sanitized))
}

func clean(s string) string {
	s = strings.Join(strings.Fields(norm.NFKD.String(s)), "_")

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r > unicode.MaxASCII {
			continue
		}
		if r == '.' || r == '_' || r == '-' ||
			('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || ('0' <= r && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
