// Package normalize canonicalizes free-text identifiers so that
// differently typed versions of the same sigla compare equal.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Manual map for the accented letters common in PT-BR spreadsheets,
// used when the Unicode decomposition pipeline fails on bad input.
var accentFallback = map[rune]rune{
	'Á': 'A', 'À': 'A', 'Â': 'A', 'Ã': 'A',
	'É': 'E', 'È': 'E', 'Ê': 'E',
	'Í': 'I', 'Ì': 'I', 'Î': 'I',
	'Ó': 'O', 'Ò': 'O', 'Ô': 'O', 'Õ': 'O',
	'Ú': 'U', 'Ù': 'U', 'Û': 'U',
	'Ç': 'C',
	'á': 'a', 'à': 'a', 'â': 'a', 'ã': 'a',
	'é': 'e', 'è': 'e', 'ê': 'e',
	'í': 'i', 'ì': 'i', 'î': 'i',
	'ó': 'o', 'ò': 'o', 'ô': 'o', 'õ': 'o',
	'ú': 'u', 'ù': 'u', 'û': 'u',
	'ç': 'c',
}

// StripAccents maps accented Latin letters to their unaccented ASCII
// equivalents. NFKD decomposition with combining marks removed; the
// manual table covers the rare case where the transform errors out.
func StripAccents(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err == nil {
		return out
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if plain, ok := accentFallback[r]; ok {
			b.WriteRune(plain)
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Sigla canonicalizes an identifier for comparison: trim, strip
// accents, uppercase, and keep only [0-9A-Z]. Empty input maps to "".
func Sigla(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	s = strings.ToUpper(StripAccents(s))
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= '0' && r <= '9') || (r >= 'A' && r <= 'Z') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Slug builds a lowercase key from arbitrary text: accents stripped,
// every non-alphanumeric run collapsed into a single separator.
// Used for memoization keys on free-text input.
func Slug(s, sep string) string {
	s = strings.ToLower(StripAccents(strings.TrimSpace(s)))
	var b strings.Builder
	b.Grow(len(s))
	pending := false
	for _, r := range s {
		alnum := (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z')
		if alnum {
			if pending && b.Len() > 0 {
				b.WriteString(sep)
			}
			pending = false
			b.WriteRune(r)
		} else {
			pending = true
		}
	}
	return b.String()
}
