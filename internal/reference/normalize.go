package reference

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripDiacritics decomposes accented characters and drops the
// combining marks, so "Müller" and "Muller" compare equal.
var stripDiacritics = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// Normalize case-folds s, removes diacritics and punctuation, and
// collapses runs of whitespace to single spaces. Used for both titles
// and author surnames so every comparison in the pipeline sees the
// same canonical form.
func Normalize(s string) string {
	folded, _, err := transform.String(stripDiacritics, s)
	if err != nil {
		folded = s // Keep the original rather than drop the value
	}

	var b strings.Builder
	b.Grow(len(folded))
	space := true // Leading whitespace is dropped
	for _, r := range strings.ToLower(folded) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			space = false
		case unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsSymbol(r):
			if !space {
				b.WriteByte(' ')
				space = true
			}
		}
	}
	return strings.TrimRight(b.String(), " ")
}

// NormalizeSurname normalizes a single author surname.
func NormalizeSurname(s string) string {
	return Normalize(s)
}

// Tokens returns the normalized word tokens of s.
func Tokens(s string) []string {
	n := Normalize(s)
	if n == "" {
		return nil
	}
	return strings.Fields(n)
}
