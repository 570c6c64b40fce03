package util

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Fold normalizes a user-facing name for comparison:
//   - Converts to lowercase
//   - Normalizes unicode (removes accents)
//   - Collapses runs of whitespace and trims the ends
//
// "  Café  Urgente" and "cafe urgente" fold to the same value.
func Fold(s string) string {
	s = strings.ToLower(s)
	s = removeAccents(s)
	return strings.Join(strings.Fields(s), " ")
}

// SameName reports whether two names are equal after folding.
func SameName(a, b string) bool {
	return Fold(a) == Fold(b)
}

// removeAccents removes diacritical marks from unicode characters.
func removeAccents(s string) string {
	// Decompose unicode characters (NFD normalization)
	result := norm.NFD.String(s)

	var b strings.Builder
	for _, r := range result {
		if !unicode.Is(unicode.Mn, r) { // Mn = Mark, Nonspacing
			b.WriteRune(r)
		}
	}

	return b.String()
}
