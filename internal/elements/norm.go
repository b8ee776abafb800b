package elements

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Norm maps an element to its comparison key: lower-cased, whitespace runs
// collapsed to one space, and every rune outside letters, digits, '_',
// whitespace and "-+/&" removed. Two elements are duplicates iff their keys match.
func Norm(s string) string {
	// cases.Caser is stateful, so one per call.
	lowered := cases.Lower(language.Und).String(s)
	collapsed := strings.Join(strings.Fields(lowered), " ")
	return strings.Map(func(r rune) rune {
		if keepRune(r) {
			return r
		}
		return -1
	}, collapsed)
}

func keepRune(r rune) bool {
	switch {
	case unicode.IsLetter(r), unicode.IsNumber(r), unicode.IsSpace(r):
		return true
	}
	return strings.ContainsRune("_-+/&", r)
}
