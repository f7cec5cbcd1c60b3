package textutil

import (
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Upper returns s upper-cased with full Unicode case mapping.
func Upper(s string) string {
	if s == "" {
		return s
	}
	return cases.Upper(language.Und).String(s)
}

// Lower returns s lower-cased with full Unicode case mapping.
func Lower(s string) string {
	if s == "" {
		return s
	}
	return cases.Lower(language.Und).String(s)
}

// Capitalize upper-cases the first rune of s and lower-cases the rest.
// "dUNN" becomes "Dunn" and "smith-jones" becomes "Smith-jones".
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	_, size := utf8.DecodeRuneInString(s)
	return Upper(s[:size]) + Lower(s[size:])
}

// RuneLen returns the number of runes in s.
func RuneLen(s string) int {
	return utf8.RuneCountInString(s)
}
