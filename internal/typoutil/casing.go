package typoutil

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Lower lowercases a word with German casing rules.
// A new Caser is built per call because Casers are not safe for concurrent use.
func Lower(s string) string {
	return cases.Lower(language.German).String(s)
}

// UppercaseFirst uppercases the first rune of s.
func UppercaseFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// LowercaseFirst lowercases the first rune of s.
func LowercaseFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}

// StartsWithUppercase reports whether the first rune of s is an uppercase letter.
func StartsWithUppercase(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsUpper(r)
}

// StartsWithLowercase reports whether the first rune of s is a lowercase letter.
func StartsWithLowercase(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsLower(r)
}

// HasPrefixFold reports whether s starts with prefix, ignoring case.
func HasPrefixFold(s, prefix string) bool {
	return strings.HasPrefix(Lower(s), Lower(prefix))
}

// Normalize returns the NFC form of the text so that decomposed umlauts
// match the lexicon.
func Normalize(s string) string {
	return norm.NFC.String(s)
}
