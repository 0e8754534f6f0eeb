// Package slug turns free-text names into URL-safe, comparable tokens.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Normalize strips diacritics, lowercases, collapses every run of
// characters outside [a-z0-9] into one hyphen and trims hyphens.
// "Brigadier General 4" and "brigadier---general--4" both become
// "brigadier-general-4".
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	// transform.Chain is stateful, so build one per call.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, text)
	if err != nil {
		stripped = text
	}
	out := nonAlnum.ReplaceAllString(strings.ToLower(stripped), "-")
	return strings.Trim(out, "-")
}

// Tokens returns the hyphen-delimited parts of Normalize(text).
func Tokens(text string) []string {
	n := Normalize(text)
	if n == "" {
		return nil
	}
	return strings.Split(n, "-")
}

// ID synthesizes a record id such as "rank-grand-marshall".
// The same kind and name always yield the same id.
func ID(kind, name string) string {
	return kind + "-" + Normalize(name)
}
