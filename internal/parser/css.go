// Package parser holds the selector-cascade machinery and HTML helpers the
// extractors are built from.
package parser

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Extractor is one rule of a selector cascade. It reports ok=false when the
// rule found nothing usable, letting the next rule run.
type Extractor[T any] func(root *goquery.Selection) (T, bool)

// FirstMatch runs the chain in order and returns the first successful result.
func FirstMatch[T any](root *goquery.Selection, chain []Extractor[T]) (T, bool) {
	for _, ex := range chain {
		if v, ok := ex(root); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// Text matches the first element under selector whose collapsed text is non-empty.
func Text(selector string) Extractor[string] {
	return func(root *goquery.Selection) (string, bool) {
		var out string
		root.Find(selector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			out = CleanText(sel.Text())
			return out == ""
		})
		return out, out != ""
	}
}

// Attr matches the first element under selector with a non-empty attr.
func Attr(selector, attr string) Extractor[string] {
	return func(root *goquery.Selection) (string, bool) {
		var out string
		root.Find(selector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			v, _ := sel.Attr(attr)
			out = strings.TrimSpace(v)
			return out == ""
		})
		return out, out != ""
	}
}

// Element matches the first element under selector.
func Element(selector string) Extractor[*goquery.Selection] {
	return func(root *goquery.Selection) (*goquery.Selection, bool) {
		sel := root.Find(selector).First()
		return sel, sel.Length() > 0
	}
}

// Elements matches every element under selector, provided there is at least one.
func Elements(selector string) Extractor[*goquery.Selection] {
	return func(root *goquery.Selection) (*goquery.Selection, bool) {
		sel := root.Find(selector)
		return sel, sel.Length() > 0
	}
}

// TextChain builds a Text cascade from selectors in priority order.
func TextChain(selectors ...string) []Extractor[string] {
	chain := make([]Extractor[string], len(selectors))
	for i, s := range selectors {
		chain[i] = Text(s)
	}
	return chain
}

// ElementChain builds an Element cascade from selectors in priority order.
func ElementChain(selectors ...string) []Extractor[*goquery.Selection] {
	chain := make([]Extractor[*goquery.Selection], len(selectors))
	for i, s := range selectors {
		chain[i] = Element(s)
	}
	return chain
}

// CleanText trims s and collapses internal whitespace runs to single spaces.
func CleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// FirstLine returns the first non-blank line of the element's text.
func FirstLine(sel *goquery.Selection) string {
	for _, line := range strings.Split(sel.Text(), "\n") {
		if l := CleanText(line); l != "" {
			return l
		}
	}
	return ""
}
