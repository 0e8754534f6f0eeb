package parser

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Meta returns the content of the first <meta> whose property or name is one
// of keys, checked in the given order.
func Meta(doc *goquery.Document, keys ...string) (string, bool) {
	for _, key := range keys {
		var out string
		doc.Find("meta").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			prop, _ := sel.Attr("property")
			if prop == "" {
				prop, _ = sel.Attr("name")
			}
			if !strings.EqualFold(prop, key) {
				return true
			}
			content, _ := sel.Attr("content")
			out = strings.TrimSpace(content)
			return out == ""
		})
		if out != "" {
			return out, true
		}
	}
	return "", false
}
