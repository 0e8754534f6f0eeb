package parser

import (
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
)

// dateElementXPath selects date-like descendants: <time> or a class containing "date".
const dateElementXPath = `.//time | .//*[contains(translate(@class, 'DATE', 'date'), 'date')]`

// maxDateAncestors bounds how far up NearestDate climbs before giving up,
// so a listing row never borrows the page header's date.
const maxDateAncestors = 8

// NearestDate walks up from node to the closest ancestor holding a <time>
// element or an element with "date" in its class, and returns that element's
// datetime attribute or text. It returns "" when none is found.
func NearestDate(node *html.Node) string {
	if node == nil {
		return ""
	}
	depth := 0
	for anc := node.Parent; anc != nil && depth < maxDateAncestors; anc = anc.Parent {
		if anc.Type != html.ElementNode {
			continue
		}
		depth++
		candidates, err := htmlquery.QueryAll(anc, dateElementXPath)
		if err != nil {
			return ""
		}
		for _, c := range candidates {
			if dt := strings.TrimSpace(htmlquery.SelectAttr(c, "datetime")); dt != "" {
				return dt
			}
			if text := CleanText(htmlquery.InnerText(c)); text != "" {
				return text
			}
		}
	}
	return ""
}
