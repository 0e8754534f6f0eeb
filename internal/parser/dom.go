package parser

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// TableStats reads label/value pairs from the rows of any table under root.
// A row contributes when its first cell (th or td) is a label and a later
// td holds the value.
func TableStats(root *goquery.Selection) map[string]string {
	stats := make(map[string]string)
	root.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("th, td")
		if cells.Length() < 2 {
			return
		}
		label := CleanText(cells.First().Text())
		value := CleanText(cells.Eq(1).Text())
		if label != "" && value != "" {
			stats[label] = value
		}
	})
	return stats
}

// ClassStats reads stats from children whose class contains "stat". Either
// a ".label"/".value" pair or "Label: value" text is accepted.
func ClassStats(root *goquery.Selection) map[string]string {
	stats := make(map[string]string)
	root.Find(`[class*="stat"]`).Each(func(_ int, sel *goquery.Selection) {
		label := CleanText(sel.Find(`.label, [class*="label"], [class*="name"]`).First().Text())
		value := CleanText(sel.Find(`.value, [class*="value"]`).First().Text())
		if label == "" || value == "" {
			text := CleanText(sel.Text())
			before, after, found := strings.Cut(text, ":")
			if !found {
				return
			}
			label, value = strings.TrimSpace(before), strings.TrimSpace(after)
		}
		if label != "" && value != "" {
			stats[label] = value
		}
	})
	return stats
}
