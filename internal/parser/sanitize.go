package parser

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
)

// NoiseSelectors match forum chrome that never belongs in extracted content.
var NoiseSelectors = []string{
	"script", "style", "iframe", "noscript", "object", "embed", "form",
	".Signature", ".UserSignature", ".signature",
	".CommentMeta", ".DiscussionMeta", ".AuthorWrap", ".AuthorInfo",
	".Reactions", ".ReactButton", ".Flag", ".OptionsMenu", ".Options",
}

var contentPolicy = newContentPolicy()

// newContentPolicy is the allow-list applied to scraped rich text:
// text formatting, lists, headings, tables, links and images. Anything
// else is dropped while its text content is kept; script and style bodies
// are dropped along with the tag.
func newContentPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()

	p.AllowElements(
		"p", "br", "hr", "div", "span",
		"b", "strong", "i", "em", "u", "s", "strike", "del", "ins", "mark", "small", "sub", "sup",
		"h1", "h2", "h3", "h4", "h5", "h6",
		"blockquote", "pre", "code",
		"ul", "ol", "li", "dl", "dt", "dd",
		"figure", "figcaption",
	)
	p.AllowTables()
	p.AllowAttrs("colspan", "rowspan").Matching(bluemonday.Integer).OnElements("td", "th")

	p.AllowAttrs("href").OnElements("a")
	p.AllowAttrs("src", "alt", "title").OnElements("img")
	p.AllowAttrs("width", "height").Matching(bluemonday.NumberOrPercent).OnElements("img")

	p.RequireParseableURLs(true)
	p.AllowRelativeURLs(false)
	p.AllowURLSchemes("http", "https")

	return p
}

// Sanitize applies the content allow-list to an HTML fragment.
func Sanitize(fragment string) string {
	return strings.TrimSpace(contentPolicy.Sanitize(fragment))
}

// StripNoise removes every element matching NoiseSelectors from root.
func StripNoise(root *goquery.Selection) {
	root.Find(strings.Join(NoiseSelectors, ", ")).Remove()
}
