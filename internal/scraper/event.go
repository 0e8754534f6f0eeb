package scraper

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"net/url"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"

	"github.com/IshaanNene/GuildScrape/internal/parser"
	"github.com/IshaanNene/GuildScrape/internal/types"
)

const (
	minContentLength = 50
	defaultCategory  = "Announcement"
)

var categoryPattern = regexp.MustCompile(`/categories/([^/?#]+)`)

var titleChain = parser.TextChain(
	"h1.discussion-title",
	".DiscussionHeader h1",
	".PageTitle h1",
	"#Item_0 h1",
	".Discussion .Title",
	"h1.title",
	".topic-title",
	"h1",
	"h2.title",
	"title",
)

var dateChain = []parser.Extractor[string]{
	parser.Text(".DiscussionMeta time"),
	parser.Text(".MItem.DateCreated time"),
	parser.Text(".DateCreated"),
	parser.Attr("time", "datetime"),
	parser.Text("time"),
	parser.Text(".post-date"),
	parser.Text(".postbody .author"),
	parser.Text(`[class*="date"]`),
}

var contentChain = parser.ElementChain(
	".Discussion .Message.userContent",
	".Item-BodyWrap .Message",
	".Message.userContent",
	".userContent",
	".Message",
	".post-content",
	".postbody .content",
	".entry-content",
	"article .content",
	"article",
)

var broadContentChain = parser.ElementChain(
	`[class*="Discussion"]`,
	`[class*="discussion"]`,
	"#Content",
	"main",
)

var imageSelectors = []string{
	".Message img",
	".userContent img",
	".post-content img",
	"article img",
	".Discussion img",
	"img",
}

// rejectedImageTokens mark forum chrome rather than event artwork.
var rejectedImageTokens = []string{"emoji", "icon", "avatar", "logo"}

// ScrapeEvent extracts a single forum thread as an event record.
func (s *Scraper) ScrapeEvent(ctx context.Context, rawURL string) (types.ScrapedEvent, error) {
	page, doc, err := s.fetch(ctx, rawURL, profileDetail)
	if err != nil {
		return types.ScrapedEvent{}, fmt.Errorf("scrape event: %w", err)
	}

	base := pageBase(page, s.forumBase)
	root := doc.Selection

	ev := types.ScrapedEvent{URL: rawURL}

	ev.Title, _ = parser.FirstMatch(root, titleChain)
	if ev.Title == "" {
		if v, ok := parser.Meta(doc, "og:title"); ok {
			ev.Title = v
		} else {
			s.degraded(types.KindEvent, "title", rawURL)
		}
	}

	ev.Date, _ = parser.FirstMatch(root, dateChain)
	if ev.Date == "" {
		if v, ok := parser.Meta(doc, "article:published_time", "date"); ok {
			ev.Date = v
		} else {
			s.degraded(types.KindEvent, "date", rawURL)
		}
	}

	// Image resolution runs before content processing so it sees the page as served.
	ev.Image = s.eventImage(doc, base)
	if ev.Image == "" {
		s.degraded(types.KindEvent, "image", rawURL)
	}

	ev.Content = s.eventContent(page.Body, root, base, ev.Title, rawURL)
	ev.Category = categoryFromURL(rawURL)

	s.metrics.Records(types.KindEvent, 1)
	s.logger.Debug("event scraped", "url", rawURL, "title", ev.Title, "content_size", len(ev.Content))
	return ev, nil
}

// pageBase is the URL relative references in the page resolve against.
func pageBase(page *types.Page, fallback *url.URL) *url.URL {
	for _, raw := range []string{page.FinalURL, page.URL} {
		if u, err := url.Parse(raw); err == nil && u.IsAbs() {
			return u
		}
	}
	return fallback
}

// eventContent finds the thread body and returns it as sanitized HTML.
// The result is never empty.
func (s *Scraper) eventContent(body []byte, root *goquery.Selection, base *url.URL, title, rawURL string) string {
	container, ok := parser.FirstMatch(root, contentChain)
	if !ok {
		container, ok = parser.FirstMatch(root, broadContentChain)
	}
	if !ok {
		container, ok = readabilityContainer(body, base)
		if ok {
			s.degraded(types.KindEvent, "content_container", rawURL)
		}
	}

	var text string
	if ok {
		parser.StripNoise(container)
		parser.RewriteLinks(container, base)
		inner, err := container.Html()
		if err == nil {
			if clean := parser.Sanitize(inner); utf8.RuneCountInString(clean) >= minContentLength {
				return clean
			}
		}
		text = parser.CleanText(container.Text())
	}

	s.degraded(types.KindEvent, "content", rawURL)
	switch {
	case text != "":
	case title != "":
		text = title
	default:
		text = rawURL
	}
	return parser.Sanitize("<p>" + html.EscapeString(text) + "</p>")
}

// readabilityContainer runs article extraction over the raw page.
func readabilityContainer(body []byte, base *url.URL) (*goquery.Selection, bool) {
	article, err := readability.FromReader(bytes.NewReader(body), base)
	if err != nil || strings.TrimSpace(article.Content) == "" {
		return nil, false
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(article.Content))
	if err != nil {
		return nil, false
	}
	sel := doc.Find("body")
	return sel, sel.Length() > 0
}

// eventImage picks the first acceptable image, preferring the thread body,
// then og:image.
func (s *Scraper) eventImage(doc *goquery.Document, base *url.URL) string {
	for _, selector := range imageSelectors {
		var found string
		doc.Find(selector).EachWithBreak(func(_ int, img *goquery.Selection) bool {
			if src := parser.ImageSource(img, base); acceptableImage(src) {
				found = src
				return false
			}
			return true
		})
		if found != "" {
			return found
		}
	}
	if v, ok := parser.Meta(doc, "og:image", "twitter:image"); ok {
		if abs, ok := parser.Absolutize(base, v); ok && acceptableImage(abs) {
			return abs
		}
	}
	return ""
}

func acceptableImage(src string) bool {
	if src == "" {
		return false
	}
	lower := strings.ToLower(src)
	for _, token := range rejectedImageTokens {
		if strings.Contains(lower, token) {
			return false
		}
	}
	return true
}

// categoryFromURL turns /categories/patch-notes/ into "Patch notes".
func categoryFromURL(rawURL string) string {
	m := categoryPattern.FindStringSubmatch(rawURL)
	if m == nil {
		return defaultCategory
	}
	slug := m[1]
	if decoded, err := url.PathUnescape(slug); err == nil {
		slug = decoded
	}
	name := strings.TrimSpace(strings.ReplaceAll(slug, "-", " "))
	if name == "" {
		return defaultCategory
	}
	r, size := utf8.DecodeRuneInString(name)
	return string(unicode.ToUpper(r)) + name[size:]
}
