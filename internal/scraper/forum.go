package scraper

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/IshaanNene/GuildScrape/internal/parser"
	"github.com/IshaanNene/GuildScrape/internal/types"
)

const dateLayout = "2006-01-02"

// ScrapeList extracts discussion stubs from the configured forum category
// listing. Repeated links to one discussion collapse to the first.
func (s *Scraper) ScrapeList(ctx context.Context) ([]types.ForumPostStub, error) {
	listURL := resolve(s.forumBase, s.cfg.Forum.CategoryPath)
	_, doc, err := s.fetch(ctx, listURL, profileList)
	if err != nil {
		return nil, fmt.Errorf("scrape list: %w", err)
	}

	marker := s.cfg.Forum.DiscussionMarker
	idPattern := regexp.MustCompile(regexp.QuoteMeta(marker) + `(\d+)`)
	limit := s.cfg.Forum.ListLimit
	seen := make(map[string]bool)
	var stubs []types.ForumPostStub

	doc.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		if !strings.Contains(href, marker) {
			return true
		}
		title := parser.CleanText(a.Text())
		if title == "" {
			return true
		}
		abs, ok := parser.Absolutize(s.forumBase, href)
		if !ok {
			return true
		}

		var id string
		if m := idPattern.FindStringSubmatch(abs); m != nil {
			id = m[1]
		}
		key := abs
		if id != "" {
			key = id
		}
		if seen[key] {
			return true
		}
		seen[key] = true

		date := parser.NearestDate(a.Get(0))
		if date == "" {
			date = s.now().Format(dateLayout)
			s.degraded(types.KindStub, "date", abs)
		}

		stubs = append(stubs, types.ForumPostStub{
			URL:          abs,
			Title:        title,
			Date:         date,
			DiscussionID: id,
		})
		return len(stubs) < limit
	})

	s.metrics.Records(types.KindStub, len(stubs))
	s.logger.Info("forum list scraped", "url", listURL, "stubs", len(stubs))
	return stubs, nil
}
