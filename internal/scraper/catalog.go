package scraper

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/IshaanNene/GuildScrape/internal/parser"
	"github.com/IshaanNene/GuildScrape/internal/slug"
	"github.com/IshaanNene/GuildScrape/internal/types"
)

const minNameLength = 2

// catalogKind is the selector vocabulary for one catalog page.
type catalogKind struct {
	kind  string
	path  string
	limit int
	items []string
	field []string
	stats bool
}

var (
	genericItemSelectors = []string{".item", ".card", "li:has(img)", "div:haschild(img)"}

	nameChain = append(
		parser.TextChain("h1", "h2", "h3", "h4", "h5", "h6", `[class*="name"]`, `[class*="title"]`),
		ownFirstLine,
		parser.Attr("img", "alt"),
		parser.Attr("img", "title"),
		parser.Text("a"),
	)

	descriptionChain = parser.TextChain(`[class*="desc"]`, ".summary", "p")

	// rejectedFallbackTokens mark site chrome in the page-wide image scan.
	rejectedFallbackTokens = []string{"logo", "icon", "button"}
)

func ownFirstLine(root *goquery.Selection) (string, bool) {
	line := parser.FirstLine(root)
	return line, line != ""
}

// catalogEntry is the kind-independent result of one catalog item.
type catalogEntry struct {
	Name        string
	Image       string
	Description string
	Field       string
	Stats       map[string]string
}

func (s *Scraper) rankKind() catalogKind {
	return catalogKind{
		kind:  types.KindRank,
		path:  s.cfg.Catalog.RanksPath,
		limit: s.cfg.Catalog.RanksLimit,
		items: []string{".rank-item", ".rank-card", ".rank", `[class*="rank"]`},
		field: []string{`[class*="requirement"]`, `[class*="unlock"]`},
	}
}

func (s *Scraper) modeKind() catalogKind {
	return catalogKind{
		kind:  types.KindMode,
		path:  s.cfg.Catalog.ModesPath,
		limit: s.cfg.Catalog.ModesLimit,
		items: []string{".mode-item", ".mode-card", ".game-mode", ".mode", `[class*="mode"]`},
		field: []string{`[class*="type"]`},
	}
}

func (s *Scraper) weaponKind() catalogKind {
	return catalogKind{
		kind:  types.KindWeapon,
		path:  s.cfg.Catalog.WeaponsPath,
		limit: s.cfg.Catalog.WeaponLimit,
		items: []string{".weapon-item", ".weapon-card", ".weapon", `[class*="weapon"]`},
		field: []string{`[class*="category"]`, `[class*="class"]`},
		stats: true,
	}
}

// scrapeCatalog fetches one catalog page and extracts up to kind.limit entries.
func (s *Scraper) scrapeCatalog(ctx context.Context, kind catalogKind) ([]catalogEntry, error) {
	pageURL := resolve(s.catalogBase, kind.path)
	page, doc, err := s.fetch(ctx, pageURL, profileCatalog)
	if err != nil {
		return nil, fmt.Errorf("scrape %s catalog: %w", kind.kind, err)
	}
	base := pageBase(page, s.catalogBase)

	entries := s.itemEntries(doc, kind, base)
	if len(entries) == 0 {
		s.degraded(kind.kind, "items", pageURL)
		entries = imageEntries(doc, base)
	}
	if len(entries) > kind.limit {
		entries = entries[:kind.limit]
	}

	for i := range entries {
		if entries[i].Image != "" {
			continue
		}
		entries[i].Image = s.assets.Lookup(entries[i].Name)
		if entries[i].Image == "" {
			s.degraded(kind.kind, "image", pageURL)
		}
	}

	s.metrics.Records(kind.kind, len(entries))
	s.logger.Info("catalog scraped", "kind", kind.kind, "url", pageURL, "entries", len(entries))
	return entries, nil
}

// itemEntries runs the item selector cascade. The first selector that
// yields at least one named item wins. Only the innermost matches of a
// selector are items, so a wrapper whose class also matches is skipped.
func (s *Scraper) itemEntries(doc *goquery.Document, kind catalogKind, base *url.URL) []catalogEntry {
	selectors := append(append([]string{}, kind.items...), genericItemSelectors...)
	fieldChain := parser.TextChain(kind.field...)

	for _, selector := range selectors {
		var entries []catalogEntry
		innermost(doc.Find(selector), selector).EachWithBreak(func(_ int, item *goquery.Selection) bool {
			name, _ := parser.FirstMatch(item, nameChain)
			if utf8.RuneCountInString(name) < minNameLength {
				return true
			}
			entry := catalogEntry{
				Name:  name,
				Image: parser.ImageSource(itemImage(item, selector), base),
			}
			if desc, ok := parser.FirstMatch(item, descriptionChain); ok && desc != name {
				entry.Description = desc
			}
			if field, ok := parser.FirstMatch(item, fieldChain); ok && field != name {
				entry.Field = field
			}
			if kind.stats {
				entry.Stats = parser.TableStats(item)
				if len(entry.Stats) == 0 {
					entry.Stats = parser.ClassStats(item)
				}
			}
			entries = append(entries, entry)
			return len(entries) < kind.limit
		})
		if len(entries) > 0 {
			return entries
		}
	}
	return nil
}

// innermost drops matches that contain another match of selector.
func innermost(matches *goquery.Selection, selector string) *goquery.Selection {
	return matches.FilterFunction(func(_ int, item *goquery.Selection) bool {
		return item.Find(selector).Length() == 0
	})
}

// itemImage is the item's first image, or else the first image of its
// nearest ancestor that holds no other item.
func itemImage(item *goquery.Selection, selector string) *goquery.Selection {
	if img := item.Find("img").First(); img.Length() > 0 {
		return img
	}
	for p := item.Parent(); p.Length() > 0 && !p.Is("body"); p = p.Parent() {
		if p.Find(selector).Length() > 1 {
			break
		}
		if img := p.Find("img").First(); img.Length() > 0 {
			return img
		}
	}
	return item.Find("img").First()
}

// imageEntries treats every non-chrome image on the page as an entry.
func imageEntries(doc *goquery.Document, base *url.URL) []catalogEntry {
	var entries []catalogEntry
	doc.Find("img").Each(func(_ int, img *goquery.Selection) {
		src := parser.ImageSource(img, base)
		if src == "" {
			return
		}
		lower := strings.ToLower(src)
		for _, token := range rejectedFallbackTokens {
			if strings.Contains(lower, token) {
				return
			}
		}
		name := imageName(img, src)
		if utf8.RuneCountInString(name) < minNameLength {
			return
		}
		entries = append(entries, catalogEntry{Name: name, Image: src})
	})
	return entries
}

// imageName is alt, then title, then the parent's first text line, then the
// file name without extension.
func imageName(img *goquery.Selection, src string) string {
	for _, attr := range []string{"alt", "title"} {
		if v, ok := img.Attr(attr); ok {
			if v = parser.CleanText(v); v != "" {
				return v
			}
		}
	}
	if line := parser.FirstLine(img.Parent()); line != "" {
		return line
	}

	file := src
	if u, err := url.Parse(src); err == nil {
		file = u.Path
	}
	file = path.Base(file)
	stem := strings.TrimSuffix(file, path.Ext(file))
	stem = strings.NewReplacer("-", " ", "_", " ").Replace(stem)
	return parser.CleanText(stem)
}

// ScrapeRanks extracts the rank catalog and merges the curated bonus table.
func (s *Scraper) ScrapeRanks(ctx context.Context) ([]types.ScrapedRank, error) {
	entries, err := s.scrapeCatalog(ctx, s.rankKind())
	if err != nil {
		return nil, err
	}
	ranks := make([]types.ScrapedRank, 0, len(entries))
	for _, e := range entries {
		ranks = append(ranks, types.ScrapedRank{
			ID:           slug.ID(types.KindRank, e.Name),
			Name:         e.Name,
			Image:        e.Image,
			Description:  e.Description,
			Requirements: s.rankRequirements(e),
		})
	}
	return ranks, nil
}

// rankRequirements joins markup requirements with the curated bonus, if any.
// Without markup requirements the description stands in for them.
func (s *Scraper) rankRequirements(e catalogEntry) string {
	bonus, ok := s.bonuses[e.Name]
	if !ok {
		return e.Field
	}

	base := e.Field
	if base == "" {
		base = e.Description
	}
	var parts []string
	if base != "" {
		parts = append(parts, base)
	}
	if bonus.ExpRequired > 0 {
		parts = append(parts, fmt.Sprintf("EXP Required: %d", bonus.ExpRequired))
	}
	if bonus.Bonus != "" {
		parts = append(parts, "Bonus: "+bonus.Bonus)
	}
	return strings.Join(parts, " | ")
}

// ScrapeModes extracts the game-mode catalog.
func (s *Scraper) ScrapeModes(ctx context.Context) ([]types.ScrapedMode, error) {
	entries, err := s.scrapeCatalog(ctx, s.modeKind())
	if err != nil {
		return nil, err
	}
	modes := make([]types.ScrapedMode, 0, len(entries))
	for _, e := range entries {
		modes = append(modes, types.ScrapedMode{
			ID:          slug.ID(types.KindMode, e.Name),
			Name:        e.Name,
			Image:       e.Image,
			Description: e.Description,
			Type:        e.Field,
		})
	}
	return modes, nil
}

// ScrapeWeapons extracts the weapon catalog, including per-weapon stats.
func (s *Scraper) ScrapeWeapons(ctx context.Context) ([]types.ScrapedWeapon, error) {
	entries, err := s.scrapeCatalog(ctx, s.weaponKind())
	if err != nil {
		return nil, err
	}
	weapons := make([]types.ScrapedWeapon, 0, len(entries))
	for _, e := range entries {
		w := types.ScrapedWeapon{
			ID:          slug.ID(types.KindWeapon, e.Name),
			Name:        e.Name,
			Image:       e.Image,
			Description: e.Description,
			Category:    e.Field,
		}
		if len(e.Stats) > 0 {
			w.Stats = e.Stats
		}
		weapons = append(weapons, w)
	}
	return weapons, nil
}
