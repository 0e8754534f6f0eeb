// Package scraper turns third-party forum and catalog markup into typed
// records. Every extractor layers ordered selector cascades with fallbacks,
// so markup drift degrades fields instead of failing the call.
package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/IshaanNene/GuildScrape/internal/config"
	"github.com/IshaanNene/GuildScrape/internal/fetcher"
	"github.com/IshaanNene/GuildScrape/internal/observability"
	"github.com/IshaanNene/GuildScrape/internal/types"
)

// Fetch profiles. Catalog pages are slow static pages and get the longest budget.
const (
	profileList    = "list"
	profileDetail  = "detail"
	profileCatalog = "catalog"
)

// AssetResolver finds a locally hosted image for a name, or returns "".
type AssetResolver interface {
	Lookup(name string) string
}

type noAssets struct{}

func (noAssets) Lookup(string) string { return "" }

// Scraper extracts records from the configured forum and catalog sites.
// It is safe for concurrent use.
type Scraper struct {
	cfg         *config.Config
	fetcher     fetcher.Fetcher
	assets      AssetResolver
	metrics     *observability.Metrics
	logger      *slog.Logger
	forumBase   *url.URL
	catalogBase *url.URL
	bonuses     map[string]config.RankBonus
	now         func() time.Time
}

// New creates a Scraper. assets and metrics may be nil.
func New(cfg *config.Config, f fetcher.Fetcher, assets AssetResolver, metrics *observability.Metrics, logger *slog.Logger) (*Scraper, error) {
	forumBase, err := url.Parse(cfg.Forum.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse forum base url: %w", err)
	}
	catalogBase, err := url.Parse(cfg.Catalog.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse catalog base url: %w", err)
	}
	if assets == nil {
		assets = noAssets{}
	}
	if metrics == nil {
		metrics = observability.NewMetrics(logger)
	}

	bonuses := make(map[string]config.RankBonus, len(cfg.Ranks.Bonuses))
	for _, b := range cfg.Ranks.Bonuses {
		bonuses[b.Name] = b
	}

	return &Scraper{
		cfg:         cfg,
		fetcher:     f,
		assets:      assets,
		metrics:     metrics,
		logger:      logger.With("component", "scraper"),
		forumBase:   forumBase,
		catalogBase: catalogBase,
		bonuses:     bonuses,
		now:         time.Now,
	}, nil
}

// Metrics returns the scraper's metrics.
func (s *Scraper) Metrics() *observability.Metrics {
	return s.metrics
}

func (s *Scraper) options(profile string) fetcher.Options {
	opts := fetcher.Options{Profile: profile, MaxStatus: s.cfg.Fetcher.MaxStatus}
	switch profile {
	case profileList:
		opts.Timeout = s.cfg.Fetcher.ListTimeout
	case profileDetail:
		opts.Timeout = s.cfg.Fetcher.DetailTimeout
	case profileCatalog:
		opts.Timeout = s.cfg.Fetcher.CatalogTimeout
		opts.Retries = s.cfg.Fetcher.CatalogRetries
		opts.RequireBody = true
	}
	return opts
}

// fetch retrieves rawURL with the given profile and parses it.
func (s *Scraper) fetch(ctx context.Context, rawURL, profile string) (*types.Page, *goquery.Document, error) {
	start := time.Now()
	page, err := s.fetcher.Fetch(ctx, rawURL, s.options(profile))
	s.metrics.ObserveFetch(profile, time.Since(start), err)
	if err != nil {
		return nil, nil, err
	}
	doc, err := page.Document()
	if err != nil {
		return nil, nil, err
	}
	return page, doc, nil
}

// degraded records a field that fell back instead of being extracted.
func (s *Scraper) degraded(kind, field, source string) {
	s.metrics.Degraded(kind, field)
	s.logger.Debug("extraction degraded", "kind", kind, "field", field, "url", source)
}

// resolve makes path absolute against base. An unparseable path yields base.
func resolve(base *url.URL, path string) string {
	ref, err := url.Parse(path)
	if err != nil {
		return base.String()
	}
	return base.ResolveReference(ref).String()
}
