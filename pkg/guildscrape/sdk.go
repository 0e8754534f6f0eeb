// Package guildscrape provides a public SDK for embedding GuildScrape as a library.
//
// Example usage:
//
//	client, err := guildscrape.New(
//	    guildscrape.WithForum("https://forum.example.com", "/categories/announcements"),
//	    guildscrape.WithCatalog("https://www.example.com"),
//	    guildscrape.WithAssetsDir("./public/assets"),
//	)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	stubs, err := client.List(ctx)
//	events := client.Events(ctx, urls)
//	ranks, err := client.Ranks(ctx)
package guildscrape

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"slices"
	"time"

	"github.com/spf13/afero"

	"github.com/IshaanNene/GuildScrape/internal/assets"
	"github.com/IshaanNene/GuildScrape/internal/config"
	"github.com/IshaanNene/GuildScrape/internal/fetcher"
	"github.com/IshaanNene/GuildScrape/internal/observability"
	"github.com/IshaanNene/GuildScrape/internal/scraper"
	"github.com/IshaanNene/GuildScrape/internal/types"
)

// Record types returned by the client.
type (
	ForumPostStub = types.ForumPostStub
	ScrapedEvent  = types.ScrapedEvent
	ScrapedRank   = types.ScrapedRank
	ScrapedMode   = types.ScrapedMode
	ScrapedWeapon = types.ScrapedWeapon
	FetchError    = types.FetchError
	ParseError    = types.ParseError
	RankBonus     = config.RankBonus
)

// Client is the high-level API for using GuildScrape as a library.
type Client struct {
	cfg     *config.Config
	scraper *scraper.Scraper
	fetcher *fetcher.HTTPFetcher
	metrics *observability.Metrics
	logger  *slog.Logger
}

type settings struct {
	cfg    *config.Config
	fs     afero.Fs
	logger *slog.Logger
}

// Option configures a Client.
type Option func(*settings)

// WithConfig replaces the defaults with a copy of cfg; cfg itself is never
// modified. Later options still apply on top. A nil cfg is ignored.
func WithConfig(cfg *config.Config) Option {
	return func(s *settings) {
		if cfg == nil {
			return
		}
		c := *cfg
		c.Fetcher.UserAgents = slices.Clone(cfg.Fetcher.UserAgents)
		c.Ranks.Bonuses = slices.Clone(cfg.Ranks.Bonuses)
		s.cfg = &c
	}
}

// WithForum sets the forum base URL and the announcements category path.
func WithForum(baseURL, categoryPath string) Option {
	return func(s *settings) {
		s.cfg.Forum.BaseURL = baseURL
		if categoryPath != "" {
			s.cfg.Forum.CategoryPath = categoryPath
		}
	}
}

// WithCatalog sets the catalog site base URL.
func WithCatalog(baseURL string) Option {
	return func(s *settings) { s.cfg.Catalog.BaseURL = baseURL }
}

// WithAssetsDir sets the local image directory used when markup has no image.
func WithAssetsDir(dir string) Option {
	return func(s *settings) { s.cfg.Assets.Dir = dir }
}

// WithAssetsFs serves the asset directory from fs instead of the OS.
func WithAssetsFs(fs afero.Fs) Option {
	return func(s *settings) { s.fs = fs }
}

// WithDelay sets the pause between requests in a batch.
func WithDelay(d time.Duration) Option {
	return func(s *settings) { s.cfg.Batch.Delay = d }
}

// WithUserAgent sets a custom User-Agent.
func WithUserAgent(ua string) Option {
	return func(s *settings) { s.cfg.Fetcher.UserAgents = []string{ua} }
}

// WithRankBonuses replaces the curated rank bonus table.
func WithRankBonuses(bonuses ...RankBonus) Option {
	return func(s *settings) { s.cfg.Ranks.Bonuses = bonuses }
}

// WithLogger sets the logger. The default logs warnings to stderr.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) { s.logger = logger }
}

// WithVerbose enables debug-level logging on the default logger.
func WithVerbose() Option {
	return func(s *settings) { s.cfg.Logging.Level = "debug" }
}

// New creates a Client with the given options.
func New(opts ...Option) (*Client, error) {
	s := &settings{cfg: config.DefaultConfig()}
	for _, opt := range opts {
		opt(s)
	}
	cfg := s.cfg
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger := s.logger
	if logger == nil {
		level := slog.LevelWarn
		if cfg.Logging.Level == "debug" {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	}

	fs := s.fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	index := assets.NewIndex(fs, assets.Options{
		Dir:                 cfg.Assets.Dir,
		PublicPrefix:        cfg.Assets.PublicPrefix,
		SimilarityThreshold: cfg.Assets.SimilarityThreshold,
	}, logger)

	httpFetcher := fetcher.NewHTTPFetcher(cfg, logger)
	metrics := observability.NewMetrics(logger)
	sc, err := scraper.New(cfg, httpFetcher, index, metrics, logger)
	if err != nil {
		httpFetcher.Close()
		return nil, err
	}

	return &Client{
		cfg:     cfg,
		scraper: sc,
		fetcher: httpFetcher,
		metrics: metrics,
		logger:  logger,
	}, nil
}

// List returns the discussion stubs of the announcements category.
func (c *Client) List(ctx context.Context) ([]ForumPostStub, error) {
	return c.scraper.ScrapeList(ctx)
}

// Event scrapes a single forum thread.
func (c *Client) Event(ctx context.Context, url string) (ScrapedEvent, error) {
	return c.scraper.ScrapeEvent(ctx, url)
}

// Events scrapes threads in order; failures are skipped.
func (c *Client) Events(ctx context.Context, urls []string) []ScrapedEvent {
	return c.scraper.ScrapeMany(ctx, urls)
}

// Latest lists the category and scrapes every listed thread.
func (c *Client) Latest(ctx context.Context) ([]ScrapedEvent, error) {
	return c.scraper.ScrapeLatest(ctx)
}

// Ranks scrapes the rank catalog.
func (c *Client) Ranks(ctx context.Context) ([]ScrapedRank, error) {
	return c.scraper.ScrapeRanks(ctx)
}

// Modes scrapes the game-mode catalog.
func (c *Client) Modes(ctx context.Context) ([]ScrapedMode, error) {
	return c.scraper.ScrapeModes(ctx)
}

// Weapons scrapes the weapon catalog.
func (c *Client) Weapons(ctx context.Context) ([]ScrapedWeapon, error) {
	return c.scraper.ScrapeWeapons(ctx)
}

// MetricsHandler serves the client's Prometheus metrics.
func (c *Client) MetricsHandler() http.Handler {
	return c.metrics.Handler()
}

// Close releases idle connections.
func (c *Client) Close() error {
	return c.fetcher.Close()
}
