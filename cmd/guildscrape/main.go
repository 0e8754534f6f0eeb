package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/IshaanNene/GuildScrape/internal/assets"
	"github.com/IshaanNene/GuildScrape/internal/config"
	"github.com/IshaanNene/GuildScrape/internal/fetcher"
	"github.com/IshaanNene/GuildScrape/internal/observability"
	"github.com/IshaanNene/GuildScrape/internal/scraper"
	"github.com/IshaanNene/GuildScrape/internal/storage"
	"github.com/IshaanNene/GuildScrape/internal/types"
)

var (
	cfgFile     string
	verbose     bool
	outputPath  string
	outputType  string
	mongoURI    string
	mongoDB     string
	assetsDir   string
	forumURL    string
	catalogURL  string
	delay       string
	metricsAddr string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "guildscrape",
		Short: "Forum and game-catalog scraper",
		Long: `GuildScrape turns the community forum and the game catalog site into
typed records: forum post stubs, events, ranks, game modes and weapons.

Records are written as JSON or JSONL files per kind, to stdout, or to MongoDB.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&outputType, "format", "f", "", "output: json, jsonl, stdout, mongo (comma-separated for several)")
	rootCmd.PersistentFlags().StringVarP(&outputPath, "output", "o", "", "output directory for file formats")
	rootCmd.PersistentFlags().StringVar(&mongoURI, "mongo-uri", "", "MongoDB connection URI")
	rootCmd.PersistentFlags().StringVar(&mongoDB, "mongo-db", "", "MongoDB database name")
	rootCmd.PersistentFlags().StringVar(&assetsDir, "assets-dir", "", "local image directory used as fallback")
	rootCmd.PersistentFlags().StringVar(&forumURL, "forum-url", "", "forum base URL")
	rootCmd.PersistentFlags().StringVar(&catalogURL, "catalog-url", "", "catalog site base URL")
	rootCmd.PersistentFlags().StringVar(&delay, "delay", "", "pause between event requests, e.g. 500ms")
	rootCmd.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9090")

	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(eventCmd())
	rootCmd.AddCommand(eventsCmd())
	rootCmd.AddCommand(catalogCmd("ranks", "Scrape the rank catalog", runRanks))
	rootCmd.AddCommand(catalogCmd("modes", "Scrape the game-mode catalog", runModes))
	rootCmd.AddCommand(catalogCmd("weapons", "Scrape the weapon catalog", runWeapons))
	rootCmd.AddCommand(catalogCmd("catalog", "Scrape ranks, modes and weapons", runCatalog))
	rootCmd.AddCommand(versionCmd())
	rootCmd.AddCommand(configCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// listCmd creates the "list" subcommand.
func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List discussions in the announcements category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app) error {
				stubs, err := a.scraper.ScrapeList(ctx)
				if err != nil {
					return err
				}
				return a.store(ctx, types.KindStub, storage.Records(stubs))
			})
		},
	}
}

// eventCmd creates the "event" subcommand.
func eventCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "event [url]",
		Short: "Scrape a single forum thread",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.ValidateURL(args[0]); err != nil {
				return fmt.Errorf("invalid URL %q: %w", args[0], err)
			}
			return withApp(func(ctx context.Context, a *app) error {
				ev, err := a.scraper.ScrapeEvent(ctx, args[0])
				if err != nil {
					return err
				}
				return a.store(ctx, types.KindEvent, []any{ev})
			})
		},
	}
}

// eventsCmd creates the "events" subcommand.
func eventsCmd() *cobra.Command {
	var latest bool
	cmd := &cobra.Command{
		Use:   "events [url...]",
		Short: "Scrape several forum threads in order",
		Long:  "Scrape the given threads sequentially, or with --latest every thread in the announcements listing. Failed threads are skipped.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !latest && len(args) == 0 {
				return fmt.Errorf("give at least one URL or --latest")
			}
			for _, rawURL := range args {
				if err := config.ValidateURL(rawURL); err != nil {
					return fmt.Errorf("invalid URL %q: %w", rawURL, err)
				}
			}
			return withApp(func(ctx context.Context, a *app) error {
				start := time.Now()
				urls := args
				if latest {
					stubs, err := a.scraper.ScrapeList(ctx)
					if err != nil {
						return err
					}
					for _, stub := range stubs {
						urls = append(urls, stub.URL)
					}
				}
				events := a.scraper.ScrapeMany(ctx, urls)
				a.logger.Info("events complete",
					"requested", len(urls),
					"scraped", len(events),
					"elapsed", time.Since(start).Round(time.Millisecond),
				)
				return a.store(ctx, types.KindEvent, storage.Records(events))
			})
		},
	}
	cmd.Flags().BoolVar(&latest, "latest", false, "also scrape every thread in the announcements listing")
	return cmd
}

func catalogCmd(use, short string, run func(context.Context, *app) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(run)
		},
	}
}

func runRanks(ctx context.Context, a *app) error {
	ranks, err := a.scraper.ScrapeRanks(ctx)
	if err != nil {
		return err
	}
	return a.store(ctx, types.KindRank, storage.Records(ranks))
}

func runModes(ctx context.Context, a *app) error {
	modes, err := a.scraper.ScrapeModes(ctx)
	if err != nil {
		return err
	}
	return a.store(ctx, types.KindMode, storage.Records(modes))
}

func runWeapons(ctx context.Context, a *app) error {
	weapons, err := a.scraper.ScrapeWeapons(ctx)
	if err != nil {
		return err
	}
	return a.store(ctx, types.KindWeapon, storage.Records(weapons))
}

// runCatalog scrapes every catalog page, continuing past a failed one.
func runCatalog(ctx context.Context, a *app) error {
	pages := []struct {
		name string
		run  func(context.Context, *app) error
	}{
		{"ranks", runRanks},
		{"modes", runModes},
		{"weapons", runWeapons},
	}

	var failed []string
	for _, page := range pages {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := page.run(ctx, a); err != nil {
			a.logger.Error("catalog page failed", "page", page.name, "error", err)
			failed = append(failed, page.name)
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("catalog pages failed: %s", strings.Join(failed, ", "))
	}
	return nil
}

// versionCmd creates the "version" subcommand.
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("GuildScrape %s\n", config.Version)
		},
	}
}

// configCmd creates the "config" subcommand for inspecting configuration.
func configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			fmt.Printf("Forum:\n")
			fmt.Printf("  Base URL:          %s\n", cfg.Forum.BaseURL)
			fmt.Printf("  Category:          %s\n", cfg.Forum.CategoryPath)
			fmt.Printf("  List Limit:        %d\n", cfg.Forum.ListLimit)
			fmt.Printf("\nCatalog:\n")
			fmt.Printf("  Base URL:          %s\n", cfg.Catalog.BaseURL)
			fmt.Printf("  Limits:            ranks %d, modes %d, weapons %d\n",
				cfg.Catalog.RanksLimit, cfg.Catalog.ModesLimit, cfg.Catalog.WeaponLimit)
			fmt.Printf("\nFetcher:\n")
			fmt.Printf("  Timeouts:          list %s, detail %s, catalog %s\n",
				cfg.Fetcher.ListTimeout, cfg.Fetcher.DetailTimeout, cfg.Fetcher.CatalogTimeout)
			fmt.Printf("  Catalog Retries:   %d\n", cfg.Fetcher.CatalogRetries)
			fmt.Printf("  Max Status:        %d\n", cfg.Fetcher.MaxStatus)
			fmt.Printf("  Max Body Size:     %d bytes\n", cfg.Fetcher.MaxBodySize)
			fmt.Printf("\nAssets:\n")
			fmt.Printf("  Directory:         %s\n", cfg.Assets.Dir)
			fmt.Printf("  Public Prefix:     %s\n", cfg.Assets.PublicPrefix)
			fmt.Printf("\nBatch Delay:         %s\n", cfg.Batch.Delay)
			fmt.Printf("Rank Bonuses:        %d configured\n", len(cfg.Ranks.Bonuses))
			fmt.Printf("\nStorage:\n")
			fmt.Printf("  Type:              %s\n", cfg.Storage.Type)
			fmt.Printf("  Output Path:       %s\n", cfg.Storage.OutputPath)
			fmt.Printf("  Database:          %s\n", cfg.Storage.Database)
			return nil
		},
	}
}

// app holds the wiring shared by every scraping command.
type app struct {
	scraper *scraper.Scraper
	sink    storage.Storage
	logger  *slog.Logger
}

func (a *app) store(ctx context.Context, kind string, records []any) error {
	if err := a.sink.Store(ctx, kind, records); err != nil {
		return fmt.Errorf("store %s records: %w", kind, err)
	}
	a.logger.Info("records stored", "kind", kind, "count", len(records), "sink", a.sink.Name())
	return nil
}

// withApp builds the scraper and sink, runs fn, and tears everything down.
func withApp(fn func(context.Context, *app) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := setupLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	httpFetcher := fetcher.NewHTTPFetcher(cfg, logger)
	defer httpFetcher.Close()

	index := assets.NewOSIndex(assets.Options{
		Dir:                 cfg.Assets.Dir,
		PublicPrefix:        cfg.Assets.PublicPrefix,
		SimilarityThreshold: cfg.Assets.SimilarityThreshold,
	}, logger)

	metrics := observability.NewMetrics(logger)
	if cfg.Metrics.Addr != "" {
		go func() {
			if err := metrics.Serve(ctx, cfg.Metrics.Addr, cfg.Metrics.Path); err != nil {
				logger.Warn("metrics server failed", "error", err)
			}
		}()
	}

	sc, err := scraper.New(cfg, httpFetcher, index, metrics, logger)
	if err != nil {
		return err
	}

	sink, err := storage.New(ctx, cfg.Storage, logger)
	if err != nil {
		return fmt.Errorf("create storage: %w", err)
	}

	runErr := fn(ctx, &app{scraper: sc, sink: sink, logger: logger})
	if err := sink.Close(); err != nil && runErr == nil {
		runErr = fmt.Errorf("close storage: %w", err)
	}
	return runErr
}

// loadConfig loads, overrides and validates the configuration.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := applyCLIOverrides(cfg); err != nil {
		return nil, err
	}
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// setupLogger creates a structured logger.
func setupLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Logging.Level)); err != nil {
		level = slog.LevelInfo
	}
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if cfg.Logging.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}

// applyCLIOverrides applies command-line flag values to the config.
func applyCLIOverrides(cfg *config.Config) error {
	if outputType != "" {
		cfg.Storage.Type = strings.ToLower(outputType)
	}
	if outputPath != "" {
		cfg.Storage.OutputPath = outputPath
	}
	if mongoURI != "" {
		cfg.Storage.MongoURI = mongoURI
	}
	if mongoDB != "" {
		cfg.Storage.Database = mongoDB
	}
	if assetsDir != "" {
		cfg.Assets.Dir = assetsDir
	}
	if forumURL != "" {
		cfg.Forum.BaseURL = forumURL
	}
	if catalogURL != "" {
		cfg.Catalog.BaseURL = catalogURL
	}
	if delay != "" {
		d, err := time.ParseDuration(delay)
		if err != nil {
			return fmt.Errorf("invalid --delay %q: %w", delay, err)
		}
		cfg.Batch.Delay = d
	}
	if metricsAddr != "" {
		cfg.Metrics.Addr = metricsAddr
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	return nil
}
