package config

import (
	"time"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Config is the root configuration for GuildScrape.
type Config struct {
	Forum   ForumConfig   `mapstructure:"forum"   yaml:"forum"`
	Catalog CatalogConfig `mapstructure:"catalog" yaml:"catalog"`
	Fetcher FetcherConfig `mapstructure:"fetcher" yaml:"fetcher"`
	Assets  AssetsConfig  `mapstructure:"assets"  yaml:"assets"`
	Batch   BatchConfig   `mapstructure:"batch"   yaml:"batch"`
	Ranks   RanksConfig   `mapstructure:"ranks"   yaml:"ranks"`
	Storage StorageConfig `mapstructure:"storage" yaml:"storage"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`
}

// ForumConfig describes the forum that announcements and events are read from.
type ForumConfig struct {
	BaseURL          string `mapstructure:"base_url"          yaml:"base_url"`
	CategoryPath     string `mapstructure:"category_path"     yaml:"category_path"`
	DiscussionMarker string `mapstructure:"discussion_marker" yaml:"discussion_marker"`
	ListLimit        int    `mapstructure:"list_limit"        yaml:"list_limit"`
}

// CatalogConfig describes the static game-catalog site.
type CatalogConfig struct {
	BaseURL     string `mapstructure:"base_url"     yaml:"base_url"`
	RanksPath   string `mapstructure:"ranks_path"   yaml:"ranks_path"`
	ModesPath   string `mapstructure:"modes_path"   yaml:"modes_path"`
	WeaponsPath string `mapstructure:"weapons_path" yaml:"weapons_path"`
	RanksLimit  int    `mapstructure:"ranks_limit"  yaml:"ranks_limit"`
	ModesLimit  int    `mapstructure:"modes_limit"  yaml:"modes_limit"`
	WeaponLimit int    `mapstructure:"weapon_limit" yaml:"weapon_limit"`
}

// FetcherConfig controls the outbound HTTP fetcher.
type FetcherConfig struct {
	ListTimeout    time.Duration `mapstructure:"list_timeout"    yaml:"list_timeout"`
	DetailTimeout  time.Duration `mapstructure:"detail_timeout"  yaml:"detail_timeout"`
	CatalogTimeout time.Duration `mapstructure:"catalog_timeout" yaml:"catalog_timeout"`
	CatalogRetries int           `mapstructure:"catalog_retries" yaml:"catalog_retries"`
	MaxStatus      int           `mapstructure:"max_status"      yaml:"max_status"`
	MaxBodySize    int64         `mapstructure:"max_body_size"   yaml:"max_body_size"`
	TLSInsecure    bool          `mapstructure:"tls_insecure"    yaml:"tls_insecure"`
	UserAgents     []string      `mapstructure:"user_agents"     yaml:"user_agents"`
}

// AssetsConfig controls the local image fallback.
type AssetsConfig struct {
	Dir                 string  `mapstructure:"dir"                  yaml:"dir"`
	PublicPrefix        string  `mapstructure:"public_prefix"        yaml:"public_prefix"`
	SimilarityThreshold float64 `mapstructure:"similarity_threshold" yaml:"similarity_threshold"`
}

// BatchConfig controls sequential detail scraping.
type BatchConfig struct {
	Delay time.Duration `mapstructure:"delay" yaml:"delay"`
}

// RanksConfig holds curated rank metadata that the catalog site does not publish.
type RanksConfig struct {
	Bonuses []RankBonus `mapstructure:"bonuses" yaml:"bonuses"`
}

// RankBonus is keyed by the exact in-game rank name.
type RankBonus struct {
	Name        string `mapstructure:"name"         yaml:"name"`
	ExpRequired int64  `mapstructure:"exp_required" yaml:"exp_required"`
	Bonus       string `mapstructure:"bonus"        yaml:"bonus"`
}

// StorageConfig controls where the CLI writes records. Type may list several
// sinks separated by commas.
type StorageConfig struct {
	Type       string `mapstructure:"type"        yaml:"type"`
	OutputPath string `mapstructure:"output_path" yaml:"output_path"`
	MongoURI   string `mapstructure:"mongo_uri"   yaml:"mongo_uri"`
	Database   string `mapstructure:"database"    yaml:"database"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Addr string `mapstructure:"addr" yaml:"addr"`
	Path string `mapstructure:"path" yaml:"path"`
}

// DefaultRankBonuses is the curated bonus table shipped with the binary.
func DefaultRankBonuses() []RankBonus {
	return []RankBonus{
		{Name: "Sergeant", ExpRequired: 50000, Bonus: "1 Free Crate Ticket"},
		{Name: "Lieutenant", ExpRequired: 500000, Bonus: "3 Free Crate Tickets"},
		{Name: "Captain", ExpRequired: 1500000, Bonus: "5 Free Crate Tickets"},
		{Name: "Major", ExpRequired: 5000000, Bonus: "8 Free Crate Tickets"},
		{Name: "Colonel", ExpRequired: 12000000, Bonus: "12 Free Crate Tickets"},
		{Name: "Brigadier General", ExpRequired: 25000000, Bonus: "15 Free Crate Tickets"},
		{Name: "General", ExpRequired: 50000000, Bonus: "20 Free Crate Tickets"},
		{Name: "Marshall", ExpRequired: 75000000, Bonus: "25 Free Crate Tickets"},
		{Name: "Grand Marshall", ExpRequired: 100000000, Bonus: "30 Free Crate Tickets"},
	}
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Forum: ForumConfig{
			BaseURL:          "https://forum.example.com",
			CategoryPath:     "/categories/announcements",
			DiscussionMarker: "/discussion/",
			ListLimit:        20,
		},
		Catalog: CatalogConfig{
			BaseURL:     "https://www.example.com",
			RanksPath:   "/ranks",
			ModesPath:   "/modes",
			WeaponsPath: "/weapons",
			RanksLimit:  50,
			ModesLimit:  50,
			WeaponLimit: 100,
		},
		Fetcher: FetcherConfig{
			ListTimeout:    10 * time.Second,
			DetailTimeout:  15 * time.Second,
			CatalogTimeout: 45 * time.Second,
			CatalogRetries: 1,
			MaxStatus:      500,
			MaxBodySize:    10 * 1024 * 1024, // 10MB
			UserAgents: []string{
				"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
				"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			},
		},
		Assets: AssetsConfig{
			Dir:          "./public/assets",
			PublicPrefix: "/assets",
		},
		Batch: BatchConfig{
			Delay: 500 * time.Millisecond,
		},
		Ranks: RanksConfig{
			Bonuses: DefaultRankBonuses(),
		},
		Storage: StorageConfig{
			Type:       "json",
			OutputPath: "./output",
			Database:   "guildscrape",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Path: "/metrics",
		},
	}
}
