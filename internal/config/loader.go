package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. GUILDSCRAPE_FORUM_BASE_URL.
const EnvPrefix = "GUILDSCRAPE"

// Load reads configuration from .env files, the config file and the environment.
// Priority (highest to lowest): env vars > config file > defaults.
// CLI flags are applied by the caller after Load returns.
func Load(configPath string) (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigType("yaml")

	setDefaults(v, cfg)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("guildscrape")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".guildscrape"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && configPath != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is okay if not explicitly specified
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// loadDotEnv exports variables from the given .env files without overriding
// variables already present in the process environment. Missing files are skipped.
func loadDotEnv(files ...string) error {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// setDefaults registers default values in viper so AutomaticEnv can see every key.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("forum.base_url", cfg.Forum.BaseURL)
	v.SetDefault("forum.category_path", cfg.Forum.CategoryPath)
	v.SetDefault("forum.discussion_marker", cfg.Forum.DiscussionMarker)
	v.SetDefault("forum.list_limit", cfg.Forum.ListLimit)

	v.SetDefault("catalog.base_url", cfg.Catalog.BaseURL)
	v.SetDefault("catalog.ranks_path", cfg.Catalog.RanksPath)
	v.SetDefault("catalog.modes_path", cfg.Catalog.ModesPath)
	v.SetDefault("catalog.weapons_path", cfg.Catalog.WeaponsPath)
	v.SetDefault("catalog.ranks_limit", cfg.Catalog.RanksLimit)
	v.SetDefault("catalog.modes_limit", cfg.Catalog.ModesLimit)
	v.SetDefault("catalog.weapon_limit", cfg.Catalog.WeaponLimit)

	v.SetDefault("fetcher.list_timeout", cfg.Fetcher.ListTimeout)
	v.SetDefault("fetcher.detail_timeout", cfg.Fetcher.DetailTimeout)
	v.SetDefault("fetcher.catalog_timeout", cfg.Fetcher.CatalogTimeout)
	v.SetDefault("fetcher.catalog_retries", cfg.Fetcher.CatalogRetries)
	v.SetDefault("fetcher.max_status", cfg.Fetcher.MaxStatus)
	v.SetDefault("fetcher.max_body_size", cfg.Fetcher.MaxBodySize)
	v.SetDefault("fetcher.tls_insecure", cfg.Fetcher.TLSInsecure)
	v.SetDefault("fetcher.user_agents", cfg.Fetcher.UserAgents)

	v.SetDefault("assets.dir", cfg.Assets.Dir)
	v.SetDefault("assets.public_prefix", cfg.Assets.PublicPrefix)
	v.SetDefault("assets.similarity_threshold", cfg.Assets.SimilarityThreshold)

	v.SetDefault("batch.delay", cfg.Batch.Delay)

	v.SetDefault("storage.type", cfg.Storage.Type)
	v.SetDefault("storage.output_path", cfg.Storage.OutputPath)
	v.SetDefault("storage.mongo_uri", cfg.Storage.MongoURI)
	v.SetDefault("storage.database", cfg.Storage.Database)

	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)

	v.SetDefault("metrics.addr", cfg.Metrics.Addr)
	v.SetDefault("metrics.path", cfg.Metrics.Path)
}
