package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate checks the configuration for invalid values.
func Validate(cfg *Config) error {
	if err := ValidateURL(cfg.Forum.BaseURL); err != nil {
		return fmt.Errorf("forum.base_url: %w", err)
	}
	if cfg.Forum.DiscussionMarker == "" {
		return fmt.Errorf("forum.discussion_marker must not be empty")
	}
	if cfg.Forum.ListLimit < 1 {
		return fmt.Errorf("forum.list_limit must be >= 1, got %d", cfg.Forum.ListLimit)
	}

	if err := ValidateURL(cfg.Catalog.BaseURL); err != nil {
		return fmt.Errorf("catalog.base_url: %w", err)
	}
	for name, limit := range map[string]int{
		"catalog.ranks_limit":  cfg.Catalog.RanksLimit,
		"catalog.modes_limit":  cfg.Catalog.ModesLimit,
		"catalog.weapon_limit": cfg.Catalog.WeaponLimit,
	} {
		if limit < 1 {
			return fmt.Errorf("%s must be >= 1, got %d", name, limit)
		}
	}

	if cfg.Fetcher.ListTimeout <= 0 || cfg.Fetcher.DetailTimeout <= 0 || cfg.Fetcher.CatalogTimeout <= 0 {
		return fmt.Errorf("fetcher timeouts must be > 0")
	}
	if cfg.Fetcher.CatalogRetries < 0 {
		return fmt.Errorf("fetcher.catalog_retries must be >= 0, got %d", cfg.Fetcher.CatalogRetries)
	}
	if cfg.Fetcher.MaxStatus < 200 || cfg.Fetcher.MaxStatus > 600 {
		return fmt.Errorf("fetcher.max_status must be within 200-600, got %d", cfg.Fetcher.MaxStatus)
	}
	if cfg.Fetcher.MaxBodySize <= 0 {
		return fmt.Errorf("fetcher.max_body_size must be > 0")
	}

	if cfg.Assets.SimilarityThreshold < 0 || cfg.Assets.SimilarityThreshold > 1 {
		return fmt.Errorf("assets.similarity_threshold must be within 0-1, got %v", cfg.Assets.SimilarityThreshold)
	}

	if cfg.Batch.Delay < 0 {
		return fmt.Errorf("batch.delay must be >= 0")
	}

	for i, b := range cfg.Ranks.Bonuses {
		if b.Name == "" {
			return fmt.Errorf("ranks.bonuses[%d].name must not be empty", i)
		}
	}

	validStorageTypes := map[string]bool{
		"json": true, "jsonl": true, "mongo": true, "stdout": true,
	}
	for _, t := range StorageTypes(cfg.Storage.Type) {
		if !validStorageTypes[t] {
			return fmt.Errorf("storage.type %q is not supported (valid: json, jsonl, mongo, stdout)", t)
		}
		if t == "mongo" && cfg.Storage.MongoURI == "" {
			return fmt.Errorf("storage.mongo_uri is required for mongo storage")
		}
	}
	if len(StorageTypes(cfg.Storage.Type)) == 0 {
		return fmt.Errorf("storage.type must not be empty")
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[cfg.Logging.Level] {
		return fmt.Errorf("logging.level must be debug/info/warn/error, got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" && cfg.Logging.Format != "json" {
		return fmt.Errorf("logging.format must be 'text' or 'json', got %q", cfg.Logging.Format)
	}

	return nil
}

// ValidateURL checks if a URL string is an absolute http(s) URL.
func ValidateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("URL must have a host")
	}
	return nil
}

// StorageTypes splits a comma-separated storage.type such as "json,mongo".
func StorageTypes(list string) []string {
	var out []string
	for _, t := range strings.Split(list, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
