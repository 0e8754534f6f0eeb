// Package assets resolves images from the locally hosted asset directory when
// remote markup does not carry a usable image URL.
package assets

import (
	"log/slog"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/antzucaro/matchr"
	"github.com/spf13/afero"

	"github.com/IshaanNene/GuildScrape/internal/slug"
)

// imageExts are the extensions considered image assets.
var imageExts = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".webp": true,
	".gif": true, ".jfif": true, ".bmp": true, ".svg": true,
}

// Index is a lazily built, process-lifetime listing of local image files.
type Index struct {
	fs        afero.Fs
	dir       string
	prefix    string
	threshold float64
	list      func() []string
	logger    *slog.Logger
}

// Options configures an Index.
type Options struct {
	// Dir is the directory to list.
	Dir string
	// PublicPrefix is prepended to matched filenames, e.g. "/assets".
	PublicPrefix string
	// SimilarityThreshold enables a Jaro-Winkler pass when > 0.
	SimilarityThreshold float64
}

// NewIndex creates an Index over dir on the given filesystem.
// The directory is not read until the first call to List.
func NewIndex(fs afero.Fs, opts Options, logger *slog.Logger) *Index {
	if opts.PublicPrefix == "" {
		opts.PublicPrefix = "/assets"
	}
	idx := &Index{
		fs:        fs,
		dir:       opts.Dir,
		prefix:    opts.PublicPrefix,
		threshold: opts.SimilarityThreshold,
		logger:    logger.With("component", "asset_index"),
	}
	idx.list = sync.OnceValue(idx.scan)
	return idx
}

// NewOSIndex creates an Index backed by the operating system filesystem.
func NewOSIndex(opts Options, logger *slog.Logger) *Index {
	return NewIndex(afero.NewOsFs(), opts, logger)
}

// List returns the image filenames in the asset directory, in listing order.
// An unreadable directory yields an empty list for the life of the Index.
func (idx *Index) List() []string {
	return idx.list()
}

func (idx *Index) scan() []string {
	if idx.dir == "" {
		return nil
	}
	entries, err := afero.ReadDir(idx.fs, idx.dir)
	if err != nil {
		idx.logger.Warn("asset directory unreadable, local image fallback disabled",
			"dir", idx.dir, "error", err)
		return nil
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if imageExts[strings.ToLower(filepath.Ext(e.Name()))] {
			names = append(names, e.Name())
		}
	}
	idx.logger.Debug("asset index built", "dir", idx.dir, "count", len(names))
	return names
}

// Lookup is Find over the index's own listing.
func (idx *Index) Lookup(name string) string {
	return idx.Find(name, idx.List())
}

// Find returns the public path of the first asset in list matching name,
// or "" when nothing matches. When several files match, the first in list
// order wins.
func (idx *Index) Find(name string, list []string) string {
	if file := Match(name, list, idx.threshold); file != "" {
		return path.Join(idx.prefix, file)
	}
	return ""
}

// Match applies the matching passes in order and returns the winning filename.
//
//  1. the normalized name, or any one of its tokens, is contained in the
//     lowercased filename (the normalized name is also tried against the
//     normalized filename);
//  2. any name token longer than two characters appears in the filename;
//  3. when threshold > 0, the most Jaro-Winkler-similar filename stem at or
//     above threshold.
func Match(name string, list []string, threshold float64) string {
	normalized := slug.Normalize(name)
	if normalized == "" || len(list) == 0 {
		return ""
	}
	tokens := slug.Tokens(name)

	for _, file := range list {
		lower := strings.ToLower(file)
		normFile := slug.Normalize(file)
		if strings.Contains(lower, normalized) || strings.Contains(normFile, normalized) {
			return file
		}
		for _, tok := range tokens {
			if strings.Contains(lower, tok) {
				return file
			}
		}
	}

	for _, file := range list {
		lower := strings.ToLower(file)
		for _, tok := range tokens {
			if len(tok) > 2 && strings.Contains(lower, tok) {
				return file
			}
		}
	}

	if threshold <= 0 {
		return ""
	}
	var best string
	var bestScore float64
	for _, file := range list {
		stem := slug.Normalize(strings.TrimSuffix(file, filepath.Ext(file)))
		score := matchr.JaroWinkler(normalized, stem, false)
		if score > bestScore {
			best, bestScore = file, score
		}
	}
	if bestScore >= threshold {
		return best
	}
	return ""
}
