// Package storage persists scraped records for the CLI. Records are grouped
// by kind (event, rank, ...), one file or collection per kind.
package storage

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/IshaanNene/GuildScrape/internal/config"
	"github.com/IshaanNene/GuildScrape/internal/types"
)

// Storage is the interface for all storage backends.
type Storage interface {
	// Store persists a batch of records of one kind.
	Store(ctx context.Context, kind string, records []any) error

	// Close flushes pending writes and releases resources.
	Close() error

	// Name returns the storage backend identifier.
	Name() string
}

// New builds the backends listed in cfg.Type. More than one yields a fan-out.
func New(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (Storage, error) {
	var backends []Storage
	for _, t := range config.StorageTypes(cfg.Type) {
		var (
			backend Storage
			err     error
		)
		switch t {
		case "json", "jsonl":
			backend, err = NewFileStorage(t, cfg.OutputPath, logger)
		case "stdout":
			backend = NewWriterStorage(os.Stdout, logger)
		case "mongo":
			backend, err = NewMongoStorage(ctx, cfg.MongoURI, cfg.Database, logger)
		default:
			err = fmt.Errorf("unsupported storage type: %s", t)
		}
		if err != nil {
			for _, b := range backends {
				b.Close()
			}
			return nil, &types.StorageError{Backend: t, Err: err}
		}
		backends = append(backends, backend)
	}

	switch len(backends) {
	case 0:
		return nil, &types.StorageError{Backend: cfg.Type, Err: fmt.Errorf("no storage configured")}
	case 1:
		return backends[0], nil
	default:
		return NewMultiStorage(backends, logger), nil
	}
}

// Records converts a typed slice for Store.
func Records[T any](items []T) []any {
	out := make([]any, len(items))
	for i, item := range items {
		out[i] = item
	}
	return out
}

// --- Multi-Storage Fan-Out ---

// MultiStorage writes records to multiple backends.
type MultiStorage struct {
	backends []Storage
	logger   *slog.Logger
}

// NewMultiStorage creates a storage that fans out to multiple backends.
func NewMultiStorage(backends []Storage, logger *slog.Logger) *MultiStorage {
	return &MultiStorage{
		backends: backends,
		logger:   logger.With("component", "multi_storage"),
	}
}

func (s *MultiStorage) Name() string { return "multi" }

func (s *MultiStorage) Store(ctx context.Context, kind string, records []any) error {
	var firstErr error
	for _, backend := range s.backends {
		if err := backend.Store(ctx, kind, records); err != nil {
			s.logger.Error("backend store failed", "backend", backend.Name(), "kind", kind, "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (s *MultiStorage) Close() error {
	var firstErr error
	for _, backend := range s.backends {
		if err := backend.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
