package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sort"
	"sync"

	"github.com/spf13/afero"

	"github.com/IshaanNene/GuildScrape/internal/types"
)

// --- JSON Storage ---

// JSONStorage buffers records and writes one JSON array per kind to
// <dir>/<kind>.json on Close.
type JSONStorage struct {
	fs      afero.Fs
	dir     string
	records map[string][]any
	mu      sync.Mutex
	logger  *slog.Logger
}

// NewJSONStorage creates a new JSON file storage on fs.
func NewJSONStorage(fs afero.Fs, dir string, logger *slog.Logger) (*JSONStorage, error) {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	return &JSONStorage{
		fs:      fs,
		dir:     dir,
		records: make(map[string][]any),
		logger:  logger.With("component", "json_storage"),
	}, nil
}

func (s *JSONStorage) Name() string { return "json" }

func (s *JSONStorage) Store(_ context.Context, kind string, records []any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[kind]; !ok {
		s.records[kind] = []any{}
	}
	s.records[kind] = append(s.records[kind], records...)
	s.logger.Debug("records buffered", "kind", kind, "count", len(records), "total", len(s.records[kind]))
	return nil
}

func (s *JSONStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kinds := make([]string, 0, len(s.records))
	for kind := range s.records {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)

	for _, kind := range kinds {
		path := filepath.Join(s.dir, kind+".json")
		if err := s.write(path, s.records[kind]); err != nil {
			return &types.StorageError{Backend: s.Name(), Err: err}
		}
		s.logger.Info("JSON written", "path", path, "records", len(s.records[kind]))
	}
	return nil
}

func (s *JSONStorage) write(path string, records []any) error {
	f, err := s.fs.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(records); err != nil {
		f.Close()
		return fmt.Errorf("encode JSON: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close output file: %w", err)
	}
	return nil
}

// --- JSONL Storage ---

// JSONLStorage streams records as newline-delimited JSON, one file per kind.
type JSONLStorage struct {
	fs     afero.Fs
	dir    string
	files  map[string]afero.File
	mu     sync.Mutex
	count  int
	logger *slog.Logger
}

// NewJSONLStorage creates a new JSONL file storage (streaming writes).
func NewJSONLStorage(fs afero.Fs, dir string, logger *slog.Logger) (*JSONLStorage, error) {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	return &JSONLStorage{
		fs:     fs,
		dir:    dir,
		files:  make(map[string]afero.File),
		logger: logger.With("component", "jsonl_storage"),
	}, nil
}

func (s *JSONLStorage) Name() string { return "jsonl" }

func (s *JSONLStorage) Store(_ context.Context, kind string, records []any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.files[kind]
	if !ok {
		var err error
		f, err = s.fs.Create(filepath.Join(s.dir, kind+".jsonl"))
		if err != nil {
			return &types.StorageError{Backend: s.Name(), Err: fmt.Errorf("create output file: %w", err)}
		}
		s.files[kind] = f
	}

	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)
	for _, record := range records {
		if err := enc.Encode(record); err != nil {
			return &types.StorageError{Backend: s.Name(), Err: fmt.Errorf("encode JSONL: %w", err)}
		}
		s.count++
	}
	return nil
}

func (s *JSONLStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.logger.Info("JSONL written", "dir", s.dir, "records", s.count)
	var firstErr error
	for _, f := range s.files {
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// --- Writer Storage ---

// WriterStorage prints each batch as an indented JSON array, for piping.
type WriterStorage struct {
	w      io.Writer
	mu     sync.Mutex
	logger *slog.Logger
}

// NewWriterStorage creates a storage that writes to w.
func NewWriterStorage(w io.Writer, logger *slog.Logger) *WriterStorage {
	return &WriterStorage{w: w, logger: logger.With("component", "writer_storage")}
}

func (s *WriterStorage) Name() string { return "stdout" }

func (s *WriterStorage) Store(_ context.Context, kind string, records []any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	enc := json.NewEncoder(s.w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(records); err != nil {
		return &types.StorageError{Backend: s.Name(), Err: fmt.Errorf("encode JSON: %w", err)}
	}
	s.logger.Debug("records written", "kind", kind, "count", len(records))
	return nil
}

func (s *WriterStorage) Close() error { return nil }

// NewFileStorage creates the appropriate file-based storage on the OS filesystem.
func NewFileStorage(storageType, outputDir string, logger *slog.Logger) (Storage, error) {
	fs := afero.NewOsFs()
	switch storageType {
	case "json":
		return NewJSONStorage(fs, outputDir, logger)
	case "jsonl":
		return NewJSONLStorage(fs, outputDir, logger)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", storageType)
	}
}
