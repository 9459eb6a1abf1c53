package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"infinite-experiment/flightvault/internal/logging"
	"infinite-experiment/flightvault/internal/metrics"
	"infinite-experiment/flightvault/internal/models/entities"
)

// FileStore keeps the document in a single JSON file. A mutex serializes
// read-modify-write cycles within the process.
type FileStore struct {
	path    string
	mu      sync.Mutex
	metrics *metrics.MetricsRegistry
}

// Ensure FileStore implements DocumentStore
var _ DocumentStore = (*FileStore)(nil)

// NewFileStore creates the data folder and an empty document if none exists yet
func NewFileStore(path string, m *metrics.MetricsRegistry) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data folder: %w", err)
	}

	s := &FileStore{path: path, metrics: m}

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err := s.write(entities.NewDocument()); err != nil {
			return nil, fmt.Errorf("failed to initialize data file: %w", err)
		}
		logging.Info("[FileStore] Initialized empty data file", "path", path)
	}

	return s, nil
}

func (s *FileStore) Driver() string { return "file" }

func (s *FileStore) Load(ctx context.Context) *entities.Document {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	recordOp(s.metrics, "load", err)
	if err != nil {
		logging.Error("[FileStore] Error loading data", "path", s.path, "error", err.Error())
		return entities.NewDocument()
	}
	return doc
}

func (s *FileStore) Save(ctx context.Context, doc *entities.Document) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.write(doc)
	recordOp(s.metrics, "save", err)
	if err != nil {
		logging.Error("[FileStore] Error saving data", "path", s.path, "error", err.Error())
		return false
	}
	return true
}

// Update refuses to write when the current file cannot be read, so a
// corrupt file is never silently replaced by a partial document.
func (s *FileStore) Update(ctx context.Context, fn func(doc *entities.Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		recordOp(s.metrics, "update", err)
		return err
	}

	if err := fn(doc); err != nil {
		return err
	}

	err = s.write(doc)
	recordOp(s.metrics, "update", err)
	if err != nil {
		logging.Error("[FileStore] Error saving data", "path", s.path, "error", err.Error())
		return fmt.Errorf("%w: %v", ErrSaveFailed, err)
	}
	return nil
}

func (s *FileStore) Ping(ctx context.Context) error {
	_, err := os.Stat(s.path)
	return err
}

func (s *FileStore) Close() error { return nil }

func (s *FileStore) read() (*entities.Document, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return entities.NewDocument(), nil
		}
		return nil, err
	}
	return decodeDocument(raw)
}

// write replaces the file through a temp file + rename so readers never see a torn document
func (s *FileStore) write(doc *entities.Document) error {
	if doc == nil {
		doc = entities.NewDocument()
	}
	doc.Normalize()

	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".flight_data-*.json")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, s.path)
}
