package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/patrickmn/go-cache"

	"infinite-experiment/flightvault/internal/constants"
	"infinite-experiment/flightvault/internal/logging"
	"infinite-experiment/flightvault/internal/metrics"
	"infinite-experiment/flightvault/internal/models/entities"
)

// MemoryStore keeps the encoded document in an in-process go-cache entry.
// Documents are stored encoded so callers never share maps with the store.
type MemoryStore struct {
	cache   *cache.Cache
	mu      sync.Mutex
	metrics *metrics.MetricsRegistry
}

// Ensure MemoryStore implements DocumentStore
var _ DocumentStore = (*MemoryStore)(nil)

func NewMemoryStore(m *metrics.MetricsRegistry) *MemoryStore {
	return &MemoryStore{
		cache:   cache.New(cache.NoExpiration, 0),
		metrics: m,
	}
}

func (s *MemoryStore) Driver() string { return "memory" }

func (s *MemoryStore) Load(ctx context.Context) *entities.Document {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	recordOp(s.metrics, "load", err)
	if err != nil {
		logging.Error("[MemoryStore] Error loading data", "error", err.Error())
		return entities.NewDocument()
	}
	return doc
}

func (s *MemoryStore) Save(ctx context.Context, doc *entities.Document) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.write(doc)
	recordOp(s.metrics, "save", err)
	if err != nil {
		logging.Error("[MemoryStore] Error saving data", "error", err.Error())
		return false
	}
	return true
}

func (s *MemoryStore) Update(ctx context.Context, fn func(doc *entities.Document) error) error {
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
		return fmt.Errorf("%w: %v", ErrSaveFailed, err)
	}
	return nil
}

func (s *MemoryStore) Ping(ctx context.Context) error { return nil }

func (s *MemoryStore) Close() error {
	s.cache.Flush()
	return nil
}

func (s *MemoryStore) read() (*entities.Document, error) {
	val, found := s.cache.Get(string(constants.StoreKeyDocument))
	if !found {
		return entities.NewDocument(), nil
	}
	raw, ok := val.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected cached value of type %T", val)
	}
	return decodeDocument(raw)
}

func (s *MemoryStore) write(doc *entities.Document) error {
	raw, err := encodeDocument(doc)
	if err != nil {
		return err
	}
	s.cache.Set(string(constants.StoreKeyDocument), raw, cache.NoExpiration)
	return nil
}
