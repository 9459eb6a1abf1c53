package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"infinite-experiment/flightvault/internal/constants"
	"infinite-experiment/flightvault/internal/db/repositories"
	"infinite-experiment/flightvault/internal/logging"
	"infinite-experiment/flightvault/internal/metrics"
	"infinite-experiment/flightvault/internal/models/entities"
)

// GormStore keeps the document in one row of flight_documents. Updates are
// compare-and-swap on the row version, so several processes may share it.
type GormStore struct {
	repo    *repositories.DocumentRepo
	driver  string
	key     string
	metrics *metrics.MetricsRegistry
}

// Ensure GormStore implements DocumentStore
var _ DocumentStore = (*GormStore)(nil)

func NewGormStore(db *gorm.DB, driver string, m *metrics.MetricsRegistry) *GormStore {
	return &GormStore{
		repo:    repositories.NewDocumentRepo(db),
		driver:  driver,
		key:     string(constants.StoreKeyDocument),
		metrics: m,
	}
}

func (s *GormStore) Driver() string { return s.driver }

func (s *GormStore) Load(ctx context.Context) *entities.Document {
	doc, _, err := s.read(ctx)
	recordOp(s.metrics, "load", err)
	if err != nil {
		logging.Error("[GormStore] Error loading data", "driver", s.driver, "error", err.Error())
		return entities.NewDocument()
	}
	return doc
}

func (s *GormStore) Save(ctx context.Context, doc *entities.Document) bool {
	raw, err := encodeDocument(doc)
	if err == nil {
		err = s.repo.Save(ctx, s.key, string(raw))
	}
	recordOp(s.metrics, "save", err)
	if err != nil {
		logging.Error("[GormStore] Error saving data", "driver", s.driver, "error", err.Error())
		return false
	}
	return true
}

func (s *GormStore) Update(ctx context.Context, fn func(doc *entities.Document) error) error {
	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		doc, version, err := s.read(ctx)
		if err != nil {
			recordOp(s.metrics, "update", err)
			return err
		}
		if err := fn(doc); err != nil {
			return err
		}
		raw, err := encodeDocument(doc)
		if err != nil {
			recordOp(s.metrics, "update", err)
			return err
		}

		if version == 0 {
			err = s.repo.Create(ctx, s.key, string(raw))
		} else {
			err = s.repo.CompareAndSwap(ctx, s.key, version, string(raw))
		}
		if errors.Is(err, repositories.ErrVersionMismatch) {
			recordConflict(s.metrics)
			continue
		}
		recordOp(s.metrics, "update", err)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrSaveFailed, err)
		}
		return nil
	}

	recordOp(s.metrics, "update", ErrConflict)
	return ErrConflict
}

func (s *GormStore) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

func (s *GormStore) Close() error {
	return s.repo.Close()
}

// read returns the document and its row version; version 0 means no row yet
func (s *GormStore) read(ctx context.Context) (*entities.Document, int64, error) {
	row, err := s.repo.Get(ctx, s.key)
	if err != nil {
		return nil, 0, err
	}
	if row == nil {
		return entities.NewDocument(), 0, nil
	}
	doc, err := decodeDocument([]byte(row.Payload))
	if err != nil {
		return nil, 0, err
	}
	return doc, row.Version, nil
}
