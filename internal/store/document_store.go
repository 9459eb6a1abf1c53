package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"infinite-experiment/flightvault/internal/metrics"
	"infinite-experiment/flightvault/internal/models/entities"
)

const maxUpdateAttempts = 5

var (
	ErrSaveFailed = errors.New("document store: save failed")
	ErrConflict   = errors.New("document store: too many concurrent writers")
)

// DocumentStore persists the whole flight cache as one document.
type DocumentStore interface {
	// Load returns the current document. Read failures are logged and yield an
	// empty, well-formed document.
	Load(ctx context.Context) *entities.Document

	// Save replaces the document. Failures are logged and reported as false.
	Save(ctx context.Context, doc *entities.Document) bool

	// Update runs an atomic read-modify-write. fn may run more than once when a
	// backend retries after a conflicting write, so it must only depend on the
	// document it is given. An error from fn aborts the write and is returned.
	Update(ctx context.Context, fn func(doc *entities.Document) error) error

	// Ping reports whether the backend is reachable
	Ping(ctx context.Context) error

	// Driver names the backend ("file", "memory", "redis", "postgres", "sqlite")
	Driver() string

	Close() error
}

func encodeDocument(doc *entities.Document) ([]byte, error) {
	if doc == nil {
		doc = entities.NewDocument()
	}
	doc.Normalize()
	return json.Marshal(doc)
}

func decodeDocument(raw []byte) (*entities.Document, error) {
	doc := &entities.Document{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, doc); err != nil {
			return nil, fmt.Errorf("failed to decode document: %w", err)
		}
	}
	doc.Normalize()
	return doc, nil
}

// recordOp counts a store operation by outcome
func recordOp(m *metrics.MetricsRegistry, op string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.StoreOperationsTotal.WithLabelValues(op, outcome).Inc()
}

func recordConflict(m *metrics.MetricsRegistry) {
	if m == nil {
		return
	}
	m.StoreConflictsTotal.Inc()
}
