package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm/clause"

	"infinite-experiment/flightvault/internal/models/gorm"

	gormlib "gorm.io/gorm"
)

// ErrVersionMismatch means another writer updated the row first
var ErrVersionMismatch = errors.New("document version changed")

type DocumentRepo struct {
	db *gormlib.DB
}

func NewDocumentRepo(db *gormlib.DB) *DocumentRepo {
	return &DocumentRepo{db: db}
}

// Get fetches the document row, or nil when it has never been written
func (r *DocumentRepo) Get(ctx context.Context, key string) (*gorm.FlightDocument, error) {
	var doc gorm.FlightDocument

	err := r.db.WithContext(ctx).
		Where("doc_key = ?", key).
		First(&doc).Error

	if err != nil {
		if errors.Is(err, gormlib.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get document: %w", err)
	}

	return &doc, nil
}

// Create inserts the first version of a document. A concurrent insert of the
// same key surfaces as ErrVersionMismatch.
func (r *DocumentRepo) Create(ctx context.Context, key, payload string) error {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&gorm.FlightDocument{Key: key, Version: 1, Payload: payload})
	if res.Error != nil {
		return fmt.Errorf("failed to create document: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrVersionMismatch
	}
	return nil
}

// CompareAndSwap writes payload only if the stored version still equals version
func (r *DocumentRepo) CompareAndSwap(ctx context.Context, key string, version int64, payload string) error {
	res := r.db.WithContext(ctx).
		Model(&gorm.FlightDocument{}).
		Where("doc_key = ? AND version = ?", key, version).
		Updates(map[string]interface{}{
			"payload": payload,
			"version": gormlib.Expr("version + 1"),
		})
	if res.Error != nil {
		return fmt.Errorf("failed to update document: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrVersionMismatch
	}
	return nil
}

// Save unconditionally upserts the document and bumps its version
func (r *DocumentRepo) Save(ctx context.Context, key, payload string) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "doc_key"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"payload":    payload,
				"version":    gormlib.Expr("flight_documents.version + 1"),
				"updated_at": gormlib.Expr("CURRENT_TIMESTAMP"),
			}),
		}).
		Create(&gorm.FlightDocument{Key: key, Version: 1, Payload: payload}).Error
	if err != nil {
		return fmt.Errorf("failed to save document: %w", err)
	}
	return nil
}

// Ping checks the underlying connection
func (r *DocumentRepo) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (r *DocumentRepo) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
