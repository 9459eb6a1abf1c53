package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"infinite-experiment/flightvault/internal/config"
	"infinite-experiment/flightvault/internal/constants"
	"infinite-experiment/flightvault/internal/logging"
	"infinite-experiment/flightvault/internal/metrics"
	"infinite-experiment/flightvault/internal/models/entities"
)

// RedisStore keeps the document as JSON under a single key. Update uses
// WATCH/MULTI so concurrent writers from several processes never lose updates.
type RedisStore struct {
	client  *redis.Client
	key     string
	metrics *metrics.MetricsRegistry
}

// Ensure RedisStore implements DocumentStore
var _ DocumentStore = (*RedisStore)(nil)

// NewRedisClient builds a client from config and checks the connection
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	addr := fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)
	logging.Info("[Redis] Initializing Redis client", "addr", addr, "db", cfg.DB)

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logging.Info("[Redis] Successfully connected to Redis")
	return client, nil
}

func NewRedisStore(client *redis.Client, key string, m *metrics.MetricsRegistry) *RedisStore {
	if key == "" {
		key = string(constants.StoreKeyDocument)
	}
	return &RedisStore{client: client, key: key, metrics: m}
}

func (s *RedisStore) Driver() string { return "redis" }

func (s *RedisStore) Load(ctx context.Context) *entities.Document {
	doc, err := s.read(ctx, s.client)
	recordOp(s.metrics, "load", err)
	if err != nil {
		logging.Error("[RedisStore] Error loading data", "key", s.key, "error", err.Error())
		return entities.NewDocument()
	}
	return doc
}

func (s *RedisStore) Save(ctx context.Context, doc *entities.Document) bool {
	raw, err := encodeDocument(doc)
	if err == nil {
		err = s.client.Set(ctx, s.key, raw, 0).Err()
	}
	recordOp(s.metrics, "save", err)
	if err != nil {
		logging.Error("[RedisStore] Error saving data", "key", s.key, "error", err.Error())
		return false
	}
	return true
}

func (s *RedisStore) Update(ctx context.Context, fn func(doc *entities.Document) error) error {
	txf := func(tx *redis.Tx) error {
		doc, err := s.read(ctx, tx)
		if err != nil {
			return err
		}
		if err := fn(doc); err != nil {
			return err
		}
		raw, err := encodeDocument(doc)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, s.key, raw, 0)
			return nil
		})
		return err
	}

	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		err := s.client.Watch(ctx, txf, s.key)
		if errors.Is(err, redis.TxFailedErr) {
			recordConflict(s.metrics)
			continue
		}
		recordOp(s.metrics, "update", err)
		return err
	}

	recordOp(s.metrics, "update", ErrConflict)
	return ErrConflict
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) read(ctx context.Context, c redis.Cmdable) (*entities.Document, error) {
	raw, err := c.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return entities.NewDocument(), nil
	}
	if err != nil {
		return nil, err
	}
	return decodeDocument(raw)
}
