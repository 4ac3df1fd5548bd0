package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Store persists mappings by key. Put replaces the whole mapping.
type Store interface {
	Get(ctx context.Context, key string) (Mapping, error)
	Put(ctx context.Context, key string, v Mapping) error
}

// MemoryStore keeps the current Model in memory and swaps it on every Put.
type MemoryStore struct {
	mu    sync.Mutex
	model *Model
}

// NewMemoryStore returns a store over an empty model.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{model: NewModel()}
}

// Model returns the current snapshot.
func (s *MemoryStore) Model() *Model {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.model
}

func (s *MemoryStore) Get(_ context.Context, key string) (Mapping, error) {
	v, ok := s.Model().Get(key)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return v, nil
}

func (s *MemoryStore) Put(_ context.Context, key string, v Mapping) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.model = s.model.Put(key, v)
	return nil
}

// RedisStore keeps one JSON document per key.
type RedisStore struct {
	client  *redis.Client
	prefix  string
	timeout time.Duration
	logger  *zap.Logger
}

// NewRedisStore wraps client. Keys are stored as "<prefix>:<key>".
func NewRedisStore(client *redis.Client, prefix string, timeout time.Duration, logger *zap.Logger) *RedisStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisStore{client: client, prefix: prefix, timeout: timeout, logger: logger}
}

// Key returns the redis key used for key.
func (s *RedisStore) Key(key string) string {
	if s.prefix == "" {
		return key
	}
	return s.prefix + ":" + key
}

func (s *RedisStore) Get(ctx context.Context, key string) (Mapping, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	data, err := s.client.Get(ctx, s.Key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", key, err)
	}
	var v Mapping
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, key, err)
	}
	s.logger.Debug("metadata read", zap.String("key", s.Key(key)), zap.Int("bytes", len(data)))
	return v, nil
}

func (s *RedisStore) Put(ctx context.Context, key string, v Mapping) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.client.Set(ctx, s.Key(key), data, 0).Err(); err != nil {
		s.logger.Warn("metadata write failed", zap.String("key", s.Key(key)), zap.Error(err))
		return fmt.Errorf("writing %s: %w", key, err)
	}
	s.logger.Debug("metadata written", zap.String("key", s.Key(key)), zap.Int("bytes", len(data)))
	return nil
}

func (s *RedisStore) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}
