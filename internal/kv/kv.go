// README: Key-value persistence boundary backed by Redis, with an in-memory double for tests.
package kv

import (
	"context"
	"sync"

	"github.com/redis/go-redis/v9"
)

// KV is the single-blob persistence contract used by the rejection
// ledger and the session store. Get returns (nil, nil) for a missing key.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Del(ctx context.Context, key string) error
}

type RedisKV struct {
	redis *redis.Client
}

func NewRedisKV(client *redis.Client) *RedisKV {
	return &RedisKV{redis: client}
}

func (s *RedisKV) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := s.redis.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return val, nil
}

func (s *RedisKV) Set(ctx context.Context, key string, value []byte) error {
	return s.redis.Set(ctx, key, value, 0).Err()
}

func (s *RedisKV) Del(ctx context.Context, key string) error {
	return s.redis.Del(ctx, key).Err()
}

// Memory is an in-process KV used by tests.
type Memory struct {
	mu   sync.Mutex
	data map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.data[key]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]byte, len(value))
	copy(out, value)
	m.data[key] = out
	return nil
}

func (m *Memory) Del(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}
