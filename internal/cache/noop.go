package cache

import (
	"context"
	"time"
)

// NoOpStore never stores anything; every Get is a miss.
type NoOpStore struct{}

func NewNoOpStore() *NoOpStore {
	return &NoOpStore{}
}

func (NoOpStore) Get(ctx context.Context, key string) ([]byte, error) {
	CacheMisses.WithLabelValues("none").Inc()
	return nil, ErrCacheMiss
}

func (NoOpStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return nil
}

func (NoOpStore) Delete(ctx context.Context, key string) error {
	return nil
}

func (NoOpStore) Close() error {
	return nil
}
