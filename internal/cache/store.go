// Package cache provides the TTL key/value stores shared by every provider
// facing operation.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrCacheMiss indicates the key is absent or its entry has expired.
	ErrCacheMiss = errors.New("cache miss")
)

const (
	DefaultTTL      = time.Hour
	FlightSearchTTL = 30 * time.Minute
	HotelSearchTTL  = 30 * time.Minute
	LocationTTL     = 24 * time.Hour

	DefaultSweepInterval = 10 * time.Minute
)

// Store is a key/value store with per-entry expiry. Values are opaque bytes;
// callers always receive their own copy.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// TTLPolicy groups the expiry used per kind of cached result.
// Price confirmations are never cached and have no entry here.
type TTLPolicy struct {
	Default      time.Duration
	FlightSearch time.Duration
	HotelSearch  time.Duration
	Location     time.Duration
}

func DefaultTTLPolicy() TTLPolicy {
	return TTLPolicy{
		Default:      DefaultTTL,
		FlightSearch: FlightSearchTTL,
		HotelSearch:  HotelSearchTTL,
		Location:     LocationTTL,
	}
}

// GetJSON loads key and decodes it into v. It returns ErrCacheMiss when the
// key is absent.
func GetJSON(ctx context.Context, s Store, key string, v any) error {
	data, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		CacheErrors.WithLabelValues("decode").Inc()
		return fmt.Errorf("decode cache entry %s: %w", key, err)
	}
	return nil
}

func SetJSON(ctx context.Context, s Store, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		CacheErrors.WithLabelValues("encode").Inc()
		return fmt.Errorf("encode cache entry %s: %w", key, err)
	}
	return s.Set(ctx, key, data, ttl)
}

func effectiveTTL(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return DefaultTTL
	}
	return ttl
}
