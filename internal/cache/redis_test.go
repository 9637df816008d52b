package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func setupMiniredis(t *testing.T) (*miniredis.Miniredis, *RedisStore) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisStoreFromClient(client, "test:")
	t.Cleanup(func() { _ = store.Close() })

	return mr, store
}

func TestRedisStore_SetAndGet(t *testing.T) {
	mr, store := setupMiniredis(t)
	ctx := context.Background()

	if err := store.Set(ctx, "flights:search:abc", []byte(`[1,2]`), 30*time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, err := store.Get(ctx, "flights:search:abc")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != `[1,2]` {
		t.Errorf("Get = %s, want [1,2]", got)
	}

	if !mr.Exists("test:flights:search:abc") {
		t.Error("key should be stored under the configured prefix")
	}
	if ttl := mr.TTL("test:flights:search:abc"); ttl != 30*time.Minute {
		t.Errorf("TTL = %v, want 30m", ttl)
	}
}

func TestRedisStore_Get_Miss(t *testing.T) {
	_, store := setupMiniredis(t)

	_, err := store.Get(context.Background(), "missing")
	if !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Expected ErrCacheMiss, got %v", err)
	}
}

func TestRedisStore_Expiry(t *testing.T) {
	mr, store := setupMiniredis(t)
	ctx := context.Background()

	_ = store.Set(ctx, "k1", []byte("v"), time.Minute)
	mr.FastForward(2 * time.Minute)

	if _, err := store.Get(ctx, "k1"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Expected ErrCacheMiss after expiry, got %v", err)
	}
}

func TestRedisStore_Delete(t *testing.T) {
	_, store := setupMiniredis(t)
	ctx := context.Background()

	_ = store.Set(ctx, "k1", []byte("v"), time.Minute)
	if err := store.Delete(ctx, "k1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Get(ctx, "k1"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Expected ErrCacheMiss after delete, got %v", err)
	}
}

func TestRedisStore_ServerDown(t *testing.T) {
	mr, store := setupMiniredis(t)
	mr.Close()

	_, err := store.Get(context.Background(), "k1")
	if err == nil || errors.Is(err, ErrCacheMiss) {
		t.Errorf("Expected a redis error, got %v", err)
	}
}

func TestNewRedisStoreFromClient_Panic(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("NewRedisStoreFromClient should panic with nil client")
		}
	}()
	NewRedisStoreFromClient(nil, "")
}
