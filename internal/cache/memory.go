package cache

import (
	"context"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const shardCount = 32

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

type memoryShard struct {
	mu    sync.RWMutex
	items map[string]memoryEntry
}

// MemoryStore is an in-process Store. Keys are spread over independently
// locked shards so operations on different keys rarely contend. Expired
// entries are invisible to Get immediately and are physically removed by a
// background sweep.
type MemoryStore struct {
	shards        [shardCount]*memoryShard
	now           func() time.Time
	sweepInterval time.Duration
	logger        zerolog.Logger

	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

type MemoryOption func(*MemoryStore)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) MemoryOption {
	return func(s *MemoryStore) {
		s.now = now
	}
}

// WithSweepInterval sets how often expired entries are removed. A value <= 0
// disables the background sweep.
func WithSweepInterval(d time.Duration) MemoryOption {
	return func(s *MemoryStore) {
		s.sweepInterval = d
	}
}

func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		now:           time.Now,
		sweepInterval: DefaultSweepInterval,
		logger:        log.With().Str("component", "memory-cache").Logger(),
		stop:          make(chan struct{}),
		done:          make(chan struct{}),
	}
	for i := range s.shards {
		s.shards[i] = &memoryShard{items: make(map[string]memoryEntry)}
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.sweepInterval > 0 {
		go s.sweepLoop()
	} else {
		close(s.done)
	}
	return s
}

func (s *MemoryStore) shardFor(key string) *memoryShard {
	return s.shards[xxhash.Sum64String(key)%shardCount]
}

func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	sh := s.shardFor(key)

	sh.mu.RLock()
	e, ok := sh.items[key]
	sh.mu.RUnlock()

	if !ok || s.now().After(e.expiresAt) {
		CacheMisses.WithLabelValues("memory").Inc()
		return nil, ErrCacheMiss
	}

	CacheHits.WithLabelValues("memory").Inc()
	out := make([]byte, len(e.value))
	copy(out, e.value)
	return out, nil
}

func (s *MemoryStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	stored := make([]byte, len(value))
	copy(stored, value)

	sh := s.shardFor(key)
	sh.mu.Lock()
	sh.items[key] = memoryEntry{
		value:     stored,
		expiresAt: s.now().Add(effectiveTTL(ttl)),
	}
	sh.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	sh := s.shardFor(key)
	sh.mu.Lock()
	delete(sh.items, key)
	sh.mu.Unlock()
	return nil
}

// Len reports the number of stored entries, expired or not.
func (s *MemoryStore) Len() int {
	n := 0
	for _, sh := range s.shards {
		sh.mu.RLock()
		n += len(sh.items)
		sh.mu.RUnlock()
	}
	return n
}

// Sweep removes every expired entry and returns how many were dropped.
func (s *MemoryStore) Sweep() int {
	now := s.now()
	removed := 0
	for _, sh := range s.shards {
		sh.mu.Lock()
		for k, e := range sh.items {
			if now.After(e.expiresAt) {
				delete(sh.items, k)
				removed++
			}
		}
		sh.mu.Unlock()
	}

	CacheEvictions.Add(float64(removed))
	CacheEntries.Set(float64(s.Len()))
	return removed
}

func (s *MemoryStore) sweepLoop() {
	defer close(s.done)

	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if removed := s.Sweep(); removed > 0 {
				s.logger.Debug().Int("removed", removed).Msg("Swept expired cache entries")
			}
		case <-s.stop:
			return
		}
	}
}

// Close stops the background sweep. It is safe to call more than once.
func (s *MemoryStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stop)
	})
	<-s.done
	return nil
}
