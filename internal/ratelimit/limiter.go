// Package ratelimit throttles outbound provider calls. The upstream enforces
// a per-application transaction rate across all endpoints, and some
// endpoints carry a tighter limit of their own.
package ratelimit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

type Limit struct {
	RequestsPerSecond float64
	BurstSize         int
}

// DefaultLimit matches the test environment quota of 10 transactions per second.
func DefaultLimit() Limit {
	return Limit{
		RequestsPerSecond: 10,
		BurstSize:         10,
	}
}

// Limiter applies a shared limit to every call plus an optional limit per
// operation name.
type Limiter struct {
	global *rate.Limiter

	mu         sync.RWMutex
	operations map[string]*rate.Limiter
}

func New(global Limit) *Limiter {
	return &Limiter{
		global:     newRateLimiter(global),
		operations: make(map[string]*rate.Limiter),
	}
}

func NewWithDefaults() *Limiter {
	return New(DefaultLimit())
}

func newRateLimiter(l Limit) *rate.Limiter {
	if l.RequestsPerSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	burst := l.BurstSize
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(l.RequestsPerSecond), burst)
}

// SetOperationLimit adds or replaces the limit for one operation.
func (l *Limiter) SetOperationLimit(operation string, limit Limit) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.operations[operation] = newRateLimiter(limit)
}

func (l *Limiter) operationLimiter(operation string) (*rate.Limiter, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	limiter, ok := l.operations[operation]
	return limiter, ok
}

// Wait blocks until both the operation limit and the shared limit admit one
// call, or ctx is done.
func (l *Limiter) Wait(ctx context.Context, operation string) error {
	if limiter, ok := l.operationLimiter(operation); ok {
		if err := limiter.Wait(ctx); err != nil {
			return err
		}
	}
	return l.global.Wait(ctx)
}
